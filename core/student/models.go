package student

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "students"

var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type Student struct {
	record.Meta
	Name          string `json:"name" validate:"notblank"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,phone"`
	Address       string `json:"address"`
	DateOfBirth   string `json:"dateOfBirth" validate:"omitempty,isodate"`
	ClassID       string `json:"classId"`
	ClassName     string `json:"className"`
	Section       string `json:"section"`
	ParentName    string `json:"parentName"`
	ParentPhone   string `json:"parentPhone" validate:"omitempty,phone"`
	ParentEmail   string `json:"parentEmail" validate:"omitempty,email"`
	AdmissionDate string `json:"admissionDate" validate:"omitempty,isodate"`
	RollNumber    string `json:"rollNumber"`
	BloodGroup    string `json:"bloodGroup,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
}

func (s *Student) clean() {
	s.Name = core.CleanString(s.Name)
	s.Email = core.CleanString(s.Email, true /* lower */)
	s.Phone = core.CleanString(s.Phone)
	s.Address = core.CleanString(s.Address)
	s.ClassID = core.CleanString(s.ClassID)
	s.ClassName = core.CleanString(s.ClassName)
	s.Section = core.CleanString(s.Section)
	s.ParentName = core.CleanString(s.ParentName)
	s.ParentPhone = core.CleanString(s.ParentPhone)
	s.ParentEmail = core.CleanString(s.ParentEmail, true /* lower */)
	s.RollNumber = core.CleanString(s.RollNumber)
	s.BloodGroup = core.CleanString(s.BloodGroup)
}
