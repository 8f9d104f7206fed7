package teacher

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "teachers"

type Teacher struct {
	record.Meta
	Name          string   `json:"name" validate:"notblank"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Phone         string   `json:"phone" validate:"omitempty,phone"`
	Address       string   `json:"address"`
	DateOfBirth   string   `json:"dateOfBirth" validate:"omitempty,isodate"`
	Qualification string   `json:"qualification"`
	Experience    string   `json:"experience"` // free text, e.g. "5 years"
	Subjects      []string `json:"subjects"`   // subject ids
	Classes       []string `json:"classes"`    // class ids
	JoiningDate   string   `json:"joiningDate" validate:"omitempty,isodate"`
	EmployeeID    string   `json:"employeeId"`
	Salary        float64  `json:"salary,omitempty" validate:"gte=0"`
}

func (t *Teacher) clean() {
	t.Name = core.CleanString(t.Name)
	t.Email = core.CleanString(t.Email, true /* lower */)
	t.Phone = core.CleanString(t.Phone)
	t.Address = core.CleanString(t.Address)
	t.Qualification = core.CleanString(t.Qualification)
	t.Experience = core.CleanString(t.Experience)
	t.EmployeeID = core.CleanString(t.EmployeeID)
	t.Subjects = core.CleanStrings(t.Subjects)
	t.Classes = core.CleanStrings(t.Classes)
	if t.Subjects == nil {
		t.Subjects = []string{}
	}
	if t.Classes == nil {
		t.Classes = []string{}
	}
}

// Teaches reports whether the teacher is assigned subjectID.
func (t Teacher) Teaches(subjectID string) bool {
	return core.Contains(t.Subjects, subjectID)
}
