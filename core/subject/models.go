package subject

import (
	"strings"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "subjects"

type Subject struct {
	record.Meta
	Name        string   `json:"name" validate:"notblank"`
	Code        string   `json:"code" validate:"notblank"`
	Description string   `json:"description,omitempty"`
	TeacherID   string   `json:"teacherId,omitempty"`
	ClassIDs    []string `json:"classIds"`
	CreditHours int      `json:"creditHours" validate:"gte=0"`
}

func (s *Subject) clean() {
	s.Name = core.CleanString(s.Name)
	s.Code = strings.ToUpper(core.CleanString(s.Code))
	s.Description = core.CleanString(s.Description)
	s.TeacherID = core.CleanString(s.TeacherID)
	s.ClassIDs = core.CleanStrings(s.ClassIDs)
	if s.ClassIDs == nil {
		s.ClassIDs = []string{}
	}
}
