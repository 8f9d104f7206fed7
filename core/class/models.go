package class

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "classes"

type Class struct {
	record.Meta
	Name           string   `json:"name" validate:"notblank"`
	Grade          string   `json:"grade" validate:"notblank"`
	Sections       []string `json:"sections"`
	Capacity       int      `json:"capacity" validate:"gte=0"`
	ClassTeacherID string   `json:"classTeacherId,omitempty"`
	Subjects       []string `json:"subjects"` // subject ids
}

func (c *Class) clean() {
	c.Name = core.CleanString(c.Name)
	c.Grade = core.CleanString(c.Grade)
	c.ClassTeacherID = core.CleanString(c.ClassTeacherID)
	c.Sections = core.CleanStrings(c.Sections)
	c.Subjects = core.CleanStrings(c.Subjects)
	if c.Sections == nil {
		c.Sections = []string{}
	}
	if c.Subjects == nil {
		c.Subjects = []string{}
	}
}

// Label names a section of the class, e.g. "Grade 5-A".
func (c Class) Label(section string) string {
	if section == "" {
		return c.Name
	}
	return c.Name + "-" + section
}
