package school

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core/attendance"
	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/salary"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/core/subject"
	"github.com/trezcool/schooladmin/core/syllabus"
	"github.com/trezcool/schooladmin/core/teacher"
)

var ErrReferenced = errors.New("record is still referenced")

// Reference is one field of one record pointing at another record.
type Reference struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Field      string `json:"field"`
}

func (r Reference) String() string {
	return r.Collection + "/" + r.ID + "." + r.Field
}

// ReferencedError reports the references that kept a record from being deleted.
type ReferencedError struct {
	Collection string
	ID         string
	Refs       []Reference
}

func (e *ReferencedError) Error() string {
	refs := make([]string, 0, len(e.Refs))
	for _, r := range e.Refs {
		refs = append(refs, r.String())
	}
	return fmt.Sprintf("%s/%s is referenced by %s", e.Collection, e.ID, strings.Join(refs, ", "))
}

func (e *ReferencedError) Is(target error) bool { return target == ErrReferenced }

// Dangling is a reference to a record that does not exist.
type Dangling struct {
	Reference
	Target  string `json:"target"`  // referenced collection
	Missing string `json:"missing"` // referenced id
}

func (d Dangling) String() string {
	return fmt.Sprintf("%s -> %s/%s (missing)", d.Reference, d.Target, d.Missing)
}

// link is a referencing record id and the id it points at.
type link struct {
	from string
	to   string
}

// rule describes a reference field: which collection holds it and which it points at.
type rule struct {
	from   string
	field  string
	target string
	links  func(ctx context.Context) ([]link, error)
}

func oneLink[T any](load func(ctx context.Context) ([]T, error), get func(T) (string, string)) func(ctx context.Context) ([]link, error) {
	return func(ctx context.Context) ([]link, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		links := make([]link, 0, len(items))
		for _, item := range items {
			from, to := get(item)
			if to != "" {
				links = append(links, link{from: from, to: to})
			}
		}
		return links, nil
	}
}

func manyLinks[T any](load func(ctx context.Context) ([]T, error), get func(T) (string, []string)) func(ctx context.Context) ([]link, error) {
	return func(ctx context.Context) ([]link, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		links := make([]link, 0, len(items))
		for _, item := range items {
			from, tos := get(item)
			for _, to := range tos {
				if to != "" {
					links = append(links, link{from: from, to: to})
				}
			}
		}
		return links, nil
	}
}

func (s *School) referenceRules() []rule {
	return []rule{
		{from: student.Key, field: "classId", target: class.Key,
			links: oneLink(s.Students.GetAll, func(r student.Student) (string, string) { return r.ID, r.ClassID })},
		{from: teacher.Key, field: "subjects", target: subject.Key,
			links: manyLinks(s.Teachers.GetAll, func(r teacher.Teacher) (string, []string) { return r.ID, r.Subjects })},
		{from: teacher.Key, field: "classes", target: class.Key,
			links: manyLinks(s.Teachers.GetAll, func(r teacher.Teacher) (string, []string) { return r.ID, r.Classes })},
		{from: class.Key, field: "classTeacherId", target: teacher.Key,
			links: oneLink(s.Classes.GetAll, func(r class.Class) (string, string) { return r.ID, r.ClassTeacherID })},
		{from: class.Key, field: "subjects", target: subject.Key,
			links: manyLinks(s.Classes.GetAll, func(r class.Class) (string, []string) { return r.ID, r.Subjects })},
		{from: subject.Key, field: "teacherId", target: teacher.Key,
			links: oneLink(s.Subjects.GetAll, func(r subject.Subject) (string, string) { return r.ID, r.TeacherID })},
		{from: subject.Key, field: "classIds", target: class.Key,
			links: manyLinks(s.Subjects.GetAll, func(r subject.Subject) (string, []string) { return r.ID, r.ClassIDs })},
		{from: attendance.Key, field: "studentId", target: student.Key,
			links: oneLink(s.Attendance.GetAll, func(r attendance.Record) (string, string) { return r.ID, r.StudentID })},
		{from: attendance.Key, field: "classId", target: class.Key,
			links: oneLink(s.Attendance.GetAll, func(r attendance.Record) (string, string) { return r.ID, r.ClassID })},
		{from: fee.Key, field: "studentId", target: student.Key,
			links: oneLink(s.Fees.GetAll, func(r fee.Record) (string, string) { return r.ID, r.StudentID })},
		{from: salary.Key, field: "teacherId", target: teacher.Key,
			links: oneLink(s.Salaries.GetAll, func(r salary.Record) (string, string) { return r.ID, r.TeacherID })},
		{from: syllabus.Key, field: "subjectId", target: subject.Key,
			links: oneLink(s.Syllabus.GetAll, func(r syllabus.Syllabus) (string, string) { return r.ID, r.SubjectID })},
		{from: syllabus.Key, field: "teacherId", target: teacher.Key,
			links: oneLink(s.Syllabus.GetAll, func(r syllabus.Syllabus) (string, string) { return r.ID, r.TeacherID })},
		{from: syllabus.Key, field: "classIds", target: class.Key,
			links: manyLinks(s.Syllabus.GetAll, func(r syllabus.Syllabus) (string, []string) { return r.ID, r.ClassIDs })},
	}
}

// ReferencesTo lists the records pointing at id of the collection named key.
func (s *School) ReferencesTo(ctx context.Context, key, id string) ([]Reference, error) {
	if _, err := s.collection(key); err != nil {
		return nil, err
	}
	refs := make([]Reference, 0)
	for _, r := range s.rules {
		if r.target != key {
			continue
		}
		links, err := r.links(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			if l.to == id {
				refs = append(refs, Reference{Collection: r.from, ID: l.from, Field: r.field})
			}
		}
	}
	return refs, nil
}

// CheckReferences lists every reference to a record that does not exist.
func (s *School) CheckReferences(ctx context.Context) ([]Dangling, error) {
	ids := make(map[string]map[string]bool)
	for _, r := range s.rules {
		if _, ok := ids[r.target]; ok {
			continue
		}
		set, err := s.idSet(ctx, r.target)
		if err != nil {
			return nil, err
		}
		ids[r.target] = set
	}

	dangling := make([]Dangling, 0)
	for _, r := range s.rules {
		links, err := r.links(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			if !ids[r.target][l.to] {
				dangling = append(dangling, Dangling{
					Reference: Reference{Collection: r.from, ID: l.from, Field: r.field},
					Target:    r.target,
					Missing:   l.to,
				})
			}
		}
	}
	sort.SliceStable(dangling, func(i, j int) bool {
		return dangling[i].Collection < dangling[j].Collection
	})
	return dangling, nil
}

func (s *School) idSet(ctx context.Context, key string) (map[string]bool, error) {
	c, err := s.collection(key)
	if err != nil {
		return nil, err
	}
	return c.ids(ctx)
}
