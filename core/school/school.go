// Package school groups every collection service over one storage port and
// adds the cross-collection operations: guarded deletes, reference checks,
// export, import and reset.
package school

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/attendance"
	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/expense"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/notice"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/salary"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/core/subject"
	"github.com/trezcool/schooladmin/core/syllabus"
	"github.com/trezcool/schooladmin/core/teacher"
)

var ErrUnknownCollection = errors.New("unknown collection")

type School struct {
	Classes    *class.Service
	Subjects   *subject.Service
	Teachers   *teacher.Service
	Students   *student.Service
	Attendance *attendance.Service
	Fees       *fee.Service
	Salaries   *salary.Service
	Syllabus   *syllabus.Service
	Expenses   *expense.Service
	Notices    *notice.Service

	db          record.Storage
	logger      core.Logger
	collections []collection
	rules       []rule
}

// collection is the untyped view of one typed store.
type collection struct {
	key    string
	all    func(ctx context.Context) (interface{}, error)
	find   func(ctx context.Context, id string) (interface{}, error)
	delete func(ctx context.Context, id string) error
	count  func(ctx context.Context) (int, error)
	ids    func(ctx context.Context) (map[string]bool, error)
	decode func(raw json.RawMessage) (func(ctx context.Context) error, error)
}

func newCollection[T record.Record](st *record.Store[T]) collection {
	return collection{
		key:    st.Key(),
		all:    func(ctx context.Context) (interface{}, error) { return st.GetAll(ctx) },
		find:   func(ctx context.Context, id string) (interface{}, error) { return st.FindByID(ctx, id) },
		delete: st.Delete,
		count:  st.Count,
		ids:    func(ctx context.Context) (map[string]bool, error) {
			items, err := st.GetAll(ctx)
			if err != nil {
				return nil, err
			}
			set := make(map[string]bool, len(items))
			for _, item := range items {
				set[item.RecordID()] = true
			}
			return set, nil
		},
		decode: func(raw json.RawMessage) (func(ctx context.Context) error, error) {
			items := make([]T, 0)
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, errors.Wrapf(err, "decoding %s", st.Key())
			}
			seen := make(map[string]bool, len(items))
			for i, item := range items {
				id := item.RecordID()
				if id == "" {
					return nil, errors.Wrapf(record.ErrMissingID, "%s[%d]", st.Key(), i)
				}
				if seen[id] {
					return nil, errors.Wrapf(record.ErrDuplicateID, "%s[%d] %q", st.Key(), i, id)
				}
				seen[id] = true
			}
			return func(ctx context.Context) error { return st.SetAll(ctx, items) }, nil
		},
	}
}

func New(db record.Storage, logger core.Logger, conf *core.Config) *School {
	s := &School{
		Classes:    class.NewService(db, logger),
		Subjects:   subject.NewService(db, logger),
		Teachers:   teacher.NewService(db, logger),
		Students:   student.NewService(db, logger),
		Attendance: attendance.NewService(db, logger),
		Fees:       fee.NewService(db, logger),
		Salaries:   salary.NewService(db, logger, conf.Salary),
		Syllabus:   syllabus.NewService(db, logger),
		Expenses:   expense.NewService(db, logger),
		Notices:    notice.NewService(db, logger),
		db:         db,
		logger:     logger,
	}
	s.collections = []collection{
		newCollection(s.Classes.Store),
		newCollection(s.Subjects.Store),
		newCollection(s.Teachers.Store),
		newCollection(s.Students.Store),
		newCollection(s.Attendance.Store),
		newCollection(s.Fees.Store),
		newCollection(s.Salaries.Store),
		newCollection(s.Syllabus.Store),
		newCollection(s.Expenses.Store),
		newCollection(s.Notices.Store),
	}
	s.rules = s.referenceRules()
	return s
}

// Collections returns every collection key.
func (s *School) Collections() []string {
	keys := make([]string, 0, len(s.collections))
	for _, c := range s.collections {
		keys = append(keys, c.key)
	}
	return keys
}

func (s *School) collection(key string) (collection, error) {
	for _, c := range s.collections {
		if c.key == key {
			return c, nil
		}
	}
	return collection{}, errors.Wrap(ErrUnknownCollection, key)
}

// All returns every record of the collection named key, as its typed slice.
func (s *School) All(ctx context.Context, key string) (interface{}, error) {
	c, err := s.collection(key)
	if err != nil {
		return nil, err
	}
	return c.all(ctx)
}

// Find returns one record of the collection named key.
func (s *School) Find(ctx context.Context, key, id string) (interface{}, error) {
	c, err := s.collection(key)
	if err != nil {
		return nil, err
	}
	return c.find(ctx, id)
}

// Delete removes a record of the collection named key.
// When strict, records still referenced elsewhere are kept and a *ReferencedError is returned.
func (s *School) Delete(ctx context.Context, key, id string, strict bool) error {
	c, err := s.collection(key)
	if err != nil {
		return err
	}
	if strict {
		refs, err := s.ReferencesTo(ctx, key, id)
		if err != nil {
			return err
		}
		if len(refs) > 0 {
			return &ReferencedError{Collection: key, ID: id, Refs: refs}
		}
	}
	return c.delete(ctx, id)
}

func (s *School) DeleteClass(ctx context.Context, id string) error {
	return s.Delete(ctx, class.Key, id, true)
}

func (s *School) DeleteStudent(ctx context.Context, id string) error {
	return s.Delete(ctx, student.Key, id, true)
}

func (s *School) DeleteTeacher(ctx context.Context, id string) error {
	return s.Delete(ctx, teacher.Key, id, true)
}

func (s *School) DeleteSubject(ctx context.Context, id string) error {
	return s.Delete(ctx, subject.Key, id, true)
}

// Counts returns the number of records per collection.
func (s *School) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(s.collections))
	for _, c := range s.collections {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		counts[c.key] = n
	}
	return counts, nil
}

// Export returns every collection as its JSON array.
func (s *School) Export(ctx context.Context) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(s.collections))
	for _, c := range s.collections {
		items, err := c.all(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", c.key)
		}
		out[c.key] = raw
	}
	return out, nil
}

// Import overwrites the collections present in data.
// Everything is decoded and checked for missing or duplicate ids before the first write,
// so bad input changes nothing.
func (s *School) Import(ctx context.Context, data map[string]json.RawMessage) error {
	writes := make([]func(ctx context.Context) error, 0, len(data))
	for _, c := range s.collections {
		raw, ok := data[c.key]
		if !ok {
			continue
		}
		write, err := c.decode(raw)
		if err != nil {
			return err
		}
		writes = append(writes, write)
	}
	for key := range data {
		if _, err := s.collection(key); err != nil {
			return err
		}
	}

	for _, write := range writes {
		if err := write(ctx); err != nil {
			return err
		}
	}
	s.logger.Info(fmt.Sprintf("imported %d collections", len(writes)))
	return nil
}

// Reset deletes every collection from storage.
func (s *School) Reset(ctx context.Context) error {
	for _, c := range s.collections {
		if err := s.db.Delete(ctx, c.key); err != nil {
			return errors.Wrapf(err, "deleting %s", c.key)
		}
	}
	s.logger.Warn("all collections deleted")
	return nil
}
