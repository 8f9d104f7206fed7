package student

import (
	"context"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

// Service is the students collection.
// The embedded store gives raw access; Add and Update clean and validate first.
type Service struct {
	*record.Store[Student]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Student](db, Key, logger)}
}

// Add stores a new student. An empty id is generated.
func (svc *Service) Add(ctx context.Context, s Student) (Student, error) {
	s.clean()
	if err := core.Validate.Struct(s); err != nil {
		return Student{}, err
	}
	s.Meta = record.NewMeta(s.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, s); err != nil {
		return Student{}, err
	}
	return s, nil
}

// Update replaces the student identified by id, keeping its id and creation time.
func (svc *Service) Update(ctx context.Context, id string, s Student) (Student, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	s.clean()
	if err = core.Validate.Struct(s); err != nil {
		return Student{}, err
	}
	s.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, s); err != nil {
		return Student{}, err
	}
	return s, nil
}

func (svc *Service) GetByClass(ctx context.Context, classID string) ([]Student, error) {
	return svc.Filter(ctx, func(s Student) bool { return s.ClassID == classID })
}

// Search matches term against name, email and roll number, ignoring case.
func (svc *Service) Search(ctx context.Context, term string) ([]Student, error) {
	return svc.Filter(ctx, func(s Student) bool {
		return core.ContainsFold(term, s.Name, s.Email, s.RollNumber)
	})
}
