package subject

import (
	"context"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

type Service struct {
	*record.Store[Subject]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Subject](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, s Subject) (Subject, error) {
	s.clean()
	if err := core.Validate.Struct(s); err != nil {
		return Subject{}, err
	}
	s.Meta = record.NewMeta(s.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, s); err != nil {
		return Subject{}, err
	}
	return s, nil
}

func (svc *Service) Update(ctx context.Context, id string, s Subject) (Subject, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	s.clean()
	if err = core.Validate.Struct(s); err != nil {
		return Subject{}, err
	}
	s.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, s); err != nil {
		return Subject{}, err
	}
	return s, nil
}

func (svc *Service) GetByClass(ctx context.Context, classID string) ([]Subject, error) {
	return svc.Filter(ctx, func(s Subject) bool { return core.Contains(s.ClassIDs, classID) })
}

func (svc *Service) GetByTeacher(ctx context.Context, teacherID string) ([]Subject, error) {
	return svc.Filter(ctx, func(s Subject) bool { return s.TeacherID == teacherID })
}
