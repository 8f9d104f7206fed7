package teacher

import (
	"context"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

type Service struct {
	*record.Store[Teacher]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Teacher](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, t Teacher) (Teacher, error) {
	t.clean()
	if err := core.Validate.Struct(t); err != nil {
		return Teacher{}, err
	}
	t.Meta = record.NewMeta(t.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, t); err != nil {
		return Teacher{}, err
	}
	return t, nil
}

func (svc *Service) Update(ctx context.Context, id string, t Teacher) (Teacher, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	t.clean()
	if err = core.Validate.Struct(t); err != nil {
		return Teacher{}, err
	}
	t.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, t); err != nil {
		return Teacher{}, err
	}
	return t, nil
}

// Search matches term against name, email and employee id, ignoring case.
func (svc *Service) Search(ctx context.Context, term string) ([]Teacher, error) {
	return svc.Filter(ctx, func(t Teacher) bool {
		return core.ContainsFold(term, t.Name, t.Email, t.EmployeeID)
	})
}

func (svc *Service) GetBySubject(ctx context.Context, subjectID string) ([]Teacher, error) {
	return svc.Filter(ctx, func(t Teacher) bool { return t.Teaches(subjectID) })
}
