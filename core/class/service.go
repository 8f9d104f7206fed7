package class

import (
	"context"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

type Service struct {
	*record.Store[Class]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Class](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, c Class) (Class, error) {
	c.clean()
	if err := core.Validate.Struct(c); err != nil {
		return Class{}, err
	}
	c.Meta = record.NewMeta(c.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, c); err != nil {
		return Class{}, err
	}
	return c, nil
}

func (svc *Service) Update(ctx context.Context, id string, c Class) (Class, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Class{}, err
	}
	c.clean()
	if err = core.Validate.Struct(c); err != nil {
		return Class{}, err
	}
	c.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, c); err != nil {
		return Class{}, err
	}
	return c, nil
}

func (svc *Service) GetByGrade(ctx context.Context, grade string) ([]Class, error) {
	return svc.Filter(ctx, func(c Class) bool { return c.Grade == grade })
}
