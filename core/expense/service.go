package expense

import (
	"context"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

type Service struct {
	*record.Store[Expense]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Expense](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, e Expense) (Expense, error) {
	e.clean()
	if err := core.Validate.Struct(e); err != nil {
		return Expense{}, err
	}
	e.Meta = record.NewMeta(e.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (svc *Service) Update(ctx context.Context, id string, e Expense) (Expense, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	e.clean()
	if err = core.Validate.Struct(e); err != nil {
		return Expense{}, err
	}
	e.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// GetByMonth filters on the English month name, e.g. "January".
func (svc *Service) GetByMonth(ctx context.Context, month string) ([]Expense, error) {
	return svc.Filter(ctx, func(e Expense) bool { return e.Month == month })
}

func (svc *Service) GetByCategory(ctx context.Context, category string) ([]Expense, error) {
	return svc.Filter(ctx, func(e Expense) bool { return e.Category == category })
}

func (svc *Service) GetByStatus(ctx context.Context, status string) ([]Expense, error) {
	return svc.Filter(ctx, func(e Expense) bool { return e.Status == status })
}

// Search matches term against title, spender and vendor, ignoring case.
func (svc *Service) Search(ctx context.Context, term string) ([]Expense, error) {
	return svc.Filter(ctx, func(e Expense) bool {
		return core.ContainsFold(term, e.Title, e.SpentBy, e.Vendor)
	})
}
