package salary

import (
	"context"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/teacher"
)

type Service struct {
	*record.Store[Record]
	defaults core.SalaryConfig
}

func NewService(db record.Storage, logger core.Logger, defaults core.SalaryConfig) *Service {
	return &Service{
		Store:    record.NewStore[Record](db, Key, logger),
		defaults: defaults,
	}
}

func (svc *Service) Add(ctx context.Context, r Record) (Record, error) {
	r.clean()
	if err := core.Validate.Struct(r); err != nil {
		return Record{}, err
	}
	r.Meta = record.NewMeta(r.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (svc *Service) Update(ctx context.Context, id string, r Record) (Record, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	r.clean()
	if err = core.Validate.Struct(r); err != nil {
		return Record{}, err
	}
	r.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (svc *Service) GetByTeacher(ctx context.Context, teacherID string) ([]Record, error) {
	return svc.Filter(ctx, func(r Record) bool { return r.TeacherID == teacherID })
}

// GetByMonth filters on a YYYY-MM month.
func (svc *Service) GetByMonth(ctx context.Context, month string) ([]Record, error) {
	return svc.Filter(ctx, func(r Record) bool { return r.Month == month })
}

// GenerateMonth adds a pending record for month to every teacher lacking one.
// The basic salary is the teacher's own, or the configured default.
// All new records are written at once; the created records are returned.
func (svc *Service) GenerateMonth(ctx context.Context, month string, teachers []teacher.Teacher) ([]Record, error) {
	if !core.IsMonth(month) {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "month", Error: "month must be a month formatted as YYYY-MM"})
	}
	all, err := svc.AllForWrite(ctx)
	if err != nil {
		return nil, err
	}
	paid := make(map[string]bool, len(all))
	for _, r := range all {
		if r.Month == month {
			paid[r.TeacherID] = true
		}
	}

	now := core.NowFunc()
	created := make([]Record, 0)
	for _, t := range teachers {
		if paid[t.ID] {
			continue
		}
		basic := t.Salary
		if basic == 0 {
			basic = svc.defaults.DefaultBasic
		}
		r := Record{
			TeacherID:   t.ID,
			Month:       month,
			BasicSalary: basic,
			Allowances:  svc.defaults.DefaultAllowances,
			Deductions:  svc.defaults.DefaultDeductions,
			Status:      StatusPending,
		}
		r.clean()
		r.Meta = record.NewMeta("salary-"+t.ID+"-"+month, now)
		created = append(created, r)
		paid[t.ID] = true
	}
	if len(created) == 0 {
		return created, nil
	}
	if err = svc.SetAll(ctx, append(all, created...)); err != nil {
		return nil, err
	}
	return created, nil
}

// MarkPaid records the payment of a salary on date.
func (svc *Service) MarkPaid(ctx context.Context, id, method, date string) (Record, error) {
	r, err := svc.FindByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	r.Status = StatusPaid
	r.PaidDate = date
	if method != "" {
		r.PaymentMethod = method
	}
	return svc.Update(ctx, id, r)
}
