package fee

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const receiptPrefix = "RCP"

type Service struct {
	*record.Store[Record]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Record](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, r Record) (Record, error) {
	r.clean()
	if err := r.validate(); err != nil {
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
	if err = r.validate(); err != nil {
		return Record{}, err
	}
	r.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (svc *Service) GetByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return svc.Filter(ctx, func(r Record) bool { return r.StudentID == studentID })
}

func (svc *Service) GetByStatus(ctx context.Context, status string) ([]Record, error) {
	return svc.Filter(ctx, func(r Record) bool { return r.Status == status })
}

// MarkPaid settles the whole fee on date, issuing a receipt number when it has none.
func (svc *Service) MarkPaid(ctx context.Context, id, method, collectedBy, date string) (Record, error) {
	r, err := svc.FindByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	r.Status = StatusPaid
	r.PaidAmount = r.Amount
	r.PaymentMethod = method
	r.CollectedBy = collectedBy
	r.PaymentDate = date
	if r.ReceiptNumber == "" {
		all, err := svc.GetAll(ctx)
		if err != nil {
			return Record{}, err
		}
		r.ReceiptNumber = nextReceipt(all)
	}
	return svc.Update(ctx, id, r)
}

// nextReceipt returns RCP followed by the highest receipt number issued so far plus one.
// Numbers stay unique when paid fees are deleted.
func nextReceipt(records []Record) string {
	var last int
	for _, r := range records {
		if !strings.HasPrefix(r.ReceiptNumber, receiptPrefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ReceiptNumber, receiptPrefix)); err == nil && n > last {
			last = n
		}
	}
	return fmt.Sprintf("%s%04d", receiptPrefix, last+1)
}

// RefreshOverdue flags pending and partial fees due before today as overdue.
// It writes the collection once, only when something changed, and returns the number of flagged fees.
func (svc *Service) RefreshOverdue(ctx context.Context, today string) (int, error) {
	all, err := svc.AllForWrite(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	now := core.NowFunc()
	for i, r := range all {
		if (r.Status == StatusPending || r.Status == StatusPartial) && r.DueDate < today {
			all[i].Status = StatusOverdue
			all[i].Meta = r.Meta.Touched(now)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, svc.SetAll(ctx, all)
}
