package fee

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "fees"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
	StatusPartial = "partial"
)

var Types = []string{
	"tuition", "books", "uniform", "diary", "transport",
	"library", "laboratory", "examination", "other",
}

type Record struct {
	record.Meta
	StudentID     string  `json:"studentId" validate:"notblank"`
	StudentName   string  `json:"studentName"`
	ClassName     string  `json:"className"`
	FeeType       string  `json:"feeType" validate:"oneof=tuition books uniform diary transport library laboratory examination other"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaidAmount    float64 `json:"paidAmount,omitempty" validate:"gte=0,ltefield=Amount"`
	DueDate       string  `json:"dueDate" validate:"isodate"`
	Month         string  `json:"month" validate:"monthname"`
	Year          int     `json:"year" validate:"gte=2000"`
	Status        string  `json:"status" validate:"oneof=pending paid overdue partial"`
	PaymentMethod string  `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash bank online"`
	PaymentDate   string  `json:"paymentDate,omitempty" validate:"omitempty,isodate"`
	ReceiptNumber string  `json:"receiptNumber,omitempty"`
	CollectedBy   string  `json:"collectedBy,omitempty"`
	Remarks       string  `json:"remarks,omitempty"`
}

func (r *Record) clean() {
	r.StudentID = core.CleanString(r.StudentID)
	r.StudentName = core.CleanString(r.StudentName)
	r.ClassName = core.CleanString(r.ClassName)
	r.FeeType = core.CleanString(r.FeeType, true /* lower */)
	r.DueDate = core.CleanString(r.DueDate)
	r.Month = core.CleanString(r.Month)
	r.Status = core.CleanString(r.Status, true /* lower */)
	r.PaymentMethod = core.CleanString(r.PaymentMethod, true /* lower */)
	r.PaymentDate = core.CleanString(r.PaymentDate)
	r.ReceiptNumber = core.CleanString(r.ReceiptNumber)
	r.CollectedBy = core.CleanString(r.CollectedBy)
	r.Remarks = core.CleanString(r.Remarks)
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Status == StatusPaid && r.PaidAmount == 0 {
		r.PaidAmount = r.Amount
	}
}

// validate checks the tags, then that a paid fee says how and by whom it was collected.
func (r Record) validate() error {
	if err := core.Validate.Struct(r); err != nil {
		return err
	}
	if r.Status != StatusPaid {
		return nil
	}
	var flds []core.FieldError
	if r.PaymentMethod == "" {
		flds = append(flds, core.FieldError{Field: "paymentMethod", Error: "required for a paid fee"})
	}
	if r.CollectedBy == "" {
		flds = append(flds, core.FieldError{Field: "collectedBy", Error: "required for a paid fee"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Collected returns what has been paid so far.
func (r Record) Collected() float64 {
	if r.Status == StatusPaid && r.PaidAmount == 0 {
		return r.Amount
	}
	return r.PaidAmount
}

type Summary struct {
	Total     float64 `json:"total"`
	Collected float64 `json:"collected"`
	Pending   float64 `json:"pending"`
	Overdue   int     `json:"overdue"` // number of overdue records
}

func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Total += r.Amount
		s.Collected += r.Collected()
		if r.Status == StatusOverdue {
			s.Overdue++
		}
	}
	s.Pending = s.Total - s.Collected
	return s
}
