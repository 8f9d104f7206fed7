package expense

import (
	"time"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "expenses"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusPaid     = "paid"
	StatusRejected = "rejected"
)

var Categories = []string{
	"classes", "books", "uniform", "notebooks", "diary",
	"stationary", "transport", "utilities", "maintenance", "other",
}

type Expense struct {
	record.Meta
	Title         string  `json:"title" validate:"notblank"`
	Description   string  `json:"description,omitempty"`
	Category      string  `json:"category" validate:"oneof=classes books uniform notebooks diary stationary transport utilities maintenance other"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Date          string  `json:"date" validate:"isodate"`
	Month         string  `json:"month" validate:"monthname"` // English month name, derived from Date when empty
	Year          int     `json:"year"`
	SpentBy       string  `json:"spentBy" validate:"notblank"`
	ApprovedBy    string  `json:"approvedBy,omitempty"`
	PaymentMethod string  `json:"paymentMethod" validate:"oneof=cash bank online cheque"`
	RecipientType string  `json:"recipientType" validate:"oneof=school student teacher vendor"`
	StudentGrade  string  `json:"studentGrade,omitempty"`
	StudentClass  string  `json:"studentClass,omitempty"`
	Vendor        string  `json:"vendor,omitempty"`
	ReceiptNumber string  `json:"receiptNumber,omitempty"`
	Status        string  `json:"status" validate:"oneof=pending approved paid rejected"`
}

func (e *Expense) clean() {
	e.Title = core.CleanString(e.Title)
	e.Description = core.CleanString(e.Description)
	e.Category = core.CleanString(e.Category, true /* lower */)
	e.Date = core.CleanString(e.Date)
	e.Month = core.CleanString(e.Month)
	e.SpentBy = core.CleanString(e.SpentBy)
	e.ApprovedBy = core.CleanString(e.ApprovedBy)
	e.PaymentMethod = core.CleanString(e.PaymentMethod, true /* lower */)
	e.RecipientType = core.CleanString(e.RecipientType, true /* lower */)
	e.Vendor = core.CleanString(e.Vendor)
	e.ReceiptNumber = core.CleanString(e.ReceiptNumber)
	e.Status = core.CleanString(e.Status, true /* lower */)
	if e.Status == "" {
		e.Status = StatusPending
	}
	if d, err := time.Parse(core.DateLayout, e.Date); err == nil {
		if e.Month == "" {
			e.Month = d.Month().String()
		}
		if e.Year == 0 {
			e.Year = d.Year()
		}
	}
}

// Summary totals a list of expenses.
type Summary struct {
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	Pending   float64 `json:"pending"`
	ThisMonth float64 `json:"thisMonth"`
}

// Summarize totals expenses; ThisMonth sums those whose month name is month.
func Summarize(expenses []Expense, month string) Summary {
	var s Summary
	for _, e := range expenses {
		s.Total += e.Amount
		switch e.Status {
		case StatusPaid:
			s.Paid += e.Amount
		case StatusPending:
			s.Pending += e.Amount
		}
		if e.Month == month {
			s.ThisMonth += e.Amount
		}
	}
	return s
}
