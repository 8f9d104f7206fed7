package salary

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "salaries"

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusOverdue = "overdue"
)

type Record struct {
	record.Meta
	TeacherID     string  `json:"teacherId" validate:"notblank"`
	Month         string  `json:"month" validate:"yearmonth"` // YYYY-MM
	BasicSalary   float64 `json:"basicSalary" validate:"gte=0"`
	Allowances    float64 `json:"allowances" validate:"gte=0"`
	Deductions    float64 `json:"deductions" validate:"gte=0"`
	TotalSalary   float64 `json:"totalSalary"` // computed
	Status        string  `json:"status" validate:"oneof=paid pending overdue"`
	PaidDate      string  `json:"paidDate,omitempty" validate:"omitempty,isodate"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Remarks       string  `json:"remarks,omitempty"`
}

func (r *Record) clean() {
	r.TeacherID = core.CleanString(r.TeacherID)
	r.Month = core.CleanString(r.Month)
	r.Status = core.CleanString(r.Status, true /* lower */)
	r.PaidDate = core.CleanString(r.PaidDate)
	r.PaymentMethod = core.CleanString(r.PaymentMethod)
	r.Remarks = core.CleanString(r.Remarks)
	if r.Status == "" {
		r.Status = StatusPending
	}
	r.TotalSalary = Total(r.BasicSalary, r.Allowances, r.Deductions)
}

// Total is the net salary.
func Total(basic, allowances, deductions float64) float64 {
	return basic + allowances - deductions
}

type Summary struct {
	Records int     `json:"records"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
	Unpaid  int     `json:"unpaid"` // pending or overdue records
}

func Summarize(records []Record) Summary {
	s := Summary{Records: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusPaid:
			s.Paid += r.TotalSalary
		case StatusPending:
			s.Pending += r.TotalSalary
			s.Unpaid++
		case StatusOverdue:
			s.Unpaid++
		}
	}
	return s
}
