package salary

import (
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/trezcool/schooladmin/core/teacher"
)

var payslipTmpl = template.Must(template.New("payslip").Funcs(template.FuncMap{
	"money": money,
	"upper": strings.ToUpper,
}).Parse(`PAYSLIP FOR {{.Record.Month}}
============================
Employee: {{.Name}}
Employee ID: {{.EmployeeID}}
Month: {{.Record.Month}}

EARNINGS:
Basic Salary: {{money .Record.BasicSalary}}
Allowances: {{money .Record.Allowances}}

DEDUCTIONS:
Deductions: {{money .Record.Deductions}}

NET SALARY: {{money .Record.TotalSalary}}
Status: {{upper .Record.Status}}
{{- with .Record.PaidDate}}
Paid Date: {{.}}
{{- end}}
`))

type payslipData struct {
	Record     Record
	Name       string
	EmployeeID string
}

// Payslip renders a plain text payslip. A nil teacher renders as unknown.
func Payslip(r Record, t *teacher.Teacher) (string, error) {
	data := payslipData{Record: r, Name: "Unknown Teacher", EmployeeID: "N/A"}
	if t != nil {
		data.Name = t.Name
		if t.EmployeeID != "" {
			data.EmployeeID = t.EmployeeID
		}
	}
	var sb strings.Builder
	if err := payslipTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// PayslipFilename names the payslip file of r, e.g. Payslip_Jane_Doe_2024-03.txt.
func PayslipFilename(r Record, t *teacher.Teacher) string {
	name := "Unknown_Teacher"
	if t != nil {
		name = strings.Join(strings.Fields(t.Name), "_")
	}
	return "Payslip_" + name + "_" + r.Month + ".txt"
}

// money formats an amount in rupees with thousands separators, rounded to paise.
// Whole amounts are printed without decimals.
func money(v float64) string {
	v = math.Round(v*100) / 100
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	if frac == ".00" {
		frac = ""
	}
	var sb strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	out := "₹" + sb.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
