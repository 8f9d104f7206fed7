// Package report computes read-only summaries over a school.
package report

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/attendance"
	"github.com/trezcool/schooladmin/core/expense"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/salary"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/syllabus"
)

// attendanceWindow is the span of the monthly attendance rate, in days.
const attendanceWindow = 30

type DashboardStats struct {
	TotalStudents         int     `json:"totalStudents" yaml:"totalStudents"`
	TotalTeachers         int     `json:"totalTeachers" yaml:"totalTeachers"`
	TotalClasses          int     `json:"totalClasses" yaml:"totalClasses"`
	TotalSubjects         int     `json:"totalSubjects" yaml:"totalSubjects"`
	TodayAttendanceRate   int     `json:"todayAttendanceRate" yaml:"todayAttendanceRate"`     // percent
	MonthlyAttendanceRate int     `json:"monthlyAttendanceRate" yaml:"monthlyAttendanceRate"` // percent, last 30 days
	StudentsPresent       int     `json:"studentsPresent" yaml:"studentsPresent"`
	StudentsAbsent        int     `json:"studentsAbsent" yaml:"studentsAbsent"`
	TotalFeesCollected    float64 `json:"totalFeesCollected" yaml:"totalFeesCollected"`
	PendingFees           float64 `json:"pendingFees" yaml:"pendingFees"`
	ActiveNotices         int     `json:"activeNotices" yaml:"activeNotices"`
	ActiveSyllabus        int     `json:"activeSyllabus" yaml:"activeSyllabus"`
	UnpaidSalaries        int     `json:"unpaidSalaries" yaml:"unpaidSalaries"`
	ExpensesThisMonth     float64 `json:"expensesThisMonth" yaml:"expensesThisMonth"`
}

// Dashboard summarizes s as seen on today (YYYY-MM-DD).
func Dashboard(ctx context.Context, s *school.School, today string) (DashboardStats, error) {
	day, err := time.Parse(core.DateLayout, today)
	if err != nil {
		return DashboardStats{}, errors.Wrap(err, "parsing today")
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats := DashboardStats{
		TotalStudents: counts["students"],
		TotalTeachers: counts["teachers"],
		TotalClasses:  counts["classes"],
		TotalSubjects: counts["subjects"],
	}

	records, err := s.Attendance.GetAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	since := day.AddDate(0, 0, -attendanceWindow).Format(core.DateLayout)
	var todays, recent []attendance.Record
	for _, r := range records {
		if r.Date == today {
			todays = append(todays, r)
		}
		// dates compare as strings
		if r.Date >= since && r.Date <= today {
			recent = append(recent, r)
		}
	}
	tally := attendance.Count(todays, stats.TotalStudents)
	stats.TodayAttendanceRate = percent(attendance.Rate(todays))
	stats.MonthlyAttendanceRate = percent(attendance.Rate(recent))
	stats.StudentsPresent = tally.Present
	stats.StudentsAbsent = tally.Absent

	fees, err := s.Fees.GetAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	feeSummary := fee.Summarize(fees)
	stats.TotalFeesCollected = feeSummary.Collected
	stats.PendingFees = feeSummary.Pending

	notices, err := s.Notices.Active(ctx, today)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.ActiveNotices = len(notices)

	plans, err := s.Syllabus.Filter(ctx, func(p syllabus.Syllabus) bool { return p.Status == syllabus.StatusInProgress })
	if err != nil {
		return DashboardStats{}, err
	}
	stats.ActiveSyllabus = len(plans)

	salaries, err := s.Salaries.GetAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.UnpaidSalaries = salary.Summarize(salaries).Unpaid

	expenses, err := s.Expenses.Filter(ctx, func(e expense.Expense) bool { return e.Year == day.Year() })
	if err != nil {
		return DashboardStats{}, err
	}
	stats.ExpensesThisMonth = expense.Summarize(expenses, day.Month().String()).ThisMonth
	return stats, nil
}

func percent(rate float64) int {
	return int(math.Round(rate))
}
