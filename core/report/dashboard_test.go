package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core/attendance"
	"github.com/trezcool/schooladmin/core/expense"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/notice"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/report"
	"github.com/trezcool/schooladmin/core/salary"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/core/syllabus"
	"github.com/trezcool/schooladmin/tests"
)

func meta(id string) record.Meta { return record.NewMeta(id, testutil.Now) }

func newSchool(t *testing.T) *school.School {
	t.Helper()
	testutil.FreezeTime(t, testutil.Now)
	return school.New(testutil.NewStorage(), &testutil.Logger{}, testutil.NewConfig())
}

func TestDashboard_empty(t *testing.T) {
	s := newSchool(t)

	stats, err := report.Dashboard(context.Background(), s, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, report.DashboardStats{}, stats)
}

func TestDashboard_badDate(t *testing.T) {
	s := newSchool(t)

	_, err := report.Dashboard(context.Background(), s, "15/03/2024")
	assert.Error(t, err)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	require.NoError(t, s.Students.SetAll(ctx, []student.Student{
		{Meta: meta("s1"), Name: "Aarav"}, {Meta: meta("s2"), Name: "Diya"}, {Meta: meta("s3"), Name: "Kabir"},
	}))
	require.NoError(t, s.Attendance.SetAll(ctx, []attendance.Record{
		{Meta: meta("a1"), StudentID: "s1", Date: "2024-03-15", Status: attendance.StatusPresent},
		{Meta: meta("a2"), StudentID: "s2", Date: "2024-03-15", Status: attendance.StatusAbsent},
		{Meta: meta("a3"), StudentID: "s3", Date: "2024-03-15", Status: attendance.StatusPresent},
		{Meta: meta("a4"), StudentID: "s1", Date: "2024-03-01", Status: attendance.StatusAbsent},
		{Meta: meta("a5"), StudentID: "s1", Date: "2024-01-10", Status: attendance.StatusAbsent}, // outside the window
	}))
	require.NoError(t, s.Fees.SetAll(ctx, []fee.Record{
		{Meta: meta("f1"), StudentID: "s1", Amount: 5000, Status: fee.StatusPaid},
		{Meta: meta("f2"), StudentID: "s2", Amount: 1500, PaidAmount: 500, Status: fee.StatusPartial},
		{Meta: meta("f3"), StudentID: "s3", Amount: 300, Status: fee.StatusOverdue},
	}))
	require.NoError(t, s.Notices.SetAll(ctx, []notice.Notice{
		{Meta: meta("n1"), IsPublished: true, PublishDate: "2024-03-01"},
		{Meta: meta("n2"), IsPublished: true, PublishDate: "2024-03-01", ExpiryDate: "2024-03-10"},
		{Meta: meta("n3"), IsPublished: false},
		{Meta: meta("n4"), IsPublished: true, PublishDate: "2024-04-01"},
	}))
	require.NoError(t, s.Syllabus.SetAll(ctx, []syllabus.Syllabus{
		{Meta: meta("p1"), Status: syllabus.StatusInProgress},
		{Meta: meta("p2"), Status: syllabus.StatusCompleted},
	}))
	require.NoError(t, s.Salaries.SetAll(ctx, []salary.Record{
		{Meta: meta("y1"), Status: salary.StatusPaid, TotalSalary: 30000},
		{Meta: meta("y2"), Status: salary.StatusPending, TotalSalary: 30000},
		{Meta: meta("y3"), Status: salary.StatusOverdue, TotalSalary: 30000},
	}))
	require.NoError(t, s.Expenses.SetAll(ctx, []expense.Expense{
		{Meta: meta("e1"), Amount: 100, Month: "March", Year: 2024},
		{Meta: meta("e2"), Amount: 250, Month: "March", Year: 2023},
		{Meta: meta("e3"), Amount: 40, Month: "February", Year: 2024},
	}))

	stats, err := report.Dashboard(ctx, s, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, report.DashboardStats{
		TotalStudents:         3,
		TodayAttendanceRate:   67,
		MonthlyAttendanceRate: 50,
		StudentsPresent:       2,
		StudentsAbsent:        1,
		TotalFeesCollected:    5500,
		PendingFees:           1300,
		ActiveNotices:         1,
		ActiveSyllabus:        1,
		UnpaidSalaries:        2,
		ExpensesThisMonth:     100,
	}, stats)
}
