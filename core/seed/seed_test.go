package seed_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/seed"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/core/teacher"
	"github.com/trezcool/schooladmin/storage/kv/dummy"
	"github.com/trezcool/schooladmin/tests"
)

func setup(t *testing.T) (*school.School, *dummykv.Storage, *testutil.Logger) {
	t.Helper()
	testutil.FreezeTime(t, testutil.Now)
	testutil.SequentialIDs(t, "id")
	db := testutil.NewStorage()
	logger := &testutil.Logger{}
	return school.New(db, logger, testutil.NewConfig()), db, logger
}

func options(n int64) seed.Options {
	return seed.Options{Rand: rand.New(rand.NewSource(n)), Students: 12, Teachers: 4, Now: testutil.Now}
}

func TestRun_emptyStore(t *testing.T) {
	ctx := context.Background()
	s, _, _ := setup(t)

	report, err := seed.Run(ctx, s, &testutil.Logger{}, options(1))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"classes", "subjects", "teachers", "students", "fees", "salaries", "syllabus", "expenses", "notices",
	}, report.Seeded)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Corrupt)

	classes, err := s.Classes.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 5)
	for i, c := range classes {
		grade := string(rune('1' + i))
		assert.Equal(t, grade, c.ID)
		assert.Equal(t, grade, c.Grade)
		assert.Equal(t, "Grade "+grade, c.Name)
	}

	students, err := s.Students.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 12)
	for _, st := range students {
		assert.NotEmpty(t, st.ClassID)
		assert.NotEmpty(t, st.RollNumber)
		assert.Contains(t, student.BloodGroups, st.BloodGroup)
	}

	teachers, err := s.Teachers.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 4)
	assert.Equal(t, "EMP001", teachers[0].EmployeeID)

	fees, err := s.Fees.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, fees, 12)
	for _, r := range fees {
		if r.Status == fee.StatusPaid {
			assert.NotEmpty(t, r.ReceiptNumber)
			assert.Equal(t, r.Amount, r.PaidAmount)
		}
		assert.Equal(t, "April", r.Month)
	}

	salaries, err := s.Salaries.GetByMonth(ctx, "2024-03")
	require.NoError(t, err)
	assert.Len(t, salaries, 4)

	subjects, err := s.Subjects.GetAll(ctx)
	require.NoError(t, err)
	plans, err := s.Syllabus.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, len(subjects))

	expenses, err := s.Expenses.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 4)
	notices, err := s.Notices.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, notices, 4)

	dangling, err := s.CheckReferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, dangling)
}

func TestRun_idempotent(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setup(t)

	_, err := seed.Run(ctx, s, &testutil.Logger{}, options(1))
	require.NoError(t, err)
	before := db.Snapshot()
	writes := db.Writes

	report, err := seed.Run(ctx, s, &testutil.Logger{}, options(2))
	require.NoError(t, err)
	assert.Empty(t, report.Seeded)
	assert.Equal(t, writes, db.Writes)

	after := db.Snapshot()
	for key, value := range before {
		if value != after[key] {
			diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(value),
				B:        difflib.SplitLines(after[key]),
				FromFile: key + " (first run)",
				ToFile:   key + " (second run)",
				Context:  2,
			})
			t.Errorf("second run changed %s:\n%s", key, diff)
		}
	}
	assert.Equal(t, len(before), len(after))
}

func TestRun_keepsExistingCollections(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setup(t)

	_, err := s.Classes.Add(ctx, class.Class{Name: "Nursery", Grade: "0"})
	require.NoError(t, err)
	_, err = s.Teachers.Add(ctx, teacher.Teacher{Name: "Asha Menon"})
	require.NoError(t, err)
	rawClasses, _ := db.Raw(class.Key)

	report, err := seed.Run(ctx, s, &testutil.Logger{}, options(3))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{class.Key, teacher.Key}, report.Skipped)
	got, _ := db.Raw(class.Key)
	assert.Equal(t, rawClasses, got)

	students, err := s.Students.GetAll(ctx)
	require.NoError(t, err)
	for _, st := range students {
		assert.Equal(t, "Nursery", st.ClassName)
	}

	salaries, err := s.Salaries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, salaries, 1)
	assert.Equal(t, 30000.0, salaries[0].BasicSalary)
}

func TestRun_skipsCorruptCollections(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setup(t)
	require.NoError(t, db.Set(ctx, student.Key, "{broken"))
	logger := &testutil.Logger{}

	report, err := seed.Run(ctx, s, logger, options(4))
	require.NoError(t, err)
	assert.Equal(t, []string{student.Key}, report.Corrupt)
	assert.NotContains(t, report.Seeded, student.Key)
	raw, _ := db.Raw(student.Key)
	assert.Equal(t, "{broken", raw)
	assert.Equal(t, 1, logger.Count("warn"))

	// fees hang off students: nothing to charge
	fees, err := s.Fees.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, fees)
}

func TestRun_readError(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setup(t)
	db.GetErr = assert.AnError

	report, err := seed.Run(ctx, s, &testutil.Logger{}, options(5))
	require.Error(t, err)
	assert.Empty(t, report.Seeded)
}
