package subject_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/subject"
	"github.com/trezcool/schooladmin/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	testutil.FreezeTime(t, testutil.Now)
	svc := subject.NewService(testutil.NewStorage(), &testutil.Logger{})

	math, err := svc.Add(ctx, subject.Subject{
		Meta: record.Meta{ID: "math"}, Name: "Mathematics", Code: " math ", TeacherID: "t1", ClassIDs: []string{"1", "2"}, CreditHours: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "MATH", math.Code)

	_, err = svc.Add(ctx, subject.Subject{Meta: record.Meta{ID: "eng"}, Name: "English", Code: "eng", ClassIDs: []string{"2"}})
	require.NoError(t, err)

	_, err = svc.Add(ctx, subject.Subject{Name: "No code"})
	assert.Error(t, err)

	tests := []struct {
		name string
		get  func() ([]subject.Subject, error)
		want []string
	}{
		{name: "class 1", get: func() ([]subject.Subject, error) { return svc.GetByClass(ctx, "1") }, want: []string{"math"}},
		{name: "class 2", get: func() ([]subject.Subject, error) { return svc.GetByClass(ctx, "2") }, want: []string{"math", "eng"}},
		{name: "class 3", get: func() ([]subject.Subject, error) { return svc.GetByClass(ctx, "3") }, want: []string{}},
		{name: "teacher", get: func() ([]subject.Subject, error) { return svc.GetByTeacher(ctx, "t1") }, want: []string{"math"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
