package class_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/tests"
)

func TestClass_Label(t *testing.T) {
	c := class.Class{Name: "Grade 5"}
	assert.Equal(t, "Grade 5-A", c.Label("A"))
	assert.Equal(t, "Grade 5", c.Label(""))
}

func TestService(t *testing.T) {
	ctx := context.Background()
	testutil.FreezeTime(t, testutil.Now)
	testutil.SequentialIDs(t, "c")
	svc := class.NewService(testutil.NewStorage(), &testutil.Logger{})

	tests := []struct {
		name    string
		in      class.Class
		wantErr bool
	}{
		{name: "grade 1", in: class.Class{Name: "Grade 1", Grade: "1", Sections: []string{"A", " B ", ""}, Capacity: 30}},
		{name: "grade 2", in: class.Class{Name: "Grade 2", Grade: "2"}},
		{name: "no grade", in: class.Class{Name: "Nursery"}, wantErr: true},
		{name: "negative capacity", in: class.Class{Name: "Grade 3", Grade: "3", Capacity: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.in)
			if tt.wantErr {
				assert.True(t, core.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}

	got, err := svc.GetByGrade(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"A", "B"}, got[0].Sections)
	assert.Equal(t, []string{}, got[0].Subjects)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
