package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/tests"
)

func setup(t *testing.T) *student.Service {
	t.Helper()
	testutil.FreezeTime(t, testutil.Now)
	testutil.SequentialIDs(t, "st")
	return student.NewService(testutil.NewStorage(), &testutil.Logger{})
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         student.Student
		wantFields []string // fields failing validation
	}{
		{name: "minimal", in: student.Student{Name: "Aarav"}},
		{name: "full", in: student.Student{
			Name: " Aarav Sharma ", Email: "AARAV@School.edu", Phone: "+91 98765 43210", DateOfBirth: "2015-06-01",
			ParentEmail: "parent@mail.com", BloodGroup: "O+", AdmissionDate: "2023-04-01",
		}},
		{name: "blank name", in: student.Student{Name: "  "}, wantFields: []string{"name"}},
		{name: "bad email", in: student.Student{Name: "A", Email: "nope"}, wantFields: []string{"email"}},
		{name: "bad date", in: student.Student{Name: "A", DateOfBirth: "01/06/2015"}, wantFields: []string{"dateOfBirth"}},
		{name: "bad blood group", in: student.Student{Name: "A", BloodGroup: "Z"}, wantFields: []string{"bloodGroup"}},
		{name: "bad phone", in: student.Student{Name: "A", Phone: "call me"}, wantFields: []string{"phone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setup(t)
			got, err := svc.Add(ctx, tt.in)
			if len(tt.wantFields) > 0 {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				flds := core.TranslateError(err)
				for _, f := range tt.wantFields {
					assert.Contains(t, flds, f)
				}
				n, _ := svc.Count(ctx)
				assert.Zero(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "st-1", got.ID)
			assert.Equal(t, testutil.Now, got.CreatedAt)
			assert.Equal(t, got.CreatedAt, got.UpdatedAt)

			stored, err := svc.FindByID(ctx, got.ID)
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}
}

func TestService_Add_cleans(t *testing.T) {
	svc := setup(t)

	got, err := svc.Add(context.Background(), student.Student{Name: " Aarav Sharma ", Email: " AARAV@School.edu", ParentEmail: "P@Mail.com"})
	require.NoError(t, err)
	assert.Equal(t, "Aarav Sharma", got.Name)
	assert.Equal(t, "aarav@school.edu", got.Email)
	assert.Equal(t, "p@mail.com", got.ParentEmail)
}

func TestService_Add_keepsGivenID(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	got, err := svc.Add(ctx, student.Student{Meta: record.Meta{ID: "s1"}, Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)

	_, err = svc.Add(ctx, student.Student{Meta: record.Meta{ID: "s1"}, Name: "B"})
	assert.ErrorIs(t, err, record.ErrDuplicateID)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	orig, err := svc.Add(ctx, student.Student{Name: "Aarav", ClassID: "1"})
	require.NoError(t, err)

	later := testutil.Now.Add(time.Hour)
	testutil.FreezeTime(t, later)
	upd := orig
	upd.ClassID = "2"
	upd.CreatedAt = later // ignored
	got, err := svc.Update(ctx, orig.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "2", got.ClassID)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.Equal(t, later, got.UpdatedAt)

	_, err = svc.Update(ctx, "nope", upd)
	assert.ErrorIs(t, err, record.ErrNotFound)

	upd.Name = ""
	_, err = svc.Update(ctx, orig.ID, upd)
	assert.True(t, core.IsValidationError(err))
}

func TestService_queries(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	for _, s := range []student.Student{
		{Name: "Aarav Sharma", ClassID: "1", RollNumber: "1A01"},
		{Name: "Diya Verma", ClassID: "2", Email: "diya@school.edu"},
		{Name: "Kabir Rao", ClassID: "1", RollNumber: "1B07"},
	} {
		_, err := svc.Add(ctx, s)
		require.NoError(t, err)
	}

	names := func(list []student.Student) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, s.Name)
		}
		return out
	}

	byClass, err := svc.GetByClass(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aarav Sharma", "Kabir Rao"}, names(byClass))

	none, err := svc.GetByClass(ctx, "9")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	tests := []struct {
		term string
		want []string
	}{
		{term: "", want: []string{"Aarav Sharma", "Diya Verma", "Kabir Rao"}},
		{term: "SHARMA", want: []string{"Aarav Sharma"}},
		{term: "school.edu", want: []string{"Diya Verma"}},
		{term: "1b", want: []string{"Kabir Rao"}},
		{term: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}
