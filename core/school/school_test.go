package school_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/core/subject"
	"github.com/trezcool/schooladmin/core/teacher"
	"github.com/trezcool/schooladmin/storage/kv/dummy"
	"github.com/trezcool/schooladmin/tests"
)

func newSchool(t *testing.T) (*school.School, *dummykv.Storage) {
	t.Helper()
	testutil.FreezeTime(t, testutil.Now)
	db := testutil.NewStorage()
	return school.New(db, &testutil.Logger{}, testutil.NewConfig()), db
}

// populate links one record of each of the four core collections together.
func populate(t *testing.T, s *school.School) {
	t.Helper()
	ctx := context.Background()
	_, err := s.Classes.Add(ctx, class.Class{Meta: record.Meta{ID: "c1"}, Name: "Class 1", Grade: "1", Subjects: []string{"sub1"}})
	require.NoError(t, err)
	_, err = s.Subjects.Add(ctx, subject.Subject{Meta: record.Meta{ID: "sub1"}, Name: "Maths", Code: "MATH", TeacherID: "t1", ClassIDs: []string{"c1"}})
	require.NoError(t, err)
	_, err = s.Teachers.Add(ctx, teacher.Teacher{Meta: record.Meta{ID: "t1"}, Name: "Asha Menon", Subjects: []string{"sub1"}, Classes: []string{"c1"}})
	require.NoError(t, err)
	_, err = s.Students.Add(ctx, student.Student{Meta: record.Meta{ID: "s1"}, Name: "Aarav Shah", ClassID: "c1"})
	require.NoError(t, err)
}

func TestSchool_Delete(t *testing.T) {
	ctx := context.Background()
	s, _ := newSchool(t)
	populate(t, s)

	err := s.DeleteClass(ctx, "c1")
	require.ErrorIs(t, err, school.ErrReferenced)
	var refErr *school.ReferencedError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, []school.Reference{
		{Collection: "students", ID: "s1", Field: "classId"},
		{Collection: "teachers", ID: "t1", Field: "classes"},
		{Collection: "subjects", ID: "sub1", Field: "classIds"},
	}, refErr.Refs)
	assert.EqualError(t, err, "classes/c1 is referenced by students/s1.classId, teachers/t1.classes, subjects/sub1.classIds")

	_, err = s.Classes.FindByID(ctx, "c1")
	require.NoError(t, err, "a refused delete keeps the record")

	require.NoError(t, s.DeleteStudent(ctx, "s1"), "nothing points at students")
	assert.ErrorIs(t, s.DeleteStudent(ctx, "s1"), record.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "pupils", "s1", false), school.ErrUnknownCollection)

	require.NoError(t, s.Delete(ctx, class.Key, "c1", false))
	dangling, err := s.CheckReferences(ctx)
	require.NoError(t, err)
	got := make([]string, 0, len(dangling))
	for _, d := range dangling {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{
		"subjects/sub1.classIds -> classes/c1 (missing)",
		"teachers/t1.classes -> classes/c1 (missing)",
	}, got)
}

func TestSchool_CheckReferences_clean(t *testing.T) {
	s, _ := newSchool(t)
	populate(t, s)

	dangling, err := s.CheckReferences(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dangling)
}

func TestSchool_ExportImport(t *testing.T) {
	ctx := context.Background()
	src, _ := newSchool(t)
	populate(t, src)

	data, err := src.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, data, len(src.Collections()))
	assert.JSONEq(t, "[]", string(data["notices"]))

	dst, _ := newSchool(t)
	require.NoError(t, dst.Import(ctx, data))
	for _, key := range src.Collections() {
		want, err := src.All(ctx, key)
		require.NoError(t, err)
		got, err := dst.All(ctx, key)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", key, diff)
		}
	}

	counts, err := dst.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["students"])
	assert.Equal(t, 0, counts["fees"])
}

func TestSchool_Import_badInput(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]json.RawMessage
		wantErr error
	}{
		{
			name: "unknown collection",
			data: map[string]json.RawMessage{
				"students": json.RawMessage(`[]`),
				"pupils":   json.RawMessage(`[]`),
			},
			wantErr: school.ErrUnknownCollection,
		},
		{
			name: "undecodable collection",
			data: map[string]json.RawMessage{
				"classes":  json.RawMessage(`[]`),
				"students": json.RawMessage(`{"id": "s9"}`),
			},
		},
		{
			name: "duplicate id",
			data: map[string]json.RawMessage{
				"classes": json.RawMessage(`[{"id":"1"},{"id":"1"}]`),
			},
			wantErr: record.ErrDuplicateID,
		},
		{
			name: "missing id",
			data: map[string]json.RawMessage{
				"students": json.RawMessage(`[]`),
				"classes":  json.RawMessage(`[{"id":"1"},{"id":""}]`),
			},
			wantErr: record.ErrMissingID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, db := newSchool(t)
			populate(t, s)
			writes := db.Writes

			err := s.Import(context.Background(), tt.data)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, writes, db.Writes, "nothing is written")
		})
	}
}

func TestSchool_Reset(t *testing.T) {
	ctx := context.Background()
	s, db := newSchool(t)
	populate(t, s)

	require.NoError(t, s.Reset(ctx))
	assert.Empty(t, db.Snapshot())
	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	for key, n := range counts {
		assert.Zero(t, n, key)
	}

	db.DeleteErr = errors.New("disk full")
	assert.ErrorContains(t, s.Reset(ctx), "disk full")
}
