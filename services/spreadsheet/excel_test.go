package spreadsheet_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/services/spreadsheet"
	"github.com/trezcool/schooladmin/tests"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf := new(bytes.Buffer)
	require.NoError(t, f.Write(buf))
	return buf
}

func TestExport(t *testing.T) {
	data := map[string]json.RawMessage{
		"classes": json.RawMessage(`[{"id":"1","name":"Grade 1","sections":["A","B"],"capacity":30}]`),
		"notes":   json.RawMessage(`[]`),
	}
	buf := new(bytes.Buffer)
	require.NoError(t, spreadsheet.Export(data, []string{"classes", "notes"}, buf))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"classes", "notes"}, f.GetSheetList())

	rows, err := f.GetRows("classes")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "capacity", "name", "sections"},
		{"1", "30", "Grade 1", "A, B"},
	}, rows)

	rows, err = f.GetRows("notes")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id"}}, rows)
}

func setupImport(t *testing.T) (*student.Service, *class.Service, *testutil.Logger) {
	t.Helper()
	testutil.FreezeTime(t, testutil.Now)
	testutil.SequentialIDs(t, "st")
	db := testutil.NewStorage()
	logger := &testutil.Logger{}
	classes := class.NewService(db, logger)
	require.NoError(t, classes.SetAll(context.Background(), []class.Class{
		{Meta: record.NewMeta("3", testutil.Now), Name: "Grade 3", Grade: "3"},
	}))
	return student.NewService(db, logger), classes, logger
}

func TestImportStudents(t *testing.T) {
	ctx := context.Background()
	students, classes, logger := setupImport(t)
	buf := workbook(t, [][]interface{}{
		{"Roll No", "Student Name", "Parent Name", "Email", "Favourite Colour"},
		{"3A01", "Aarav Sharma", "Rajesh Sharma", "aarav@school.edu", "blue"},
		{"3A02", "", "Sunita Verma"},
		{"3A03", "Diya Verma", "", "not-an-email"},
		{"3A04", "  Kabir Rao "},
	})

	res, err := spreadsheet.ImportStudents(ctx, students, classes, buf, "3", logger)
	require.NoError(t, err)
	assert.Equal(t, spreadsheet.ImportResult{Imported: 2, Skipped: 2}, res)
	assert.Equal(t, 2, logger.Count("warn"))

	all, err := students.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Aarav Sharma", all[0].Name)
	assert.Equal(t, "3A01", all[0].RollNumber)
	assert.Equal(t, "Rajesh Sharma", all[0].ParentName)
	assert.Equal(t, "3", all[0].ClassID)
	assert.Equal(t, "Grade 3", all[0].ClassName)
	assert.Equal(t, "Kabir Rao", all[1].Name)
}

func TestImportStudents_noHeader(t *testing.T) {
	ctx := context.Background()
	students, classes, logger := setupImport(t)
	buf := workbook(t, [][]interface{}{
		{"ID", "Full"},
		{"7", "Meera Iyer"},
	})

	res, err := spreadsheet.ImportStudents(ctx, students, classes, buf, "3", logger)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	all, err := students.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "7", all[0].RollNumber)
	assert.Equal(t, "Meera Iyer", all[0].Name)
}

func TestImportStudents_errors(t *testing.T) {
	ctx := context.Background()
	students, classes, logger := setupImport(t)

	_, err := spreadsheet.ImportStudents(ctx, students, classes, workbook(t, nil), "9", logger)
	assert.ErrorIs(t, err, record.ErrNotFound)

	_, err = spreadsheet.ImportStudents(ctx, students, classes, bytes.NewBufferString("not a workbook"), "3", logger)
	assert.Error(t, err)
}
