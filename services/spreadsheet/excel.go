// Package spreadsheet moves school records in and out of Excel workbooks.
package spreadsheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/student"
)

const defaultSheet = "Sheet1"

var ErrNoSheet = errors.New("workbook does not contain any sheet")

// Export writes one sheet per collection of data, as returned by school.Export.
// The first row holds the field names, "id" first, then one row per record.
func Export(data map[string]json.RawMessage, order []string, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, key := range order {
		var rows []map[string]interface{}
		if raw, ok := data[key]; ok {
			if err := json.Unmarshal(raw, &rows); err != nil {
				return errors.Wrapf(err, "decoding %s", key)
			}
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, key); err != nil {
				return errors.Wrap(err, "naming sheet")
			}
		} else if _, err := f.NewSheet(key); err != nil {
			return errors.Wrapf(err, "adding sheet %s", key)
		}
		if err := writeSheet(f, key, rows); err != nil {
			return err
		}
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}

func writeSheet(f *excelize.File, sheet string, rows []map[string]interface{}) error {
	header := columns(rows)
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return errors.Wrapf(err, "writing %s header", sheet)
	}
	for r, row := range rows {
		cells = make([]interface{}, len(header))
		for i, h := range header {
			cells[i] = cellValue(row[h])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheet, cell, &cells); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, r+2)
		}
	}
	return nil
}

// columns returns every field name found in rows: "id" first, the rest sorted.
func columns(rows []map[string]interface{}) []string {
	seen := map[string]bool{"id": true}
	var names []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return append([]string{"id"}, names...)
}

func cellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		b, _ := json.Marshal(val)
		return string(b)
	default:
		return val
	}
}

// studentFields maps normalized header names to the student field they fill.
var studentFields = map[string]func(*student.Student, string){
	"name":          func(s *student.Student, v string) { s.Name = v },
	"studentname":   func(s *student.Student, v string) { s.Name = v },
	"email":         func(s *student.Student, v string) { s.Email = v },
	"phone":         func(s *student.Student, v string) { s.Phone = v },
	"address":       func(s *student.Student, v string) { s.Address = v },
	"dateofbirth":   func(s *student.Student, v string) { s.DateOfBirth = v },
	"dob":           func(s *student.Student, v string) { s.DateOfBirth = v },
	"section":       func(s *student.Student, v string) { s.Section = v },
	"rollnumber":    func(s *student.Student, v string) { s.RollNumber = v },
	"rollno":        func(s *student.Student, v string) { s.RollNumber = v },
	"parentname":    func(s *student.Student, v string) { s.ParentName = v },
	"parentphone":   func(s *student.Student, v string) { s.ParentPhone = v },
	"parentemail":   func(s *student.Student, v string) { s.ParentEmail = v },
	"bloodgroup":    func(s *student.Student, v string) { s.BloodGroup = v },
	"admissiondate": func(s *student.Student, v string) { s.AdmissionDate = v },
}

func normalizeHeader(h string) string {
	h = strings.ToLower(core.CleanString(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(h)
}

// ImportResult counts the rows of an import.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportStudents adds a student to class classID for every row of the first sheet of r.
// The first row is a header naming the columns; without a "name" column, column A is
// read as the roll number and column B as the name.
// Rows without a name, or rejected by validation, are logged and skipped; a storage
// error stops the import.
func ImportStudents(ctx context.Context, students *student.Service, classes *class.Service, r io.Reader, classID string, logger core.Logger) (ImportResult, error) {
	var res ImportResult
	cls, err := classes.FindByID(ctx, classID)
	if err != nil {
		return res, errors.Wrapf(err, "class %s", classID)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return res, errors.Wrap(err, "opening workbook")
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("Error closing workbook", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return res, ErrNoSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return res, errors.Wrapf(err, "reading sheet %s", sheet)
	}
	if len(rows) == 0 {
		return res, nil
	}

	setters := make([]func(*student.Student, string), len(rows[0]))
	var hasName bool
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		setters[i] = studentFields[key]
		hasName = hasName || key == "name" || key == "studentname"
	}
	if !hasName {
		setters = []func(*student.Student, string){studentFields["rollnumber"], studentFields["name"]}
	}

	for i, row := range rows[1:] {
		line := i + 2
		st := student.Student{ClassID: cls.ID, ClassName: cls.Name}
		for col, v := range row {
			if col < len(setters) && setters[col] != nil {
				setters[col](&st, v)
			}
		}
		if core.CleanString(st.Name) == "" {
			logger.Warn(fmt.Sprintf("Skipping row %d: missing name", line))
			res.Skipped++
			continue
		}
		if _, err = students.Add(ctx, st); err != nil {
			if !core.IsValidationError(err) {
				return res, errors.Wrapf(err, "row %d", line)
			}
			logger.Warn(fmt.Sprintf("Skipping row %d (%s)", line, st.Name), core.TranslateError(err))
			res.Skipped++
			continue
		}
		res.Imported++
	}
	logger.Info(fmt.Sprintf("Imported %d students into class %s", res.Imported, cls.Name))
	return res, nil
}
