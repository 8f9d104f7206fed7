package attendance

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "attendance"

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

type Record struct {
	record.Meta
	StudentID string `json:"studentId" validate:"notblank"`
	ClassID   string `json:"classId"`
	Date      string `json:"date" validate:"isodate"`
	Status    string `json:"status" validate:"oneof=present absent late excused"`
	MarkedBy  string `json:"markedBy"`
	Remarks   string `json:"remarks,omitempty"`
}

func (r *Record) clean() {
	r.StudentID = core.CleanString(r.StudentID)
	r.ClassID = core.CleanString(r.ClassID)
	r.Date = core.CleanString(r.Date)
	r.Status = core.CleanString(r.Status, true /* lower */)
	r.MarkedBy = core.CleanString(r.MarkedBy)
	r.Remarks = core.CleanString(r.Remarks)
}

// MarkInput is one student's status on one day.
type MarkInput struct {
	StudentID string
	ClassID   string
	Date      string
	Status    string
	MarkedBy  string // "Admin" when empty
	Remarks   string
}

// ClassInput is a whole class's attendance on one day.
type ClassInput struct {
	ClassID  string
	Date     string
	Roll     []string          // ids of the class's students
	Statuses map[string]string // by student id; students left out are present
	MarkedBy string            // "Admin" when empty
}

// Tally counts records per status.
type Tally struct {
	Total    int `json:"total"`
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Late     int `json:"late"`
	Excused  int `json:"excused"`
	Unmarked int `json:"unmarked"`
}

// Count tallies records against a roll of expected students.
func Count(records []Record, expected int) Tally {
	t := Tally{Total: expected}
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			t.Present++
		case StatusAbsent:
			t.Absent++
		case StatusLate:
			t.Late++
		case StatusExcused:
			t.Excused++
		}
	}
	if t.Unmarked = expected - len(records); t.Unmarked < 0 {
		t.Unmarked = 0
	}
	return t
}

// Rate returns the share of present records, as a percentage. No records rate 0.
func Rate(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var present int
	for _, r := range records {
		if r.Status == StatusPresent {
			present++
		}
	}
	return float64(present) / float64(len(records)) * 100
}
