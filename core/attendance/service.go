package attendance

import (
	"context"
	"fmt"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const defaultMarker = "Admin"

type Service struct {
	*record.Store[Record]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Record](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, r Record) (Record, error) {
	r.clean()
	if err := core.Validate.Struct(r); err != nil {
		return Record{}, err
	}
	r.Meta = record.NewMeta(r.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (svc *Service) Update(ctx context.Context, id string, r Record) (Record, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	r.clean()
	if err = core.Validate.Struct(r); err != nil {
		return Record{}, err
	}
	r.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (svc *Service) GetByDate(ctx context.Context, date string) ([]Record, error) {
	return svc.Filter(ctx, func(r Record) bool { return r.Date == date })
}

func (svc *Service) GetByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return svc.Filter(ctx, func(r Record) bool { return r.StudentID == studentID })
}

func (svc *Service) GetByClass(ctx context.Context, classID string) ([]Record, error) {
	return svc.Filter(ctx, func(r Record) bool { return r.ClassID == classID })
}

// Mark sets a student's status for a day, updating the day's record when there is one.
func (svc *Service) Mark(ctx context.Context, in MarkInput) (Record, error) {
	if in.MarkedBy == "" {
		in.MarkedBy = defaultMarker
	}
	day, err := svc.GetByDate(ctx, core.CleanString(in.Date))
	if err != nil {
		return Record{}, err
	}
	for _, r := range day {
		if r.StudentID == core.CleanString(in.StudentID) {
			r.Status = in.Status
			r.MarkedBy = in.MarkedBy
			if in.Remarks != "" {
				r.Remarks = in.Remarks
			}
			if in.ClassID != "" {
				r.ClassID = in.ClassID
			}
			return svc.Update(ctx, r.ID, r)
		}
	}
	return svc.Add(ctx, Record{
		StudentID: in.StudentID,
		ClassID:   in.ClassID,
		Date:      in.Date,
		Status:    in.Status,
		MarkedBy:  in.MarkedBy,
		Remarks:   in.Remarks,
	})
}

// MarkClass sets the status of every student on the roll for a day and writes the collection once.
// A student's record for the day in the class is updated when there is one; others are added.
// Records are returned in roll order.
func (svc *Service) MarkClass(ctx context.Context, in ClassInput) ([]Record, error) {
	if in.MarkedBy == "" {
		in.MarkedBy = defaultMarker
	}
	classID, date := core.CleanString(in.ClassID), core.CleanString(in.Date)
	if classID == "" {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "classId", Error: "classId is required"})
	}

	onRoll := make(map[string]bool, len(in.Roll))
	for _, id := range in.Roll {
		onRoll[core.CleanString(id)] = true
	}
	for id := range in.Statuses {
		if !onRoll[core.CleanString(id)] {
			return nil, core.NewValidationError(nil, core.FieldError{
				Field: "statuses",
				Error: fmt.Sprintf("student %s is not in class %s", id, classID),
			})
		}
	}
	statuses := make(map[string]string, len(in.Statuses))
	for id, status := range in.Statuses {
		statuses[core.CleanString(id)] = status
	}

	all, err := svc.AllForWrite(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]int)
	for i, r := range all {
		if r.ClassID == classID && r.Date == date {
			existing[r.StudentID] = i
		}
	}

	now := core.NowFunc()
	marked := make([]Record, 0, len(in.Roll))
	for _, id := range in.Roll {
		id = core.CleanString(id)
		status, ok := statuses[id]
		if !ok {
			status = StatusPresent
		}
		r := Record{StudentID: id, ClassID: classID, Date: date}
		idx, found := existing[id]
		if found {
			r = all[idx]
		}
		r.Status = status
		r.MarkedBy = in.MarkedBy
		r.clean()
		if err = core.Validate.Struct(r); err != nil {
			return nil, err
		}
		if found {
			r.Meta = r.Meta.Touched(now)
			all[idx] = r
		} else {
			r.Meta = record.NewMeta("", now)
			existing[id] = len(all)
			all = append(all, r)
		}
		marked = append(marked, r)
	}
	if len(marked) == 0 {
		return marked, nil
	}
	if err = svc.SetAll(ctx, all); err != nil {
		return nil, err
	}
	return marked, nil
}
