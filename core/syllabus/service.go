package syllabus

import (
	"context"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

type Service struct {
	*record.Store[Syllabus]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Syllabus](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, s Syllabus) (Syllabus, error) {
	s.clean()
	if err := s.validate(); err != nil {
		return Syllabus{}, err
	}
	s.Meta = record.NewMeta(s.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, s); err != nil {
		return Syllabus{}, err
	}
	return s, nil
}

func (svc *Service) Update(ctx context.Context, id string, s Syllabus) (Syllabus, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Syllabus{}, err
	}
	s.clean()
	if err = s.validate(); err != nil {
		return Syllabus{}, err
	}
	s.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, s); err != nil {
		return Syllabus{}, err
	}
	return s, nil
}

func (svc *Service) GetBySubject(ctx context.Context, subjectID string) ([]Syllabus, error) {
	return svc.Filter(ctx, func(s Syllabus) bool { return s.SubjectID == subjectID })
}

func (svc *Service) GetByTeacher(ctx context.Context, teacherID string) ([]Syllabus, error) {
	return svc.Filter(ctx, func(s Syllabus) bool { return s.TeacherID == teacherID })
}

func (svc *Service) GetByClass(ctx context.Context, classID string) ([]Syllabus, error) {
	return svc.Filter(ctx, func(s Syllabus) bool { return core.Contains(s.ClassIDs, classID) })
}

// UpdateProgress sets the progress percentage (0..100) and the status that follows from it.
func (svc *Service) UpdateProgress(ctx context.Context, id string, progress int) (Syllabus, error) {
	if progress < 0 || progress > 100 {
		return Syllabus{}, core.NewValidationError(nil, core.FieldError{
			Field: "progressPercentage",
			Error: "please enter a valid progress value between 0 and 100",
		})
	}
	s, err := svc.FindByID(ctx, id)
	if err != nil {
		return Syllabus{}, err
	}
	s.ProgressPercentage = progress
	s.Status = StatusFor(progress, s.EndDate, core.Today())
	return svc.Update(ctx, id, s)
}
