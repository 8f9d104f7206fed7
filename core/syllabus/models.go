package syllabus

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "syllabus"

const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusDelayed    = "delayed"

	TargetWeekly  = "weekly"
	TargetMonthly = "monthly"
)

type Syllabus struct {
	record.Meta
	Title              string   `json:"title" validate:"notblank"`
	Description        string   `json:"description"`
	SubjectID          string   `json:"subjectId" validate:"notblank"`
	TeacherID          string   `json:"teacherId"`
	ClassIDs           []string `json:"classIds"`
	Grade              string   `json:"grade"`
	TargetType         string   `json:"targetType" validate:"oneof=weekly monthly"`
	StartDate          string   `json:"startDate" validate:"isodate"`
	EndDate            string   `json:"endDate" validate:"isodate"`
	Topics             []string `json:"topics"`
	LearningObjectives []string `json:"learningObjectives"`
	AssessmentMethods  []string `json:"assessmentMethods"`
	Resources          []string `json:"resources"`
	Status             string   `json:"status" validate:"oneof=planned in-progress completed delayed"`
	ProgressPercentage int      `json:"progressPercentage" validate:"gte=0,lte=100"`
}

func (s *Syllabus) clean() {
	s.Title = core.CleanString(s.Title)
	s.Description = core.CleanString(s.Description)
	s.SubjectID = core.CleanString(s.SubjectID)
	s.TeacherID = core.CleanString(s.TeacherID)
	s.Grade = core.CleanString(s.Grade)
	s.TargetType = core.CleanString(s.TargetType, true /* lower */)
	s.StartDate = core.CleanString(s.StartDate)
	s.EndDate = core.CleanString(s.EndDate)
	s.Status = core.CleanString(s.Status, true /* lower */)
	for _, list := range []*[]string{&s.ClassIDs, &s.Topics, &s.LearningObjectives, &s.AssessmentMethods, &s.Resources} {
		if *list = core.CleanStrings(*list); *list == nil {
			*list = []string{}
		}
	}
	if s.TargetType == "" {
		s.TargetType = TargetMonthly
	}
	if s.Status == "" {
		s.Status = StatusFor(s.ProgressPercentage, s.EndDate, core.Today())
	}
}

func (s Syllabus) validate() error {
	if err := core.Validate.Struct(s); err != nil {
		return err
	}
	if s.EndDate < s.StartDate {
		return core.NewValidationError(nil, core.FieldError{Field: "endDate", Error: "endDate must not be before startDate"})
	}
	return nil
}

// StatusFor derives a status from progress: unfinished work past its end date is delayed.
func StatusFor(progress int, endDate, today string) string {
	switch {
	case progress >= 100:
		return StatusCompleted
	case endDate != "" && endDate < today:
		return StatusDelayed
	case progress <= 0:
		return StatusPlanned
	default:
		return StatusInProgress
	}
}

// AverageProgress is the mean progress percentage; 0 for no syllabus.
func AverageProgress(list []Syllabus) float64 {
	if len(list) == 0 {
		return 0
	}
	var sum int
	for _, s := range list {
		sum += s.ProgressPercentage
	}
	return float64(sum) / float64(len(list))
}
