package notice

import (
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

const Key = "notices"

const (
	TypeGeneral  = "general"
	TypeUrgent   = "urgent"
	TypeAcademic = "academic"
	TypeEvent    = "event"

	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceTeachers = "teachers"
	AudienceParents  = "parents"
)

type Notice struct {
	record.Meta
	Title          string   `json:"title" validate:"notblank"`
	Content        string   `json:"content" validate:"notblank"`
	Type           string   `json:"type" validate:"oneof=general urgent academic event"`
	TargetAudience string   `json:"targetAudience" validate:"oneof=all students teachers parents"`
	IsPublished    bool     `json:"isPublished"`
	PublishDate    string   `json:"publishDate" validate:"omitempty,isodate"`
	ExpiryDate     string   `json:"expiryDate,omitempty" validate:"omitempty,isodate"`
	Attachments    []string `json:"attachments,omitempty"`
	CreatedBy      string   `json:"createdBy" validate:"notblank"`
}

func (n *Notice) clean() {
	n.Title = core.CleanString(n.Title)
	n.Content = core.CleanString(n.Content)
	n.Type = core.CleanString(n.Type, true /* lower */)
	n.TargetAudience = core.CleanString(n.TargetAudience, true /* lower */)
	n.PublishDate = core.CleanString(n.PublishDate)
	n.ExpiryDate = core.CleanString(n.ExpiryDate)
	n.Attachments = core.CleanStrings(n.Attachments)
	n.CreatedBy = core.CleanString(n.CreatedBy)
	if n.Type == "" {
		n.Type = TypeGeneral
	}
	if n.TargetAudience == "" {
		n.TargetAudience = AudienceAll
	}
}

// ActiveOn reports whether the notice is published and showing on day (YYYY-MM-DD).
func (n Notice) ActiveOn(day string) bool {
	if !n.IsPublished {
		return false
	}
	if n.PublishDate != "" && n.PublishDate > day {
		return false
	}
	return n.ExpiryDate == "" || n.ExpiryDate >= day
}
