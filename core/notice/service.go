package notice

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
)

var ErrExpired = errors.New("notice has expired")

type Service struct {
	*record.Store[Notice]
}

func NewService(db record.Storage, logger core.Logger) *Service {
	return &Service{Store: record.NewStore[Notice](db, Key, logger)}
}

func (svc *Service) Add(ctx context.Context, n Notice) (Notice, error) {
	n.clean()
	if err := core.Validate.Struct(n); err != nil {
		return Notice{}, err
	}
	n.Meta = record.NewMeta(n.ID, core.NowFunc())
	if err := svc.Store.Add(ctx, n); err != nil {
		return Notice{}, err
	}
	return n, nil
}

func (svc *Service) Update(ctx context.Context, id string, n Notice) (Notice, error) {
	old, err := svc.FindByID(ctx, id)
	if err != nil {
		return Notice{}, err
	}
	n.clean()
	if err = core.Validate.Struct(n); err != nil {
		return Notice{}, err
	}
	n.Meta = old.Meta.Touched(core.NowFunc())
	if err = svc.Store.Update(ctx, id, n); err != nil {
		return Notice{}, err
	}
	return n, nil
}

// Active returns the notices showing on today, in stored order.
func (svc *Service) Active(ctx context.Context, today string) ([]Notice, error) {
	return svc.Filter(ctx, func(n Notice) bool { return n.ActiveOn(today) })
}

// GetByAudience returns the notices aimed at audience, including those aimed at everyone.
func (svc *Service) GetByAudience(ctx context.Context, audience string) ([]Notice, error) {
	return svc.Filter(ctx, func(n Notice) bool {
		return n.TargetAudience == audience || n.TargetAudience == AudienceAll
	})
}

// Publish marks the notice published as of today (unless it already has a publish date)
// and mails it to recipients. A nil mailer or no recipients skips the mailing.
func (svc *Service) Publish(ctx context.Context, id string, mailer core.EmailService, recipients []mail.Address) (Notice, error) {
	n, err := svc.FindByID(ctx, id)
	if err != nil {
		return Notice{}, err
	}
	today := core.Today()
	if n.ExpiryDate != "" && n.ExpiryDate < today {
		return Notice{}, ErrExpired
	}
	n.IsPublished = true
	if n.PublishDate == "" {
		n.PublishDate = today
	}
	if n, err = svc.Update(ctx, id, n); err != nil {
		return Notice{}, err
	}

	if mailer != nil && len(recipients) > 0 {
		mailer.SendMessages(&core.EmailMessage{
			To:           recipients[:1],
			Bcc:          recipients[1:],
			Subject:      n.Title,
			TemplateName: "notice",
			TemplateData: n,
		})
	}
	return n, nil
}
