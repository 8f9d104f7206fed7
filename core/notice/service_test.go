package notice_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/notice"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/services/email"
	"github.com/trezcool/schooladmin/tests"
)

func TestNotice_ActiveOn(t *testing.T) {
	tests := []struct {
		name string
		n    notice.Notice
		want bool
	}{
		{name: "draft", n: notice.Notice{}, want: false},
		{name: "published, no dates", n: notice.Notice{IsPublished: true}, want: true},
		{name: "published today", n: notice.Notice{IsPublished: true, PublishDate: "2024-03-15"}, want: true},
		{name: "scheduled", n: notice.Notice{IsPublished: true, PublishDate: "2024-03-16"}, want: false},
		{name: "expires today", n: notice.Notice{IsPublished: true, ExpiryDate: "2024-03-15"}, want: true},
		{name: "expired", n: notice.Notice{IsPublished: true, ExpiryDate: "2024-03-14"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.ActiveOn("2024-03-15"))
		})
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	testutil.FreezeTime(t, testutil.Now)
	conf := testutil.NewConfig()
	mailer := emailsvc.NewConsoleServiceMock(conf)
	svc := notice.NewService(testutil.NewStorage(), &testutil.Logger{})

	draft, err := svc.Add(ctx, notice.Notice{
		Meta: record.Meta{ID: "n1"}, Title: "Sports Day", Content: "Friday, on the main ground.", TargetAudience: "Parents", CreatedBy: "Principal",
	})
	require.NoError(t, err)
	assert.Equal(t, notice.TypeGeneral, draft.Type)
	assert.Equal(t, notice.AudienceParents, draft.TargetAudience)

	_, err = svc.Add(ctx, notice.Notice{
		Meta: record.Meta{ID: "n2"}, Title: "Old", Content: "Gone", CreatedBy: "Principal", ExpiryDate: "2024-03-01",
	})
	require.NoError(t, err)
	_, err = svc.Add(ctx, notice.Notice{Title: "No author", Content: "x"})
	assert.True(t, core.IsValidationError(err))

	active, err := svc.Active(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Empty(t, active)

	recipients := []mail.Address{{Name: "Rajesh", Address: "rajesh@mail.com"}, {Address: "sunita@mail.com"}}
	published, err := svc.Publish(ctx, "n1", mailer, recipients)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.Equal(t, "2024-03-15", published.PublishDate)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, recipients[:1], sent[0].To)
	assert.Equal(t, recipients[1:], sent[0].Bcc)
	assert.Contains(t, sent[0].TextContent, "Friday, on the main ground.")
	assert.Contains(t, sent[0].HTMLContent, "Sports Day")

	_, err = svc.Publish(ctx, "n2", mailer, recipients)
	assert.ErrorIs(t, err, notice.ErrExpired)
	_, err = svc.Publish(ctx, "n9", nil, nil)
	assert.ErrorIs(t, err, record.ErrNotFound)

	active, err = svc.Active(ctx, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, active, 1)

	forParents, err := svc.GetByAudience(ctx, notice.AudienceParents)
	require.NoError(t, err)
	assert.Len(t, forParents, 2) // "all" reaches parents too
}
