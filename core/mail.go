package core

import (
	"bytes"
	"embed"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"net/http"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

//go:embed templates/email/*
var emailFS embed.FS

const emailDir = "templates/email"

type (
	Attachment struct {
		Content     *bytes.Buffer // base64 encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		Body        string // plain text, used as is instead of a template
		Attachments []Attachment

		TemplateName string // file name under templates/email, without extension
		TemplateData interface{}

		// filled by Render
		TextContent string
		HTMLContent string
	}

	// MailContext is what every email template is executed with.
	MailContext struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// mailTemplate is the text and html variants of one template; either may be missing.
type mailTemplate struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

var (
	mailTemplatesOnce sync.Once
	mailTemplates     map[string]mailTemplate
	mailTemplatesErr  error
)

// loadMailTemplates parses every embedded template once, each with its _base layout.
func loadMailTemplates() (map[string]mailTemplate, error) {
	mailTemplatesOnce.Do(func() {
		mailTemplates, mailTemplatesErr = parseMailTemplates(emailFS)
	})
	return mailTemplates, mailTemplatesErr
}

func parseMailTemplates(fsys fs.FS) (map[string]mailTemplate, error) {
	entries, err := fs.ReadDir(fsys, emailDir)
	if err != nil {
		return nil, errors.Wrap(err, "reading email templates")
	}

	parsed := make(map[string]mailTemplate)
	for _, de := range entries {
		fname := de.Name()
		if strings.HasPrefix(fname, "_") {
			continue
		}
		ext := path.Ext(fname)
		name := strings.TrimSuffix(fname, ext)
		layout, page := path.Join(emailDir, "_base"+ext), path.Join(emailDir, fname)

		tmpl := parsed[name]
		switch ext {
		case ".txt":
			if tmpl.text, err = texttmpl.ParseFS(fsys, layout, page); err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fname)
			}
		case ".gohtml":
			if tmpl.html, err = htmltmpl.ParseFS(fsys, layout, page); err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fname)
			}
		default:
			continue
		}
		parsed[name] = tmpl
	}
	return parsed, nil
}

// Render fills TextContent and HTMLContent, from Body or from the named template.
// An unknown template name renders nothing.
func (m *EmailMessage) Render(appName string, conf MailConfig) error {
	if m.Body != "" {
		m.TextContent = m.Body
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	all, err := loadMailTemplates()
	if err != nil {
		return err
	}
	tmpl, ok := all[m.TemplateName]
	if !ok {
		return nil
	}

	data := MailContext{AppName: appName, FrontendBaseURL: conf.FrontendBaseURL, Data: m.TemplateData}
	var buf bytes.Buffer
	if tmpl.text != nil {
		if err = tmpl.text.Execute(&buf, data); err != nil {
			return errors.Wrapf(err, "rendering %s.txt", m.TemplateName)
		}
		m.TextContent = buf.String()
		buf.Reset()
	}
	if tmpl.html != nil {
		if err = tmpl.html.Execute(&buf, data); err != nil {
			return errors.Wrapf(err, "rendering %s.gohtml", m.TemplateName)
		}
		m.HTMLContent = buf.String()
	}
	return nil
}

// Attach base64 encodes the content of r as an attachment.
// The content type is sniffed when ct is not given.
func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	contentType := http.DetectContentType(content)
	if len(ct) > 0 {
		contentType = ct[0]
	}

	encoded := base64.StdEncoding.EncodeToString(content)
	m.Attachments = append(m.Attachments, Attachment{
		Content:     bytes.NewBufferString(encoded),
		ContentType: contentType,
		Filename:    filename,
	})
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return m.TextContent != "" || m.HTMLContent != "" }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// Sendable reports whether a rendered message has someone to go to and something to say.
func (m *EmailMessage) Sendable() bool {
	return m.HasRecipients() && (m.HasContent() || m.HasAttachments())
}
