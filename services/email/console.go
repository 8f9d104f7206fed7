package emailsvc

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
)

// ConsoleService writes every message, MIME encoded, to a writer instead of sending it.
type ConsoleService struct {
	dispatcher
	from       mail.Address
	subjPrefix string

	mu   sync.Mutex
	out  io.Writer
	sent []core.EmailMessage
}

var _ core.EmailService = (*ConsoleService)(nil)

func NewConsoleService(conf *core.Config, logger core.Logger) *ConsoleService {
	return &ConsoleService{
		dispatcher: newDispatcher(conf, logger),
		from:       mail.Address{Name: conf.AppName, Address: conf.Mail.DefaultFromEmail},
		subjPrefix: "[" + conf.AppName + "] ",
		out:        os.Stdout,
	}
}

// NewConsoleServiceMock sends in order, synchronously, and keeps the output to itself.
func NewConsoleServiceMock(conf *core.Config) *ConsoleService {
	svc := NewConsoleService(conf, nil)
	svc.out = io.Discard
	svc.serial = true
	return svc
}

// Sent returns the messages written so far.
func (svc *ConsoleService) Sent() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.EmailMessage(nil), svc.sent...)
}

func (svc *ConsoleService) SendMessages(messages ...*core.EmailMessage) {
	svc.dispatch(messages, svc.write)
}

func (svc *ConsoleService) write(msg core.EmailMessage) error {
	raw, err := svc.encode(msg)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if _, err = fmt.Fprintln(svc.out, raw); err != nil {
		return err
	}
	svc.sent = append(svc.sent, msg)
	return nil
}

// encode renders msg as a multipart/alternative message, wrapped in multipart/mixed when it has attachments.
func (svc *ConsoleService) encode(msg core.EmailMessage) (string, error) {
	var head strings.Builder
	header := func(key, value string) { _, _ = fmt.Fprintf(&head, "%s: %s\r\n", key, value) }
	header("From", svc.from.String())
	header("MIME-Version", "1.0")
	header("Date", core.NowFunc().Format("Mon, 02 Jan 2006 15:04:05 -0700"))
	header("Subject", svc.subjPrefix+msg.Subject)
	header("To", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		header("CC", joinAddresses(msg.Cc))
	}
	if len(msg.Bcc) > 0 {
		header("BCC", joinAddresses(msg.Bcc))
	}

	var alt bytes.Buffer
	altW := multipart.NewWriter(&alt)
	if err := writePart(altW, "text/plain; charset=utf-8", nil, msg.TextContent); err != nil {
		return "", err
	}
	if msg.HTMLContent != "" {
		if err := writePart(altW, "text/html; charset=utf-8", nil, msg.HTMLContent); err != nil {
			return "", err
		}
	}
	if err := altW.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart/alternative")
	}
	altType := "multipart/alternative; boundary=" + altW.Boundary()

	if !msg.HasAttachments() {
		header("Content-Type", altType)
		return head.String() + "\r\n" + alt.String(), nil
	}

	var mixed bytes.Buffer
	mixedW := multipart.NewWriter(&mixed)
	if err := writePart(mixedW, altType, nil, alt.String()); err != nil {
		return "", err
	}
	for _, at := range msg.Attachments {
		extra := textproto.MIMEHeader{
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {"attachment; filename=" + at.Filename},
		}
		if err := writePart(mixedW, at.ContentType, extra, at.Content.String()); err != nil {
			return "", err
		}
	}
	if err := mixedW.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart/mixed")
	}
	header("Content-Type", "multipart/mixed; boundary="+mixedW.Boundary())
	return head.String() + "\r\n" + mixed.String(), nil
}

func writePart(w *multipart.Writer, contentType string, extra textproto.MIMEHeader, body string) error {
	h := textproto.MIMEHeader{"Content-Type": {contentType}}
	for k, v := range extra {
		h[k] = v
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return errors.Wrapf(err, "creating %s part", contentType)
	}
	_, err = io.WriteString(part, body+"\r\n")
	return err
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
