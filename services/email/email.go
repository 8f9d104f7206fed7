// Package emailsvc sends core.EmailMessage values, to SendGrid or to a console.
package emailsvc

import (
	"fmt"
	"sync"

	"github.com/trezcool/schooladmin/core"
)

// New picks SendGrid when an API key is configured, the console otherwise.
func New(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Mail.SendgridAPIKey != "" {
		return NewSendgridService(conf, logger)
	}
	return NewConsoleService(conf, logger)
}

// dispatcher renders messages and hands the sendable ones to deliver.
type dispatcher struct {
	appName string
	conf    core.MailConfig
	logger  core.Logger
	serial  bool // deliver one message after the other, in order
}

func newDispatcher(conf *core.Config, logger core.Logger) dispatcher {
	return dispatcher{appName: conf.AppName, conf: conf.Mail, logger: logger}
}

// dispatch returns once every message was delivered or dropped.
// Failures are logged: callers do not wait on mail.
func (d dispatcher) dispatch(messages []*core.EmailMessage, deliver func(msg core.EmailMessage) error) {
	handle := func(msg *core.EmailMessage) {
		if err := msg.Render(d.appName, d.conf); err != nil {
			d.logError(fmt.Sprintf("rendering email %q", msg.Subject), err)
			return
		}
		if !msg.Sendable() {
			return
		}
		if err := deliver(*msg); err != nil {
			d.logError(fmt.Sprintf("sending email %q", msg.Subject), err)
		}
	}

	if d.serial {
		for _, msg := range messages {
			handle(msg)
		}
		return
	}
	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(msg *core.EmailMessage) {
			defer wg.Done()
			handle(msg)
		}(msg)
	}
	wg.Wait()
}

func (d dispatcher) logError(msg string, err error) {
	if d.logger != nil {
		d.logger.Error(msg, err)
	}
}
