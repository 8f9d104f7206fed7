package logsvc

import (
	"os"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/trezcool/schooladmin/core"
)

// RollbarLogger reports entries to rollbar and mirrors them to a ZapLogger.
type RollbarLogger struct {
	local *ZapLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(local *ZapLogger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{local: local}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Zap returns the zap logger entries are mirrored to.
func (l *RollbarLogger) Zap() *zap.Logger { return l.local.Zap() }

// Wait blocks until queued rollbar items are sent.
func (l *RollbarLogger) Wait() {
	rollbar.Wait()
}

// report sends one item: the first error in args when there is one, msg otherwise.
// Field maps in args become the item's extras; msg is kept as an extra of error items.
func (l *RollbarLogger) report(level, msg string, args []interface{}) {
	var (
		err    error
		extras = make(map[string]interface{})
	)
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			if err == nil {
				err = a
			}
		case map[string]interface{}:
			for k, v := range a {
				extras[k] = v
			}
		}
	}
	if err != nil {
		extras["message"] = msg
		rollbar.ErrorWithExtras(level, err, extras)
		return
	}
	rollbar.MessageWithExtras(level, msg, extras)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.report(rollbar.DEBUG, msg, args)
	l.local.Debug(msg, args...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.report(rollbar.INFO, msg, args)
	l.local.Info(msg, args...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.WARN, msg, args)
	l.local.Warn(msg, args...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.ERR, msg, args)
	l.local.Error(msg, args...)
}

// Fatal flushes rollbar before the zap logger exits the process.
func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.local.Fatal(msg, args...)
}
