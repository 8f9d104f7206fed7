package logsvc

import (
	"fmt"
	"io"
	"os"
	"time"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/schooladmin/core"
)

// ZapLogger is a core.Logger writing structured entries through zap.
type ZapLogger struct {
	zl *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger writes entries to w in format (console, logfmt or json) from level up.
func NewZapLogger(w io.Writer, format, level string) (*ZapLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}
	config.EncodeDuration = func(d time.Duration, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(d.String())
	}

	var enc zapcore.Encoder
	switch format {
	case "logfmt":
		enc = zaplogfmt.NewEncoder(config)
	case "json":
		enc = zapcore.NewJSONEncoder(config)
	case "console", "":
		enc = zapcore.NewConsoleEncoder(config)
	default:
		return nil, errors.Errorf("invalid log format %q", format)
	}

	return &ZapLogger{zl: zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), lvl))}, nil
}

// NewStderrLogger is NewZapLogger writing to stderr with the configured format and level.
func NewStderrLogger(conf *core.Config) (*ZapLogger, error) {
	return NewZapLogger(os.Stderr, conf.Log.Format, conf.Log.Level)
}

// Zap returns the underlying zap logger.
func (l *ZapLogger) Zap() *zap.Logger { return l.zl }

// Sync flushes any buffered entry.
func (l *ZapLogger) Sync() error { return l.zl.Sync() }

// fields converts log args: errors, field maps and anything else.
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	var nArgs int
	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
		case error:
			flds = append(flds, zap.Error(a))
		case map[string]interface{}:
			for k, v := range a {
				flds = append(flds, zap.Any(k, v))
			}
		case zap.Field:
			flds = append(flds, a)
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", nArgs), a))
			nArgs++
		}
	}
	return flds
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.zl.Debug(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.zl.Info(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.zl.Warn(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.zl.Error(msg, fields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.zl.Fatal(msg, fields(args)...) }

