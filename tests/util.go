package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/storage/kv/dummy"
)

// Now is the frozen clock reading used across tests: a Friday.
var Now = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func NewStorage() *dummykv.Storage {
	return dummykv.Open()
}

// NewConfig returns a configuration with the defaults the services rely on.
func NewConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Test School",
		Mail: core.MailConfig{
			DefaultFromEmail: "noreply@school.test",
			FrontendBaseURL:  "http://localhost:8080",
		},
		Salary: core.SalaryConfig{
			DefaultBasic:      30000,
			DefaultAllowances: 5000,
			DefaultDeductions: 2000,
		},
	}
}

// FreezeTime makes core.NowFunc return at until the test ends.
func FreezeTime(t *testing.T, at time.Time) {
	t.Helper()
	orig := core.NowFunc
	core.NowFunc = func() time.Time { return at }
	t.Cleanup(func() { core.NowFunc = orig })
}

// SequentialIDs makes record.NewID return prefix-1, prefix-2, ... until the test ends.
func SequentialIDs(t *testing.T, prefix string) {
	t.Helper()
	orig := record.NewID
	var (
		mu sync.Mutex
		n  int
	)
	record.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
	t.Cleanup(func() { record.NewID = orig })
}

type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger is a core.Logger keeping every entry in memory.
type Logger struct {
	mu      sync.Mutex
	Entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, Entry{Level: level, Msg: msg, Args: args})
}

// Count returns the number of entries logged at level.
func (l *Logger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }
