package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/services/email"
	"github.com/trezcool/schooladmin/services/logger"
	"github.com/trezcool/schooladmin/storage/kv"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", describe(err))
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	conf, err := core.NewConfig()
	if err != nil {
		return err
	}

	zl, err := logsvc.NewStderrLogger(conf)
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck
	var logger core.Logger = zl
	if conf.RollbarToken != "" {
		rl := logsvc.NewRollbarLogger(zl, conf)
		rl.Enable(!conf.Debug)
		defer rl.Wait()
		logger = rl
	}

	// set up storage
	ctx := context.Background()
	db, err := kv.Open(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// start CLI
	cli := &commandLine{
		school: school.New(db, logger, conf),
		conf:   conf,
		logger: logger,
		mailer: emailsvc.New(conf, logger),
		out:    os.Stdout,
		in:     os.Stdin,
	}
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// describe flattens validation errors into their field messages.
func describe(err error) string {
	if flds := core.TranslateError(err); flds != nil {
		return fmt.Sprintf("%s %v", err, flds)
	}
	return err.Error()
}
