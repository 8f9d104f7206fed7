package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/seed"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp         = errors.New("help provided")
	errNotConfirmed = errors.New("not confirmed: run in a terminal or pass --yes")
	errAborted      = errors.New("aborted")
)

// skipSeed marks the commands that must not bootstrap sample data first.
const skipSeed = "skipSeed"

type commandLine struct {
	school *school.School
	conf   *core.Config
	logger core.Logger
	mailer core.EmailService
	out    io.Writer
	in     io.Reader

	format string // json | yaml
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schooladmin",
		Short:         "Manage the records of a school",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{skipSeed: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cli.format != "json" && cli.format != "yaml" {
				return errors.Errorf("unknown output format %q", cli.format)
			}
			if !cli.conf.Seed.OnStart || cmd.Annotations[skipSeed] != "" {
				return nil
			}
			_, err := seed.Run(cmd.Context(), cli.school, cli.logger, seed.Options{
				Students: cli.conf.Seed.Students,
				Teachers: cli.conf.Seed.Teachers,
			})
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetIn(cli.in)
	root.PersistentFlags().StringVarP(&cli.format, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		cli.seedCmd(),
		cli.statsCmd(),
		cli.listCmd(),
		cli.getCmd(),
		cli.deleteCmd(),
		cli.checkCmd(),
		cli.resetCmd(),
		cli.exportCmd(),
		cli.importCmd(),
		cli.payslipCmd(),
		cli.salariesCmd(),
		cli.feesCmd(),
		cli.attendanceCmd(),
		cli.noticesCmd(),
	)
	return root
}

// confirm asks a yes/no question on the terminal.
func (cli *commandLine) confirm(question string) error {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errNotConfirmed
	}
	fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errAborted
}
