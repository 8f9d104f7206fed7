package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/attendance"
	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/expense"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/notice"
	"github.com/trezcool/schooladmin/core/report"
	"github.com/trezcool/schooladmin/core/salary"
	"github.com/trezcool/schooladmin/core/seed"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/core/subject"
	"github.com/trezcool/schooladmin/core/syllabus"
	"github.com/trezcool/schooladmin/core/teacher"
)

var (
	errDangling    = errors.New("dangling references found")
	errFilter      = errors.New("filter not supported by this collection")
	errManyFilters = errors.New("only one filter at a time")
)

func (cli *commandLine) seedCmd() *cobra.Command {
	var (
		students, teachers int
		randSeed           int64
	)
	cmd := &cobra.Command{
		Use:         "seed",
		Short:       "Fill the empty collections with sample data",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSeed: "y"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := seed.Options{Students: students, Teachers: teachers}
			if randSeed != 0 {
				opts.Rand = rand.New(rand.NewSource(randSeed))
			}
			rep, err := seed.Run(cmd.Context(), cli.school, cli.logger, opts)
			if err != nil {
				return err
			}
			return cli.print(rep)
		},
	}
	cmd.Flags().IntVar(&students, "students", cli.conf.Seed.Students, "number of sample students")
	cmd.Flags().IntVar(&teachers, "teachers", cli.conf.Seed.Teachers, "number of sample teachers")
	cmd.Flags().Int64Var(&randSeed, "rand-seed", 0, "seed of the random generator, for reproducible data (0: random)")
	return cmd
}

func (cli *commandLine) statsCmd() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if day == "" {
				day = core.Today()
			}
			stats, err := report.Dashboard(cmd.Context(), cli.school, day)
			if err != nil {
				return err
			}
			return cli.print(stats)
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "day of the figures, as YYYY-MM-DD (default today)")
	return cmd
}

type filterFunc func(ctx context.Context, value string) (interface{}, error)

func untyped[T any](f func(ctx context.Context, value string) ([]T, error)) filterFunc {
	return func(ctx context.Context, value string) (interface{}, error) { return f(ctx, value) }
}

// filters returns the list filters a collection supports, by flag name.
func (cli *commandLine) filters(key string) map[string]filterFunc {
	s := cli.school
	switch key {
	case student.Key:
		return map[string]filterFunc{"class": untyped(s.Students.GetByClass), "search": untyped(s.Students.Search)}
	case teacher.Key:
		return map[string]filterFunc{"subject": untyped(s.Teachers.GetBySubject), "search": untyped(s.Teachers.Search)}
	case class.Key:
		return map[string]filterFunc{"grade": untyped(s.Classes.GetByGrade)}
	case subject.Key:
		return map[string]filterFunc{"class": untyped(s.Subjects.GetByClass), "teacher": untyped(s.Subjects.GetByTeacher)}
	case attendance.Key:
		return map[string]filterFunc{
			"date":    untyped(s.Attendance.GetByDate),
			"class":   untyped(s.Attendance.GetByClass),
			"student": untyped(s.Attendance.GetByStudent),
		}
	case fee.Key:
		return map[string]filterFunc{"status": untyped(s.Fees.GetByStatus), "student": untyped(s.Fees.GetByStudent)}
	case salary.Key:
		return map[string]filterFunc{"month": untyped(s.Salaries.GetByMonth), "teacher": untyped(s.Salaries.GetByTeacher)}
	case syllabus.Key:
		return map[string]filterFunc{
			"class":   untyped(s.Syllabus.GetByClass),
			"subject": untyped(s.Syllabus.GetBySubject),
			"teacher": untyped(s.Syllabus.GetByTeacher),
		}
	case expense.Key:
		return map[string]filterFunc{
			"month":    untyped(s.Expenses.GetByMonth),
			"category": untyped(s.Expenses.GetByCategory),
			"status":   untyped(s.Expenses.GetByStatus),
			"search":   untyped(s.Expenses.Search),
		}
	case notice.Key:
		return map[string]filterFunc{"audience": untyped(s.Notices.GetByAudience), "date": untyped(s.Notices.Active)}
	}
	return nil
}

var filterFlags = []struct{ name, usage string }{
	{"class", "class id"},
	{"student", "student id"},
	{"teacher", "teacher id"},
	{"subject", "subject id"},
	{"grade", "grade"},
	{"date", "day, as YYYY-MM-DD (notices: active on that day)"},
	{"month", "month: YYYY-MM for salaries, month name for expenses"},
	{"category", "expense category"},
	{"status", "status"},
	{"audience", "notice audience"},
	{"search", "text to look for"},
}

func (cli *commandLine) listCmd() *cobra.Command {
	values := make(map[string]*string, len(filterFlags))
	cmd := &cobra.Command{
		Use:   "list COLLECTION",
		Short: "List the records of a collection",
		Long:  "List the records of a collection, optionally filtered by one of the flags.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			for _, f := range filterFlags {
				if cmd.Flags().Changed(f.name) {
					if name != "" {
						return errManyFilters
					}
					name = f.name
				}
			}

			var (
				out interface{}
				err error
			)
			if name == "" {
				out, err = cli.school.All(cmd.Context(), args[0])
			} else if filter, ok := cli.filters(args[0])[name]; ok {
				out, err = filter(cmd.Context(), *values[name])
			} else {
				return errors.Wrapf(errFilter, "%s --%s", args[0], name)
			}
			if err != nil {
				return err
			}
			return cli.print(out)
		},
		ValidArgsFunction: cli.completeCollections,
	}
	for _, f := range filterFlags {
		values[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}
	return cmd
}

func (cli *commandLine) completeCollections(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return cli.school.Collections(), cobra.ShellCompDirectiveNoFileComp
}

func (cli *commandLine) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get COLLECTION ID",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := cli.school.Find(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return cli.print(rec)
		},
		ValidArgsFunction: cli.completeCollections,
	}
}

func (cli *commandLine) deleteCmd() *cobra.Command {
	var yes, strict bool
	cmd := &cobra.Command{
		Use:   "delete COLLECTION ID",
		Short: "Delete one record",
		Long: `Delete one record.

With --strict, classes, students, teachers and subjects still referenced by other
records are kept and the references are listed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, id := args[0], args[1]
			if !yes {
				if err := cli.confirm(fmt.Sprintf("Delete %s/%s?", key, id)); err != nil {
					return err
				}
			}
			if err := cli.school.Delete(cmd.Context(), key, id, strict); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "deleted %s/%s\n", key, id)
			return nil
		},
		ValidArgsFunction: cli.completeCollections,
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&strict, "strict", false, "refuse to delete a referenced record")
	return cmd
}

func (cli *commandLine) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List the references to missing records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dangling, err := cli.school.CheckReferences(cmd.Context())
			if err != nil {
				return err
			}
			if len(dangling) == 0 {
				fmt.Fprintln(cli.out, "no dangling reference")
				return nil
			}
			lines := make([]string, 0, len(dangling))
			for _, d := range dangling {
				lines = append(lines, d.String())
			}
			sort.Strings(lines)
			fmt.Fprintln(cli.out, strings.Join(lines, "\n"))
			return errors.Wrapf(errDangling, "%d", len(dangling))
		},
	}
}

func (cli *commandLine) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:         "reset",
		Short:       "Remove every record of every collection",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSeed: "y"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if err := cli.confirm("Remove all the records?"); err != nil {
					return err
				}
			}
			if err := cli.school.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cli.out, "all collections cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
