package main

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/attendance"
	"github.com/trezcool/schooladmin/core/notice"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/salary"
	"github.com/trezcool/schooladmin/core/teacher"
)

var (
	errNoEmail    = errors.New("teacher has no email address")
	errStatusPair = errors.New("expected STUDENT_ID=STATUS")
)

func (cli *commandLine) payslipCmd() *cobra.Command {
	var send bool
	cmd := &cobra.Command{
		Use:   "payslip SALARY_ID",
		Short: "Print the payslip of a salary record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rec, err := cli.school.Salaries.FindByID(ctx, args[0])
			if err != nil {
				return err
			}
			var tchr *teacher.Teacher
			if t, err := cli.school.Teachers.FindByID(ctx, rec.TeacherID); err == nil {
				tchr = &t
			} else if !errors.Is(err, record.ErrNotFound) {
				return err
			}

			slip, err := salary.Payslip(rec, tchr)
			if err != nil {
				return err
			}
			if !send {
				_, err = fmt.Fprint(cli.out, slip)
				return err
			}
			if tchr == nil || tchr.Email == "" {
				return errNoEmail
			}

			msg := &core.EmailMessage{
				To:           []mail.Address{{Name: tchr.Name, Address: tchr.Email}},
				Subject:      "Payslip for " + rec.Month,
				TemplateName: "payslip",
				TemplateData: map[string]string{"Name": tchr.Name, "Month": rec.Month},
			}
			if err = msg.Attach(strings.NewReader(slip), salary.PayslipFilename(rec, tchr), "text/plain"); err != nil {
				return err
			}
			cli.mailer.SendMessages(msg)
			fmt.Fprintf(cli.out, "payslip sent to %s\n", tchr.Email)
			return nil
		},
	}
	cmd.Flags().BoolVar(&send, "email", false, "mail the payslip to the teacher instead of printing it")
	return cmd
}

func (cli *commandLine) salariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salaries",
		Short: "Manage teacher salaries",
	}

	generate := &cobra.Command{
		Use:   "generate [MONTH]",
		Short: "Add a pending salary for the month (YYYY-MM, default current) to every teacher lacking one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := core.NowFunc().UTC().Format(core.MonthLayout)
			if len(args) > 0 {
				month = args[0]
			}
			teachers, err := cli.school.Teachers.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			created, err := cli.school.Salaries.GenerateMonth(cmd.Context(), month, teachers)
			if err != nil {
				return err
			}
			return cli.print(created)
		},
	}

	var method string
	pay := &cobra.Command{
		Use:   "pay SALARY_ID",
		Short: "Record the payment of a salary today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := cli.school.Salaries.MarkPaid(cmd.Context(), args[0], method, core.Today())
			if err != nil {
				return err
			}
			return cli.print(rec)
		},
	}
	pay.Flags().StringVar(&method, "method", "bank_transfer", "payment method")

	cmd.AddCommand(generate, pay)
	return cmd
}

func (cli *commandLine) feesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Manage student fees",
	}

	var method, collectedBy string
	pay := &cobra.Command{
		Use:   "pay FEE_ID",
		Short: "Record the payment of a fee today and issue its receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := cli.school.Fees.MarkPaid(cmd.Context(), args[0], method, collectedBy, core.Today())
			if err != nil {
				return err
			}
			return cli.print(rec)
		},
	}
	pay.Flags().StringVar(&method, "method", "cash", "payment method: cash, bank or online")
	pay.Flags().StringVar(&collectedBy, "by", "Admin", "who collected the payment")

	overdue := &cobra.Command{
		Use:   "overdue",
		Short: "Mark the pending fees past their due date as overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := cli.school.Fees.RefreshOverdue(cmd.Context(), core.Today())
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "%d fees marked overdue\n", n)
			return nil
		},
	}

	cmd.AddCommand(pay, overdue)
	return cmd
}

func (cli *commandLine) attendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Record student attendance",
	}

	var day, remarks string
	mark := &cobra.Command{
		Use:   "mark STUDENT_ID STATUS",
		Short: "Set a student's status (present, absent, late or excused) for a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := cli.school.Students.FindByID(ctx, args[0])
			if err != nil {
				return errors.Wrapf(err, "student %s", args[0])
			}
			if day == "" {
				day = core.Today()
			}
			rec, err := cli.school.Attendance.Mark(ctx, attendance.MarkInput{
				StudentID: st.ID,
				ClassID:   st.ClassID,
				Date:      day,
				Status:    args[1],
				Remarks:   remarks,
			})
			if err != nil {
				return err
			}
			return cli.print(rec)
		},
	}
	mark.Flags().StringVar(&day, "date", "", "day, as YYYY-MM-DD (default today)")
	mark.Flags().StringVar(&remarks, "remarks", "", "remarks")

	var classDay, markedBy string
	markClass := &cobra.Command{
		Use:   "mark-class CLASS_ID [STUDENT_ID=STATUS...]",
		Short: "Mark a whole class for a day; students not listed are present",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cls, err := cli.school.Classes.FindByID(ctx, args[0])
			if err != nil {
				return errors.Wrapf(err, "class %s", args[0])
			}
			statuses := make(map[string]string, len(args)-1)
			for _, pair := range args[1:] {
				id, status, ok := strings.Cut(pair, "=")
				if !ok || id == "" {
					return errors.Wrap(errStatusPair, pair)
				}
				statuses[id] = status
			}
			students, err := cli.school.Students.GetByClass(ctx, cls.ID)
			if err != nil {
				return err
			}
			roll := make([]string, 0, len(students))
			for _, st := range students {
				roll = append(roll, st.ID)
			}
			if classDay == "" {
				classDay = core.Today()
			}

			recs, err := cli.school.Attendance.MarkClass(ctx, attendance.ClassInput{
				ClassID:  cls.ID,
				Date:     classDay,
				Roll:     roll,
				Statuses: statuses,
				MarkedBy: markedBy,
			})
			if err != nil {
				return err
			}
			t := attendance.Count(recs, len(roll))
			fmt.Fprintf(cli.out, "%s on %s: %d present, %d absent, %d late, %d excused\n",
				cls.Name, classDay, t.Present, t.Absent, t.Late, t.Excused)
			return cli.print(recs)
		},
	}
	markClass.Flags().StringVar(&classDay, "date", "", "day, as YYYY-MM-DD (default today)")
	markClass.Flags().StringVar(&markedBy, "by", "", "who took the attendance (default Admin)")

	cmd.AddCommand(mark, markClass)
	return cmd
}

func (cli *commandLine) noticesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notices",
		Short: "Manage notices",
	}

	var notify bool
	publish := &cobra.Command{
		Use:   "publish NOTICE_ID",
		Short: "Publish a notice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := cli.school.Notices.FindByID(ctx, args[0])
			if err != nil {
				return err
			}
			var recipients []mail.Address
			if notify {
				if recipients, err = cli.audience(ctx, n.TargetAudience); err != nil {
					return err
				}
			}
			if n, err = cli.school.Notices.Publish(ctx, n.ID, cli.mailer, recipients); err != nil {
				return err
			}
			if notify {
				fmt.Fprintf(cli.out, "notice mailed to %d recipients\n", len(recipients))
			}
			return cli.print(n)
		},
	}
	publish.Flags().BoolVar(&notify, "notify", false, "mail the notice to its audience")

	cmd.AddCommand(publish)
	return cmd
}

// audience returns the email addresses a notice for audience reaches, without duplicates.
func (cli *commandLine) audience(ctx context.Context, audience string) ([]mail.Address, error) {
	var (
		addrs []mail.Address
		seen  = make(map[string]bool)
	)
	add := func(name, email string) {
		email = core.CleanString(email, true /* lower */)
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		addrs = append(addrs, mail.Address{Name: name, Address: email})
	}

	all := audience == notice.AudienceAll
	if all || audience == notice.AudienceStudents || audience == notice.AudienceParents {
		students, err := cli.school.Students.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, st := range students {
			if all || audience == notice.AudienceStudents {
				add(st.Name, st.Email)
			}
			if all || audience == notice.AudienceParents {
				add(st.ParentName, st.ParentEmail)
			}
		}
	}
	if all || audience == notice.AudienceTeachers {
		teachers, err := cli.school.Teachers.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range teachers {
			add(t.Name, t.Email)
		}
	}
	return addrs, nil
}
