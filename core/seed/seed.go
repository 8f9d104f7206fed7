// Package seed fills empty collections with sample data.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/fee"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/salary"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/student"
	"github.com/trezcool/schooladmin/core/subject"
	"github.com/trezcool/schooladmin/core/syllabus"
	"github.com/trezcool/schooladmin/core/teacher"
)

const feeStudents = 20

type Options struct {
	Rand     *rand.Rand // nil: seeded from the clock
	Students int        // 0: 50
	Teachers int        // 0: 10
	Now      time.Time  // zero: core.NowFunc()
}

// Report lists what a run did per collection.
type Report struct {
	Seeded  []string `json:"seeded"`
	Skipped []string `json:"skipped"` // already holding records
	Corrupt []string `json:"corrupt"` // unreadable, left untouched
}

func (r Report) String() string {
	if len(r.Seeded) == 0 {
		return "nothing to seed"
	}
	return "seeded " + strings.Join(r.Seeded, ", ")
}

type seeder struct {
	school *school.School
	rnd    *rand.Rand
	now    time.Time
	today  string
	logger core.Logger
	report Report
}

// Run seeds every empty collection and leaves the others untouched,
// so running it on a seeded store changes nothing.
func Run(ctx context.Context, s *school.School, logger core.Logger, opts Options) (Report, error) {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Students <= 0 {
		opts.Students = 50
	}
	if opts.Teachers <= 0 {
		opts.Teachers = 10
	}
	if opts.Now.IsZero() {
		opts.Now = core.NowFunc()
	}
	sd := &seeder{
		school: s,
		rnd:    opts.Rand,
		now:    opts.Now.UTC(),
		today:  opts.Now.UTC().Format(core.DateLayout),
		logger: logger,
		report: Report{Seeded: []string{}, Skipped: []string{}, Corrupt: []string{}},
	}
	if err := sd.run(ctx, opts); err != nil {
		return sd.report, err
	}
	if len(sd.report.Seeded) > 0 {
		logger.Info(sd.report.String())
	}
	return sd.report, nil
}

// empty reports whether key needs seeding, noting the collections that don't.
func (sd *seeder) empty(ctx context.Context, key string, isEmpty func(context.Context) (bool, error)) (bool, error) {
	ok, err := isEmpty(ctx)
	switch {
	case errors.Is(err, record.ErrCorrupted):
		sd.logger.Warn(fmt.Sprintf("not seeding %s: stored value is corrupt", key))
		sd.report.Corrupt = append(sd.report.Corrupt, key)
		return false, nil
	case err != nil:
		return false, errors.Wrapf(err, "checking %s", key)
	case !ok:
		sd.report.Skipped = append(sd.report.Skipped, key)
	}
	return ok, nil
}

func write[T record.Record](ctx context.Context, sd *seeder, st *record.Store[T], items []T) error {
	if err := st.SetAll(ctx, items); err != nil {
		return errors.Wrapf(err, "seeding %s", st.Key())
	}
	sd.report.Seeded = append(sd.report.Seeded, st.Key())
	return nil
}

func (sd *seeder) run(ctx context.Context, opts Options) error {
	s := sd.school

	// classes, subjects and teachers point at each other: plan all three, then write.
	seedClasses, err := sd.empty(ctx, class.Key, s.Classes.Empty)
	if err != nil {
		return err
	}
	seedSubjects, err := sd.empty(ctx, subject.Key, s.Subjects.Empty)
	if err != nil {
		return err
	}
	seedTeachers, err := sd.empty(ctx, teacher.Key, s.Teachers.Empty)
	if err != nil {
		return err
	}

	classes, err := s.Classes.GetAll(ctx)
	if err != nil {
		return err
	}
	if seedClasses {
		classes = sampleClasses(sd.now)
	}
	subjects, err := s.Subjects.GetAll(ctx)
	if err != nil {
		return err
	}
	if seedSubjects {
		subjects = sampleSubjects(sd.now, ids(classes))
	}
	teachers, err := s.Teachers.GetAll(ctx)
	if err != nil {
		return err
	}
	if seedTeachers {
		teachers = sd.teachers(opts.Teachers, ids(subjects), ids(classes))
		if seedClasses {
			assignClassTeachers(classes, teachers)
		}
		if seedSubjects {
			assignSubjectTeachers(subjects, teachers)
		}
	}

	if seedClasses {
		if err = write(ctx, sd, s.Classes.Store, classes); err != nil {
			return err
		}
	}
	if seedSubjects {
		if err = write(ctx, sd, s.Subjects.Store, subjects); err != nil {
			return err
		}
	}
	if seedTeachers {
		if err = write(ctx, sd, s.Teachers.Store, teachers); err != nil {
			return err
		}
	}

	students, err := s.Students.GetAll(ctx)
	if err != nil {
		return err
	}
	if ok, err := sd.empty(ctx, student.Key, s.Students.Empty); err != nil {
		return err
	} else if ok {
		students = sd.students(opts.Students, classes)
		if err = write(ctx, sd, s.Students.Store, students); err != nil {
			return err
		}
	}

	if ok, err := sd.empty(ctx, fee.Key, s.Fees.Empty); err != nil {
		return err
	} else if ok && len(students) > 0 {
		if err = write(ctx, sd, s.Fees.Store, sd.fees(students)); err != nil {
			return err
		}
	}

	if ok, err := sd.empty(ctx, salary.Key, s.Salaries.Empty); err != nil {
		return err
	} else if ok && len(teachers) > 0 {
		if err = sd.salaries(ctx, teachers); err != nil {
			return err
		}
	}

	if ok, err := sd.empty(ctx, syllabus.Key, s.Syllabus.Empty); err != nil {
		return err
	} else if ok && len(subjects) > 0 {
		if err = write(ctx, sd, s.Syllabus.Store, sd.syllabus(subjects, teachers, classes)); err != nil {
			return err
		}
	}

	if ok, err := sd.empty(ctx, s.Expenses.Key(), s.Expenses.Empty); err != nil {
		return err
	} else if ok {
		if err = write(ctx, sd, s.Expenses.Store, sampleExpenses(sd.now)); err != nil {
			return err
		}
	}

	if ok, err := sd.empty(ctx, s.Notices.Key(), s.Notices.Empty); err != nil {
		return err
	} else if ok {
		if err = write(ctx, sd, s.Notices.Store, sampleNotices(sd.now)); err != nil {
			return err
		}
	}
	return nil
}

func ids[T record.Record](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.RecordID())
	}
	return out
}

func (sd *seeder) pick(pool []string) string {
	return pool[sd.rnd.Intn(len(pool))]
}

// pickN picks 1 to max distinct elements of pool, in pool order.
func (sd *seeder) pickN(pool []string, max int) []string {
	if len(pool) == 0 {
		return []string{}
	}
	n := 1 + sd.rnd.Intn(max)
	if n > len(pool) {
		n = len(pool)
	}
	chosen := make(map[int]bool, n)
	for _, i := range sd.rnd.Perm(len(pool))[:n] {
		chosen[i] = true
	}
	out := make([]string, 0, n)
	for i, v := range pool {
		if chosen[i] {
			out = append(out, v)
		}
	}
	return out
}

func (sd *seeder) phone() string {
	return fmt.Sprintf("+91 9%09d", sd.rnd.Intn(1e9))
}

// date returns a random day of year, as YYYY-MM-DD.
func (sd *seeder) date(year int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, 1+sd.rnd.Intn(12), 1+sd.rnd.Intn(28))
}

func (sd *seeder) address() string {
	return fmt.Sprintf("%d, %s, %s", 1+sd.rnd.Intn(200), sd.pick(streets), sd.pick(cities))
}

func emailLocal(first, last string) string {
	return strings.ToLower(first + "." + last)
}

func (sd *seeder) teachers(n int, subjectIDs, classIDs []string) []teacher.Teacher {
	teachers := make([]teacher.Teacher, 0, n)
	for i := 0; i < n; i++ {
		first, last := sd.pick(firstNames), sd.pick(lastNames)
		teachers = append(teachers, teacher.Teacher{
			Meta:          record.NewMeta("", sd.now),
			Name:          first + " " + last,
			Email:         fmt.Sprintf("%s%d@school.edu", emailLocal(first, last), i+1),
			Phone:         sd.phone(),
			Address:       sd.address(),
			DateOfBirth:   sd.date(sd.now.Year() - 30 - sd.rnd.Intn(25)),
			Qualification: sd.pick(qualifications),
			Experience:    fmt.Sprintf("%d years", 1+sd.rnd.Intn(20)),
			Subjects:      sd.pickN(subjectIDs, 2),
			Classes:       sd.pickN(classIDs, 2),
			JoiningDate:   sd.date(sd.now.Year() - 1 - sd.rnd.Intn(10)),
			EmployeeID:    fmt.Sprintf("EMP%03d", i+1),
			Salary:        float64(25000 + 1000*sd.rnd.Intn(21)),
		})
	}
	return teachers
}

func assignClassTeachers(classes []class.Class, teachers []teacher.Teacher) {
	for i := range classes {
		for _, t := range teachers {
			if core.Contains(t.Classes, classes[i].ID) {
				classes[i].ClassTeacherID = t.ID
				break
			}
		}
	}
}

func assignSubjectTeachers(subjects []subject.Subject, teachers []teacher.Teacher) {
	for i := range subjects {
		for _, t := range teachers {
			if t.Teaches(subjects[i].ID) {
				subjects[i].TeacherID = t.ID
				break
			}
		}
	}
}

func (sd *seeder) students(n int, classes []class.Class) []student.Student {
	students := make([]student.Student, 0, n)
	rolls := make(map[string]int, len(classes))
	for i := 0; i < n; i++ {
		first, last := sd.pick(firstNames), sd.pick(lastNames)
		parent := sd.pick(parentFirstNames)
		st := student.Student{
			Meta:          record.NewMeta("", sd.now),
			Name:          first + " " + last,
			Email:         fmt.Sprintf("%s%d@students.school.edu", emailLocal(first, last), i+1),
			Phone:         sd.phone(),
			Address:       sd.address(),
			ParentName:    parent + " " + last,
			ParentPhone:   sd.phone(),
			ParentEmail:   fmt.Sprintf("%s@mail.com", emailLocal(parent, last)),
			BloodGroup:    sd.pick(student.BloodGroups),
			DateOfBirth:   sd.date(sd.now.Year() - 6 - sd.rnd.Intn(5)),
			AdmissionDate: sd.date(sd.now.Year() - 1 - sd.rnd.Intn(3)),
		}
		if len(classes) > 0 {
			c := classes[i%len(classes)]
			section := ""
			if len(c.Sections) > 0 {
				section = sd.pick(c.Sections)
			}
			rolls[c.ID]++
			st.ClassID = c.ID
			st.ClassName = c.Name
			st.Section = section
			st.RollNumber = fmt.Sprintf("%s%s%02d", c.Grade, section, rolls[c.ID])
			if grade, err := strconv.Atoi(c.Grade); err == nil {
				st.DateOfBirth = sd.date(sd.now.Year() - 5 - grade)
			}
		}
		students = append(students, st)
	}
	return students
}

func (sd *seeder) fees(students []student.Student) []fee.Record {
	if len(students) > feeStudents {
		students = students[:feeStudents]
	}
	due := sd.now.AddDate(0, 1, 0)
	records := make([]fee.Record, 0, len(students))
	var receipts int
	for i, st := range students {
		kind := feeKinds[i%len(feeKinds)]
		paid := sd.rnd.Float64() > 0.3
		overdue := !paid && sd.rnd.Float64() > 0.7

		r := fee.Record{
			Meta:        record.NewMeta("", sd.now),
			StudentID:   st.ID,
			StudentName: st.Name,
			ClassName:   st.ClassName,
			FeeType:     kind.feeType,
			Amount:      kind.amount,
			DueDate:     due.Format(core.DateLayout),
			Month:       due.Month().String(),
			Year:        due.Year(),
			Status:      fee.StatusPending,
			Remarks:     kind.label,
		}
		switch {
		case paid:
			receipts++
			r.Status = fee.StatusPaid
			r.PaidAmount = kind.amount
			r.PaymentDate = sd.now.AddDate(0, 0, -sd.rnd.Intn(30)).Format(core.DateLayout)
			r.PaymentMethod = sd.pick(paymentMethods)
			r.ReceiptNumber = fmt.Sprintf("RCP%04d", receipts)
			r.CollectedBy = "Accounts Office"
		case overdue:
			r.Status = fee.StatusOverdue
		}
		records = append(records, r)
	}
	return records
}

func (sd *seeder) salaries(ctx context.Context, teachers []teacher.Teacher) error {
	svc := sd.school.Salaries
	created, err := svc.GenerateMonth(ctx, sd.now.Format(core.MonthLayout), teachers)
	if err != nil {
		return errors.Wrapf(err, "seeding %s", svc.Key())
	}
	var changed bool
	for i := range created {
		if sd.rnd.Float64() > 0.3 {
			created[i].Status = salary.StatusPaid
			created[i].PaidDate = sd.today
			created[i].PaymentMethod = "bank_transfer"
			changed = true
		}
	}
	if changed {
		if err = svc.SetAll(ctx, created); err != nil {
			return errors.Wrapf(err, "seeding %s", svc.Key())
		}
	}
	sd.report.Seeded = append(sd.report.Seeded, svc.Key())
	return nil
}

func (sd *seeder) syllabus(subjects []subject.Subject, teachers []teacher.Teacher, classes []class.Class) []syllabus.Syllabus {
	statuses := []string{syllabus.StatusPlanned, syllabus.StatusInProgress, syllabus.StatusCompleted, syllabus.StatusDelayed}
	grades := make(map[string]string, len(classes))
	for _, c := range classes {
		grades[c.ID] = c.Grade
	}
	year, month, _ := sd.now.Date()

	list := make([]syllabus.Syllabus, 0, len(subjects))
	for i, sub := range subjects {
		teacherID := sub.TeacherID
		if teacherID == "" {
			for _, t := range teachers {
				if t.Teaches(sub.ID) {
					teacherID = t.ID
					break
				}
			}
		}
		grade := "1"
		if len(sub.ClassIDs) > 0 && grades[sub.ClassIDs[0]] != "" {
			grade = grades[sub.ClassIDs[0]]
		}

		target, months := syllabus.TargetWeekly, 1
		if i%2 == 0 {
			target, months = syllabus.TargetMonthly, 2
		}
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, month+time.Month(months), 0, 0, 0, 0, 0, time.UTC) // last day

		status := statuses[i%len(statuses)]
		var progress int
		switch status {
		case syllabus.StatusInProgress:
			progress = 10 + sd.rnd.Intn(80)
		case syllabus.StatusCompleted:
			progress = 100
		case syllabus.StatusDelayed:
			progress = sd.rnd.Intn(60)
		}

		list = append(list, syllabus.Syllabus{
			Meta:               record.NewMeta("", sd.now),
			Title:              fmt.Sprintf("%s Curriculum - %d", sub.Name, year),
			Description:        fmt.Sprintf("Comprehensive %s syllabus covering all essential topics and practical applications.", strings.ToLower(sub.Name)),
			SubjectID:          sub.ID,
			TeacherID:          teacherID,
			ClassIDs:           append([]string{}, sub.ClassIDs...),
			Grade:              grade,
			TargetType:         target,
			StartDate:          start.Format(core.DateLayout),
			EndDate:            end.Format(core.DateLayout),
			Topics:             append([]string{"Introduction to " + sub.Name}, syllabusTopics...),
			LearningObjectives: append([]string{}, learningObjectives...),
			AssessmentMethods:  append([]string{}, assessmentMethods...),
			Resources:          append([]string{}, resources...),
			Status:             status,
			ProgressPercentage: progress,
		})
	}
	return list
}
