package seed

import (
	"fmt"
	"time"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/class"
	"github.com/trezcool/schooladmin/core/expense"
	"github.com/trezcool/schooladmin/core/notice"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/core/subject"
)

var (
	firstNames = []string{
		"Aarav", "Aditi", "Arjun", "Diya", "Ishaan", "Kavya", "Rohan", "Saanvi", "Vihaan", "Ananya",
		"Kabir", "Meera", "Reyansh", "Priya", "Aryan", "Nisha", "Dev", "Tara", "Yash", "Zara",
	}
	lastNames = []string{
		"Sharma", "Verma", "Patel", "Gupta", "Singh", "Kumar", "Reddy", "Iyer", "Nair", "Das",
		"Mehta", "Joshi", "Kapoor", "Rao", "Bose",
	}
	parentFirstNames = []string{
		"Rajesh", "Sunita", "Anil", "Kavita", "Suresh", "Pooja", "Vikram", "Neha", "Manoj", "Rekha",
	}
	streets = []string{
		"MG Road", "Park Street", "Station Road", "Lake View", "Gandhi Nagar", "Nehru Colony", "Civil Lines",
	}
	cities         = []string{"Pune", "Jaipur", "Lucknow", "Indore", "Nagpur"}
	qualifications = []string{"B.Ed", "M.Ed", "M.Sc, B.Ed", "M.A, B.Ed", "Ph.D"}
	paymentMethods = []string{"cash", "bank", "online"}

	feeKinds = []struct {
		feeType string
		label   string
		amount  float64
	}{
		{"tuition", "Tuition Fee", 5000},
		{"transport", "Transport Fee", 1500},
		{"other", "Activity Fee", 800},
		{"library", "Library Fee", 300},
		{"laboratory", "Lab Fee", 500},
	}

	syllabusTopics = []string{
		"Fundamental Concepts", "Practical Applications", "Advanced Topics", "Assessment and Evaluation",
	}
	learningObjectives = []string{
		"Understand core principles", "Apply knowledge practically", "Develop critical thinking", "Master essential skills",
	}
	assessmentMethods = []string{"Written Tests", "Practical Assignments", "Projects", "Presentations"}
	resources         = []string{"Textbooks", "Online Materials", "Laboratory Equipment", "Digital Tools"}
)

func sampleClasses(now time.Time) []class.Class {
	classes := make([]class.Class, 0, 5)
	for grade := 1; grade <= 5; grade++ {
		id := fmt.Sprint(grade)
		classes = append(classes, class.Class{
			Meta:     record.NewMeta(id, now),
			Name:     "Grade " + id,
			Grade:    id,
			Sections: []string{"A", "B"},
			Capacity: 30,
			Subjects: []string{},
		})
	}
	return classes
}

func sampleSubjects(now time.Time, classIDs []string) []subject.Subject {
	fixtures := []struct {
		name, code, description string
		creditHours            int
	}{
		{"Mathematics", "MATH", "Numbers, arithmetic, geometry and problem solving", 4},
		{"English", "ENG", "Reading, writing, grammar and spoken English", 4},
		{"Science", "SCI", "Observation and experiments about the natural world", 3},
		{"Social Studies", "SST", "History, geography and civics", 3},
		{"Computer", "COMP", "Computer basics and digital literacy", 2},
	}
	subjects := make([]subject.Subject, 0, len(fixtures))
	for i, f := range fixtures {
		subjects = append(subjects, subject.Subject{
			Meta:        record.NewMeta(fmt.Sprint(i+1), now),
			Name:        f.name,
			Code:        f.code,
			Description: f.description,
			ClassIDs:    append([]string{}, classIDs...),
			CreditHours: f.creditHours,
		})
	}
	return subjects
}

func sampleExpenses(now time.Time) []expense.Expense {
	return []expense.Expense{
		{
			Meta:          record.NewMeta("1", now),
			Title:         "Mathematics Books Purchase",
			Description:   "Textbooks for Grade 5 students",
			Category:      "books",
			Amount:        1500,
			Date:          "2024-01-15",
			Month:         "January",
			Year:          2024,
			SpentBy:       "John Admin",
			ApprovedBy:    "Principal Smith",
			PaymentMethod: "bank",
			RecipientType: "student",
			StudentGrade:  "5",
			StudentClass:  "Grade 5-A",
			Vendor:        "Educational Books Ltd",
			ReceiptNumber: "INV-2024-001",
			Status:        expense.StatusPaid,
		},
		{
			Meta:          record.NewMeta("2", now),
			Title:         "Classroom Maintenance",
			Description:   "Repair and painting of Grade 3 classrooms",
			Category:      "maintenance",
			Amount:        2500,
			Date:          "2024-01-20",
			Month:         "January",
			Year:          2024,
			SpentBy:       "Maintenance Team",
			PaymentMethod: "cash",
			RecipientType: "vendor",
			Vendor:        "City Contractors",
			Status:        expense.StatusApproved,
		},
		{
			Meta:          record.NewMeta("3", now),
			Title:         "School Uniforms",
			Description:   "Uniforms for new students",
			Category:      "uniform",
			Amount:        800,
			Date:          "2024-02-01",
			Month:         "February",
			Year:          2024,
			SpentBy:       "Sarah Wilson",
			PaymentMethod: "online",
			RecipientType: "student",
			StudentGrade:  "all",
			Vendor:        "Uniform Supply Co",
			Status:        expense.StatusPending,
		},
		{
			Meta:          record.NewMeta("4", now),
			Title:         "Stationary Supplies",
			Description:   "Notebooks, pens, pencils for all grades",
			Category:      "stationary",
			Amount:        1200,
			Date:          "2024-02-10",
			Month:         "February",
			Year:          2024,
			SpentBy:       "Office Manager",
			PaymentMethod: "bank",
			RecipientType: "school",
			Status:        expense.StatusPaid,
		},
	}
}

func sampleNotices(now time.Time) []notice.Notice {
	at := func(ago time.Duration) (record.Meta, string) {
		t := now.Add(-ago)
		return record.Meta{CreatedAt: t.UTC(), UpdatedAt: t.UTC()}, t.UTC().Format(core.DateLayout)
	}
	fixtures := []struct {
		ago                          time.Duration
		title, content, typ, audience string
		createdBy, expiryDate        string
	}{
		{0, "Annual Sports Day - 2024",
			"The annual sports day will be held on March 15th, 2024. All students are requested to participate in various sports activities. Parents are welcome to attend.",
			notice.TypeEvent, notice.AudienceAll, "Principal", "2024-03-15"},
		{24 * time.Hour, "Parent-Teacher Meeting",
			"Parent-teacher meetings are scheduled for this Saturday. Please check with your class teacher for specific timings.",
			notice.TypeAcademic, notice.AudienceParents, "Academic Coordinator", ""},
		{48 * time.Hour, "Library Books Return Reminder",
			"All students who have borrowed books from the library are requested to return them by Friday. Late fees will be applicable after the due date.",
			notice.TypeGeneral, notice.AudienceStudents, "Librarian", ""},
		{time.Hour, "School Closure - Weather Alert",
			"Due to severe weather conditions, the school will remain closed tomorrow. Online classes will be conducted as per regular schedule.",
			notice.TypeUrgent, notice.AudienceAll, "Principal", ""},
	}
	notices := make([]notice.Notice, 0, len(fixtures))
	for i, f := range fixtures {
		meta, day := at(f.ago)
		meta.ID = fmt.Sprint(i + 1)
		if f.expiryDate != "" && f.expiryDate < day {
			day = f.expiryDate
		}
		notices = append(notices, notice.Notice{
			Meta:           meta,
			Title:          f.title,
			Content:        f.content,
			Type:           f.typ,
			TargetAudience: f.audience,
			IsPublished:    true,
			PublishDate:    day,
			ExpiryDate:     f.expiryDate,
			CreatedBy:      f.createdBy,
		})
	}
	return notices
}
