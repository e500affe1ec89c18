package memory

import (
	"time"

	"github.com/lib/pq"

	"placement-portal/backend/internal/model"
)

// SeedDemo 向空 Store 写入演示数据；Store 非空时不做任何事并返回 false
// 截止日期按 loc 时区取当天最后一刻
func (s *Store) SeedDemo(loc *time.Location) (bool, error) {
	if !s.Empty() {
		return false, nil
	}
	return true, s.Import(DemoSnapshot(loc))
}

// DemoSnapshot 演示用户、岗位、申请与通知
func DemoSnapshot(loc *time.Location) Snapshot {
	day := func(s string) time.Time {
		t, _ := time.ParseInLocation(model.DateLayout, s, loc)
		return t
	}
	deadline := func(s string) time.Time { return model.EndOfDay(day(s), loc) }
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	seededAt := day("2025-09-01")
	base := model.BaseModel{CreatedAt: seededAt, UpdatedAt: seededAt}

	users := []model.User{
		{ID: 1, Name: "Aarav Gupta", Email: "aarav@student.edu", Role: model.RoleStudent, Branch: "CSE", Semester: 6,
			Skills: pq.StringArray{"React", "Python", "JavaScript", "Node.js"}, ResumeURL: "/mock/resume-aarav.pdf"},
		{ID: 2, Name: "Neha Sharma", Email: "neha@student.edu", Role: model.RoleStudent, Branch: "ECE", Semester: 7,
			Skills: pq.StringArray{"VHDL", "Embedded Systems", "C++", "PCB Design"}, ResumeURL: "/mock/resume-neha.pdf"},
		{ID: 3, Name: "Dr. Rajesh Kumar", Email: "rajesh@mentor.edu", Role: model.RoleMentor, Branch: "CSE"},
		{ID: 4, Name: "Prof. Sunita Verma", Email: "sunita@placement.edu", Role: model.RolePlacementOfficer},
		{ID: 5, Name: "Amit Singh", Email: "amit@techcorp.com", Role: model.RoleEmployer, Company: "TechCorp Solutions"},
		{ID: 6, Name: "Sarah Wilson", Email: "sarah@chipmakers.com", Role: model.RoleEmployer, Company: "ChipMakers Inc"},
		{ID: 7, Name: "Vikram Rao", Email: "vikram@dataflow.io", Role: model.RoleEmployer, Company: "DataFlow Analytics"},
		{ID: 8, Name: "Priya Nair", Email: "priya@appcraft.studio", Role: model.RoleEmployer, Company: "AppCraft Studios"},
	}
	for i := range users {
		users[i].BaseModel = base
	}

	jobs := []model.Job{
		{
			ID: 101, Title: "Frontend Developer Intern", EmployerID: 5, Company: "TechCorp Solutions",
			Description: "Work on cutting-edge React applications with modern technologies. You'll collaborate with senior developers to build user-friendly interfaces and learn industry best practices.",
			Skills:      pq.StringArray{"React", "JavaScript", "TypeScript", "CSS"},
			Stipend:     "₹20,000/month", Deadline: deadline("2025-10-15"), Location: "Remote",
			Branches: pq.StringArray{"CSE", "IT"}, PostedDate: day("2025-09-15"),
		},
		{
			ID: 102, Title: "Hardware Engineer Intern", EmployerID: 6, Company: "ChipMakers Inc",
			Description: "Design and test embedded systems and PCB layouts. Gain hands-on experience with VHDL programming and hardware debugging in a state-of-the-art laboratory.",
			Skills:      pq.StringArray{"VHDL", "PCB Design", "Embedded Systems", "C++"},
			Stipend:     "₹18,000/month", Deadline: deadline("2025-10-20"), Location: "Bangalore",
			Branches: pq.StringArray{"ECE", "EEE"}, PostedDate: day("2025-09-20"),
		},
		{
			ID: 103, Title: "Data Science Intern", EmployerID: 7, Company: "DataFlow Analytics",
			Description: "Analyze large datasets and build machine learning models. Work with Python, pandas, and scikit-learn to derive insights from real-world data.",
			Skills:      pq.StringArray{"Python", "Machine Learning", "SQL", "Statistics"},
			Stipend:     "₹25,000/month", Deadline: deadline("2025-10-25"), Location: "Hybrid",
			Branches: pq.StringArray{"CSE", "IT", "Mathematics"}, PostedDate: day("2025-09-22"),
		},
		{
			ID: 104, Title: "Mobile App Developer", EmployerID: 8, Company: "AppCraft Studios",
			Description: "Build mobile applications for iOS and Android platforms. Learn cross-platform development using React Native and Flutter.",
			Skills:      pq.StringArray{"React Native", "Flutter", "Mobile Development", "API Integration"},
			Stipend:     "₹22,000/month", Deadline: deadline("2025-11-01"), Location: "Pune",
			Branches: pq.StringArray{"CSE", "IT"}, PostedDate: day("2025-09-25"),
		},
	}
	for i := range jobs {
		jobs[i].BaseModel = model.BaseModel{CreatedAt: jobs[i].PostedDate, UpdatedAt: jobs[i].PostedDate}
	}

	apps := []model.Application{
		{ID: 1, JobID: 101, StudentID: 1, Status: model.StatusApproved, AppliedDate: day("2025-09-26"),
			MentorNote: "Strong technical skills and good academic record."},
		{ID: 2, JobID: 102, StudentID: 2, Status: model.StatusInterviewScheduled, AppliedDate: day("2025-09-27"),
			MentorNote:    "Excellent hardware knowledge and practical experience.",
			InterviewDate: "2025-10-07", InterviewTime: "14:00"},
		{ID: 3, JobID: 103, StudentID: 1, Status: model.StatusPendingMentor, AppliedDate: day("2025-09-28")},
	}
	for i := range apps {
		apps[i].BaseModel = model.BaseModel{CreatedAt: apps[i].AppliedDate, UpdatedAt: apps[i].AppliedDate}
	}

	notifications := []model.Notification{
		{ID: 1, UserID: 1, Message: "Your application for Frontend Developer Intern has been approved",
			Type: model.NotificationSuccess, CreatedAt: at("2025-09-28T10:00:00Z")},
		{ID: 2, UserID: 2, Message: "Interview scheduled for Hardware Engineer Intern on 2025-10-07 at 14:00",
			Type: model.NotificationInfo, CreatedAt: at("2025-09-28T11:00:00Z")},
		{ID: 3, UserID: 2, Message: "New job posting matches your skills: Data Science Intern",
			Type: model.NotificationInfo, Read: true, CreatedAt: at("2025-09-27T15:30:00Z")},
	}

	return Snapshot{
		SchemaVersion: SchemaVersion,
		NextIDs:       NextIDs{Users: 9, Jobs: 105, Applications: 4, Notifications: 4},
		Users:         users,
		Jobs:          jobs,
		Applications:  apps,
		Notifications: notifications,
	}
}
