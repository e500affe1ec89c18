package model

import (
	"testing"
	"time"
)

func TestParseApplicationStatus(t *testing.T) {
	st, ok := ParseApplicationStatus(" Interview_Scheduled ")
	if !ok || st != StatusInterviewScheduled {
		t.Errorf("期望解析为 interview_scheduled，实际=%s ok=%v", st, ok)
	}
	if _, ok := ParseApplicationStatus("hired"); ok {
		t.Error("未知状态不应解析成功")
	}
}

func TestApplicationStatus_ActiveAndTerminal(t *testing.T) {
	for _, st := range AllStatuses {
		if st == StatusRejected {
			if st.Active() {
				t.Error("rejected 不应视为进行中")
			}
			continue
		}
		if !st.Active() {
			t.Errorf("%s 应视为进行中", st)
		}
	}
	if !StatusOfferAccepted.Terminal() || !StatusRejected.Terminal() {
		t.Error("offer_accepted 与 rejected 应为终态")
	}
	if StatusApproved.Terminal() {
		t.Error("approved 不应为终态")
	}
}

func TestApplicationPatch_ApplyTo(t *testing.T) {
	app := &Application{Status: StatusApproved, MentorNote: "keep"}
	st := StatusInterviewScheduled
	date, tm := "2025-10-05", "10:00"
	patch := ApplicationPatch{Status: &st, InterviewDate: &date, InterviewTime: &tm}

	patch.ApplyTo(app)

	if app.Status != StatusInterviewScheduled {
		t.Errorf("期望 status=interview_scheduled，实际=%s", app.Status)
	}
	if app.MentorNote != "keep" {
		t.Error("未包含在补丁中的字段不应改变")
	}
	if app.InterviewDate != date || app.InterviewTime != tm {
		t.Errorf("面试时间未合并: %s %s", app.InterviewDate, app.InterviewTime)
	}

	cols := patch.Columns()
	if len(cols) != 3 || cols["status"] != "interview_scheduled" {
		t.Errorf("Columns 不符: %v", cols)
	}
	if (ApplicationPatch{}).IsEmpty() != true {
		t.Error("空补丁应返回 IsEmpty=true")
	}
}

func TestApplicationFilter_Match(t *testing.T) {
	app := &Application{JobID: 101, StudentID: 1, Status: StatusPendingMentor}
	owner := func(jobID int64) int64 {
		if jobID == 101 {
			return 5
		}
		return 0
	}

	cases := []struct {
		name string
		f    ApplicationFilter
		want bool
	}{
		{"空条件", ApplicationFilter{}, true},
		{"学生匹配", ApplicationFilter{StudentID: 1}, true},
		{"学生不匹配", ApplicationFilter{StudentID: 2}, false},
		{"状态不匹配", ApplicationFilter{Status: StatusApproved}, false},
		{"雇主匹配", ApplicationFilter{EmployerID: 5}, true},
		{"雇主不匹配", ApplicationFilter{EmployerID: 6}, false},
	}
	for _, tc := range cases {
		if got := tc.f.Match(app, owner); got != tc.want {
			t.Errorf("%s: 期望 %v，实际 %v", tc.name, tc.want, got)
		}
	}
}

func TestParseDeadline_DateOnlyIsEndOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d, err := ParseDeadline("2025-10-15", loc)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	job := &Job{Deadline: d}
	lastMinute := time.Date(2025, 10, 15, 23, 59, 0, 0, loc)
	nextDay := time.Date(2025, 10, 16, 0, 0, 0, 0, loc)
	if !job.IsOpen(lastMinute) {
		t.Error("截止日当天最后一分钟仍应开放")
	}
	if job.IsOpen(nextDay) {
		t.Error("截止日次日零点应关闭")
	}

	if _, err := ParseDeadline("15/10/2025", loc); err == nil {
		t.Error("非法日期应报错")
	}
}

func TestParseInterviewTime(t *testing.T) {
	cases := map[string]string{
		"10:00":    "10:00",
		"2:00 PM":  "14:00",
		"10:00 am": "10:00",
	}
	for in, want := range cases {
		got, err := ParseInterviewTime(in)
		if err != nil {
			t.Errorf("%q 解析失败: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("%q 期望 %s，实际 %s", in, want, got)
		}
	}
	if _, err := ParseInterviewTime("noon"); err == nil {
		t.Error("非法时间应报错")
	}
}

func TestJobFilter(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	job := &Job{
		Title:      "Frontend Developer Intern",
		Company:    "TechCorp Solutions",
		EmployerID: 5,
		Skills:     []string{"React", "TypeScript"},
		Branches:   []string{"CSE", "IT"},
		Deadline:   now.Add(24 * time.Hour),
	}

	if !(JobFilter{Branch: "CSE", Keyword: "typescript"}).Match(job) {
		t.Error("技能关键字应不区分大小写命中")
	}
	if (JobFilter{Branch: "ECE"}).Match(job) {
		t.Error("不在可申请专业中不应命中")
	}
	later := now.Add(48 * time.Hour)
	if (JobFilter{OpenAt: &later}).Match(job) {
		t.Error("截止后不应命中 OpenAt 条件")
	}
	if got := NormalizeList([]string{" React", "React", "", "Go"}); len(got) != 2 || got[0] != "React" || got[1] != "Go" {
		t.Errorf("NormalizeList 结果不符: %v", got)
	}
}

func TestJob_Validate(t *testing.T) {
	err := (&Job{Title: "Intern", Skills: []string{" "}}).Validate()
	if err == nil {
		t.Fatal("缺少字段应返回错误")
	}
	want := "参数校验失败: description, stipend, location, deadline, skills, branches"
	if err.Error() != want {
		t.Errorf("期望 %q，实际 %q", want, err.Error())
	}

	ok := &Job{
		Title: "Intern", Description: "d", Stipend: "10k", Location: "Remote",
		Deadline: time.Now(), Skills: []string{"Go"}, Branches: []string{"CSE"},
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("完整岗位不应报错: %v", err)
	}
}
