package model

import (
	"strings"
	"time"
)

// ApplicationStatus 申请状态（封闭集合），只能经由 lifecycle 包定义的流转改变
type ApplicationStatus string

const (
	StatusPendingMentor      ApplicationStatus = "pending_mentor"
	StatusApproved           ApplicationStatus = "approved"
	StatusRejected           ApplicationStatus = "rejected"
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	StatusOfferMade          ApplicationStatus = "offer_made"
	StatusOfferAccepted      ApplicationStatus = "offer_accepted"
)

// AllStatuses 按流程顺序列出全部状态
var AllStatuses = []ApplicationStatus{
	StatusPendingMentor,
	StatusApproved,
	StatusRejected,
	StatusInterviewScheduled,
	StatusOfferMade,
	StatusOfferAccepted,
}

// Valid 是否为已知状态
func (s ApplicationStatus) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Active 未被拒绝的申请视为进行中，同一学生对同一岗位至多一条
func (s ApplicationStatus) Active() bool {
	return s != StatusRejected
}

// Terminal 终态不再有后续流转
func (s ApplicationStatus) Terminal() bool {
	return s == StatusRejected || s == StatusOfferAccepted
}

// ParseApplicationStatus 解析外部传入的状态字符串
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	st := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Application 申请表 — 对应 applications
type Application struct {
	ID            int64             `gorm:"primaryKey;autoIncrement"                           json:"id"`
	JobID         int64             `gorm:"not null;index"                                     json:"job_id"`
	StudentID     int64             `gorm:"not null;index"                                     json:"student_id"`
	Status        ApplicationStatus `gorm:"type:varchar(30);not null;default:'pending_mentor'" json:"status"`
	AppliedDate   time.Time         `gorm:"not null"                                           json:"applied_date"`
	MentorNote    string            `gorm:"type:text"                                          json:"mentor_note,omitempty"`
	InterviewDate string            `gorm:"type:varchar(10)"                                   json:"interview_date,omitempty"`
	InterviewTime string            `gorm:"type:varchar(10)"                                   json:"interview_time,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }

// ApplicationPatch 申请的局部更新，nil 字段保持不变
type ApplicationPatch struct {
	Status        *ApplicationStatus
	MentorNote    *string
	InterviewDate *string
	InterviewTime *string

	// ExpectStatus 非空时仅当记录当前状态与之相同才更新（比较并交换），否则返回乐观锁冲突
	ExpectStatus *ApplicationStatus
}

// IsEmpty 是否没有任何待更新字段
func (p ApplicationPatch) IsEmpty() bool {
	return p.Status == nil && p.MentorNote == nil && p.InterviewDate == nil && p.InterviewTime == nil
}

// ApplyTo 将补丁合并到记录上
func (p ApplicationPatch) ApplyTo(app *Application) {
	if p.Status != nil {
		app.Status = *p.Status
	}
	if p.MentorNote != nil {
		app.MentorNote = *p.MentorNote
	}
	if p.InterviewDate != nil {
		app.InterviewDate = *p.InterviewDate
	}
	if p.InterviewTime != nil {
		app.InterviewTime = *p.InterviewTime
	}
}

// Columns 转换为 GORM Updates 使用的列映射
func (p ApplicationPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.MentorNote != nil {
		cols["mentor_note"] = *p.MentorNote
	}
	if p.InterviewDate != nil {
		cols["interview_date"] = *p.InterviewDate
	}
	if p.InterviewTime != nil {
		cols["interview_time"] = *p.InterviewTime
	}
	return cols
}

// ApplicationFilter 申请查询条件，零值字段表示不限
type ApplicationFilter struct {
	StudentID  int64
	JobID      int64
	EmployerID int64 // 仅返回该雇主名下岗位的申请
	Status     ApplicationStatus
}

// Match 判断申请是否满足条件；EmployerID 需要岗位归属信息，由调用方通过 jobOwner 提供
func (f ApplicationFilter) Match(app *Application, jobOwner func(jobID int64) int64) bool {
	if f.StudentID != 0 && app.StudentID != f.StudentID {
		return false
	}
	if f.JobID != 0 && app.JobID != f.JobID {
		return false
	}
	if f.Status != "" && app.Status != f.Status {
		return false
	}
	if f.EmployerID != 0 && (jobOwner == nil || jobOwner(app.JobID) != f.EmployerID) {
		return false
	}
	return true
}
