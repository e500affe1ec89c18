package dto

import "time"

// ── 认证模块响应 ──

// TokenResponse 登录/注册成功响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏，不含密码哈希）
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Branch    string    `json:"branch,omitempty"`
	Semester  int       `json:"semester,omitempty"`
	Skills    []string  `json:"skills"`
	Company   string    `json:"company,omitempty"`
	ResumeURL string    `json:"resume_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ── 岗位模块响应 ──

// JobResponse 岗位信息
type JobResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	EmployerID  int64     `json:"employer_id"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	Stipend     string    `json:"stipend"`
	Deadline    time.Time `json:"deadline"`
	Location    string    `json:"location"`
	Branches    []string  `json:"branches"`
	PostedDate  time.Time `json:"posted_date"`
	IsOpen      bool      `json:"is_open"`
}

// ── 申请模块响应 ──

// ApplicationResponse 申请详情，附带岗位与学生的展示字段以及当前用户可执行的动作
type ApplicationResponse struct {
	ID            int64     `json:"id"`
	JobID         int64     `json:"job_id"`
	JobTitle      string    `json:"job_title"`
	Company       string    `json:"company"`
	StudentID     int64     `json:"student_id"`
	StudentName   string    `json:"student_name"`
	StudentBranch string    `json:"student_branch,omitempty"`
	Status        string    `json:"status"`
	AppliedDate   time.Time `json:"applied_date"`
	MentorNote    string    `json:"mentor_note,omitempty"`
	InterviewDate string    `json:"interview_date,omitempty"`
	InterviewTime string    `json:"interview_time,omitempty"`
	Actions       []string  `json:"actions"`
}

// ── 通知模块响应 ──

// NotificationResponse 单条通知
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationFeedResponse 通知栏：未读数 + 最近若干条
type NotificationFeedResponse struct {
	Unread int64                  `json:"unread"`
	List   []NotificationResponse `json:"list"`
}

// UnreadCountResponse 未读数
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// MarkAllReadResponse 全部已读结果
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ── 仪表盘响应 ──

// DashboardResponse 按角色汇总的统计信息
type DashboardResponse struct {
	Role               string                `json:"role"`
	Stats              map[string]int64      `json:"stats"`
	RecentApplications []ApplicationResponse `json:"recent_applications"`
	RecentJobs         []JobResponse         `json:"recent_jobs,omitempty"`
	UnreadCount        int64                 `json:"unread_count"`
}
