package dto

// ── 申请模块 DTO ──

// ApplyRequest 学生提交申请
type ApplyRequest struct {
	JobID int64 `json:"job_id" binding:"required,min=1"`
}

// MentorDecisionRequest 导师审批意见，可为空
type MentorDecisionRequest struct {
	Note string `json:"note" binding:"max=1000"`
}

// ScheduleInterviewRequest 安排面试
// 日期与时间都必填，缺失时由状态机返回字段级校验错误
type ScheduleInterviewRequest struct {
	InterviewDate string `json:"interview_date"`
	InterviewTime string `json:"interview_time"`
}

// ApplicationListRequest 申请列表查询参数；学生与雇主的范围由身份决定
type ApplicationListRequest struct {
	StudentID int64  `form:"student_id" binding:"omitempty,min=1"`
	JobID     int64  `form:"job_id"     binding:"omitempty,min=1"`
	Status    string `form:"status"     binding:"omitempty,oneof=pending_mentor approved rejected interview_scheduled offer_made offer_accepted"`
}
