// Package lifecycle 定义申请状态机：角色动作 → 状态流转 + 需要发出的通知。
// 这里只有纯函数，不访问存储；调用方负责落库与发送通知。
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"placement-portal/backend/internal/model"
	pkgerrors "placement-portal/backend/pkg/errors"
)

// Action 角色对申请执行的动作
type Action string

const (
	ActionApply             Action = "apply"
	ActionMentorApprove     Action = "mentor_approve"
	ActionMentorReject      Action = "mentor_reject"
	ActionScheduleInterview Action = "schedule_interview"
	ActionMakeOffer         Action = "make_offer"
	ActionAcceptOffer       Action = "accept_offer"
)

const (
	// DefaultApproveNote 导师未填写备注时的默认通过意见
	DefaultApproveNote = "Application approved by mentor"
	// DefaultRejectNote 导师未填写备注时的默认拒绝意见
	DefaultRejectNote = "Application rejected by mentor"
)

type rule struct {
	actors []model.Role
	from   model.ApplicationStatus
	to     model.ApplicationStatus
}

// apply 没有起始状态，单独由 Submit 处理
var rules = map[Action]rule{
	ActionApply:             {actors: []model.Role{model.RoleStudent}, to: model.StatusPendingMentor},
	ActionMentorApprove:     {actors: []model.Role{model.RoleMentor}, from: model.StatusPendingMentor, to: model.StatusApproved},
	ActionMentorReject:      {actors: []model.Role{model.RoleMentor}, from: model.StatusPendingMentor, to: model.StatusRejected},
	ActionScheduleInterview: {actors: []model.Role{model.RolePlacementOfficer}, from: model.StatusApproved, to: model.StatusInterviewScheduled},
	ActionMakeOffer:         {actors: []model.Role{model.RoleEmployer, model.RolePlacementOfficer}, from: model.StatusInterviewScheduled, to: model.StatusOfferMade},
	ActionAcceptOffer:       {actors: []model.Role{model.RoleStudent}, from: model.StatusOfferMade, to: model.StatusOfferAccepted},
}

// actionOrder 固定顺序，保证 ActionsFrom 结果稳定
var actionOrder = []Action{
	ActionApply,
	ActionMentorApprove,
	ActionMentorReject,
	ActionScheduleInterview,
	ActionMakeOffer,
	ActionAcceptOffer,
}

// Known 是否为已定义的动作
func (a Action) Known() bool {
	_, ok := rules[a]
	return ok
}

// Target 动作的目标状态
func (a Action) Target() model.ApplicationStatus {
	return rules[a].to
}

// Input 动作附带的参数
type Input struct {
	Note          string    // mentor_approve / mentor_reject
	InterviewDate string    // schedule_interview，YYYY-MM-DD
	InterviewTime string    // schedule_interview，HH:MM 或 h:MM AM/PM
	JobTitle      string    // 用于通知文案
	Today         time.Time // 面试日期不得早于这一天（按调用方时区的零点）
}

// Notice 流转后需要发给某个用户的通知
type Notice struct {
	UserID  int64
	Message string
	Type    model.NotificationType
}

// Outcome 一次流转的结果：待写入的补丁与可选的通知
type Outcome struct {
	Patch  model.ApplicationPatch
	Notice *Notice
}

// Authorize 检查角色是否可以执行动作
func Authorize(action Action, role model.Role) error {
	r, ok := rules[action]
	if !ok {
		return fmt.Errorf("未知动作 %q: %w", action, pkgerrors.ErrInvalidTransition)
	}
	for _, a := range r.actors {
		if a == role {
			return nil
		}
	}
	return fmt.Errorf("角色 %s 不能执行 %s: %w", role, action, pkgerrors.ErrForbidden)
}

// Submit 学生提交申请时产生的通知
func Submit(studentID int64, jobTitle string) *Notice {
	return &Notice{
		UserID:  studentID,
		Message: fmt.Sprintf("Application submitted for %s", jobTitle),
		Type:    model.NotificationSuccess,
	}
}

// Transition 计算在 app 上执行 action 的结果，不修改 app
// 先校验状态，再校验参数；失败时 app 状态保持不变
func Transition(app *model.Application, action Action, in Input) (*Outcome, error) {
	r, ok := rules[action]
	if !ok || action == ActionApply {
		return nil, fmt.Errorf("动作 %q 不能作用于已存在的申请: %w", action, pkgerrors.ErrInvalidTransition)
	}
	if app.Status != r.from {
		return nil, fmt.Errorf("申请 %d 当前状态 %s 不能执行 %s: %w",
			app.ID, app.Status, action, pkgerrors.ErrInvalidTransition)
	}

	from, to := r.from, r.to
	out := &Outcome{Patch: model.ApplicationPatch{Status: &to, ExpectStatus: &from}}

	switch action {
	case ActionMentorApprove:
		note := noteOr(in.Note, DefaultApproveNote)
		out.Patch.MentorNote = &note
		out.Notice = notice(app.StudentID, model.NotificationSuccess,
			"Your application for %s has been approved", in.JobTitle)

	case ActionMentorReject:
		note := noteOr(in.Note, DefaultRejectNote)
		out.Patch.MentorNote = &note
		out.Notice = notice(app.StudentID, model.NotificationError,
			"Your application for %s has been rejected", in.JobTitle)

	case ActionScheduleInterview:
		date, tm, err := validateInterview(in)
		if err != nil {
			return nil, err
		}
		out.Patch.InterviewDate = &date
		out.Patch.InterviewTime = &tm
		out.Notice = &Notice{
			UserID:  app.StudentID,
			Message: fmt.Sprintf("Interview scheduled for %s on %s at %s", in.JobTitle, date, tm),
			Type:    model.NotificationInfo,
		}

	case ActionMakeOffer:
		out.Notice = notice(app.StudentID, model.NotificationSuccess,
			"You have received an offer for %s", in.JobTitle)

	case ActionAcceptOffer:
		// 学生自己接受 offer，不发通知
	}
	return out, nil
}

// ActionsFrom 列出某状态下可执行的动作（不含 apply）
func ActionsFrom(status model.ApplicationStatus) []Action {
	var out []Action
	for _, a := range actionOrder {
		if a == ActionApply {
			continue
		}
		if rules[a].from == status {
			out = append(out, a)
		}
	}
	return out
}

// ActionsFor 列出某角色在该状态下可执行的动作
func ActionsFor(status model.ApplicationStatus, role model.Role) []Action {
	var out []Action
	for _, a := range ActionsFrom(status) {
		if Authorize(a, role) == nil {
			out = append(out, a)
		}
	}
	return out
}

func validateInterview(in Input) (string, string, error) {
	verr := pkgerrors.NewValidationError()

	var date string
	if strings.TrimSpace(in.InterviewDate) == "" {
		verr.Add("interview_date")
	} else {
		d, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(in.InterviewDate), locOf(in.Today))
		switch {
		case err != nil:
			verr.Add("interview_date")
		case !in.Today.IsZero() && d.Before(in.Today):
			verr.Add("interview_date")
		default:
			date = d.Format(model.DateLayout)
		}
	}

	var tm string
	if strings.TrimSpace(in.InterviewTime) == "" {
		verr.Add("interview_time")
	} else if t, err := model.ParseInterviewTime(in.InterviewTime); err != nil {
		verr.Add("interview_time")
	} else {
		tm = t
	}

	if err := verr.OrNil(); err != nil {
		return "", "", err
	}
	return date, tm, nil
}

func locOf(t time.Time) *time.Location {
	if t.IsZero() {
		return time.UTC
	}
	return t.Location()
}

func noteOr(note, fallback string) string {
	if n := strings.TrimSpace(note); n != "" {
		return n
	}
	return fallback
}

func notice(userID int64, typ model.NotificationType, format, title string) *Notice {
	return &Notice{UserID: userID, Message: fmt.Sprintf(format, title), Type: typ}
}
