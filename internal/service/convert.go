package service

import (
	"time"

	"placement-portal/backend/internal/dto"
	"placement-portal/backend/internal/lifecycle"
	"placement-portal/backend/internal/model"
)

// ── model → dto 转换 ──

func toUserResponse(u *model.User) dto.UserResponse {
	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Branch:    u.Branch,
		Semester:  u.Semester,
		Skills:    skills,
		Company:   u.Company,
		ResumeURL: u.ResumeURL,
		CreatedAt: u.CreatedAt,
	}
}

func toJobResponse(j *model.Job, now time.Time) dto.JobResponse {
	return dto.JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		EmployerID:  j.EmployerID,
		Company:     j.Company,
		Description: j.Description,
		Skills:      append([]string{}, j.Skills...),
		Stipend:     j.Stipend,
		Deadline:    j.Deadline,
		Location:    j.Location,
		Branches:    append([]string{}, j.Branches...),
		PostedDate:  j.PostedDate,
		IsOpen:      j.IsOpen(now),
	}
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// actionNames 当前操作者在该申请上可执行的动作
func actionNames(app *model.Application, job *model.Job, actor Actor) []string {
	names := []string{}
	for _, a := range lifecycle.ActionsFor(app.Status, actor.Role) {
		if !ownsTarget(a, app, job, actor) {
			continue
		}
		names = append(names, string(a))
	}
	return names
}

// ownsTarget 雇主只能对自己岗位的申请发 offer，学生只能接受自己的 offer
func ownsTarget(action lifecycle.Action, app *model.Application, job *model.Job, actor Actor) bool {
	switch {
	case action == lifecycle.ActionMakeOffer && actor.Role == model.RoleEmployer:
		return job != nil && job.EmployerID == actor.UserID
	case action == lifecycle.ActionAcceptOffer:
		return app.StudentID == actor.UserID
	}
	return true
}
