package service

import (
	"context"

	"go.uber.org/zap"

	"placement-portal/backend/internal/dto"
	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	pkgerrors "placement-portal/backend/pkg/errors"
)

const dashboardRecentItems = 5

// DashboardService 按角色汇总的仪表盘
type DashboardService interface {
	Stats(ctx context.Context, actor Actor) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, clock Clock, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, clock: clock, logger: logger}
}

func (s *dashboardService) Stats(ctx context.Context, actor Actor) (*dto.DashboardResponse, error) {
	var (
		filter model.ApplicationFilter
		recent model.ApplicationFilter
	)
	switch actor.Role {
	case model.RoleStudent:
		filter.StudentID = actor.UserID
		recent = filter
	case model.RoleEmployer:
		filter.EmployerID = actor.UserID
		recent = filter
	case model.RoleMentor:
		recent.Status = model.StatusPendingMentor
	case model.RolePlacementOfficer:
		recent.Status = model.StatusApproved
	default:
		return nil, pkgerrors.ErrForbidden
	}

	counts, err := s.repo.Application.CountByStatus(ctx, filter)
	if err != nil {
		s.logger.Error("统计申请状态失败", zap.Int64("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}

	resp := &dto.DashboardResponse{Role: string(actor.Role)}
	switch actor.Role {
	case model.RoleStudent:
		resp.Stats = map[string]int64{
			"total_applications": total,
			"approved":           counts[model.StatusApproved] + counts[model.StatusInterviewScheduled],
			"pending":            counts[model.StatusPendingMentor],
			"interviews":         counts[model.StatusInterviewScheduled],
			"offers":             counts[model.StatusOfferMade] + counts[model.StatusOfferAccepted],
		}
	case model.RoleMentor:
		resp.Stats = map[string]int64{
			"pending_approvals": counts[model.StatusPendingMentor],
			"approved":          total - counts[model.StatusPendingMentor] - counts[model.StatusRejected],
			"rejected":          counts[model.StatusRejected],
		}
	case model.RolePlacementOfficer:
		jobs, err := s.repo.Job.Count(ctx)
		if err != nil {
			return nil, err
		}
		resp.Stats = map[string]int64{
			"total_jobs":           jobs,
			"total_applications":   total,
			"awaiting_interview":   counts[model.StatusApproved],
			"interviews_scheduled": counts[model.StatusInterviewScheduled],
			"offers_made":          counts[model.StatusOfferMade],
			"placed":               counts[model.StatusOfferAccepted],
		}
	case model.RoleEmployer:
		jobs, err := s.repo.Job.List(ctx, model.JobFilter{EmployerID: actor.UserID})
		if err != nil {
			return nil, err
		}
		resp.Stats = map[string]int64{
			"job_postings": int64(len(jobs)),
			"applications": total,
			"pending":      counts[model.StatusPendingMentor] + counts[model.StatusApproved],
			"interviews":   counts[model.StatusInterviewScheduled],
			"offers":       counts[model.StatusOfferMade] + counts[model.StatusOfferAccepted],
		}
		now := s.clock.now()
		for i := range jobs {
			if i == dashboardRecentItems {
				break
			}
			resp.RecentJobs = append(resp.RecentJobs, toJobResponse(&jobs[i], now))
		}
	}

	// 最近的申请（学生/雇主为自己的，导师为待审批，就业办为待安排面试），新提交的在前
	apps, err := s.repo.Application.List(ctx, recent)
	if err != nil {
		return nil, err
	}
	start := max(len(apps)-dashboardRecentItems, 0)
	latest := make([]model.Application, 0, len(apps)-start)
	for i := len(apps) - 1; i >= start; i-- {
		latest = append(latest, apps[i])
	}
	if resp.RecentApplications, err = enrichApplications(ctx, s.repo, latest, actor); err != nil {
		return nil, err
	}

	if resp.UnreadCount, err = s.repo.Notification.UnreadCount(ctx, actor.UserID); err != nil {
		return nil, err
	}
	return resp, nil
}
