package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"placement-portal/backend/internal/dto"
	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	pkgerrors "placement-portal/backend/pkg/errors"
)

// JobService 岗位业务接口
type JobService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.JobResponse, error)
	List(ctx context.Context, req *dto.JobListRequest) ([]dto.JobResponse, error)
	// ListOpenFor branch 为空时学生使用本人专业
	ListOpenFor(ctx context.Context, actor Actor, branch string) ([]dto.JobResponse, error)
}

type jobService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewJobService 创建 JobService 实例
func NewJobService(repo *repository.Repository, clock Clock, logger *zap.Logger) JobService {
	return &jobService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *jobService) Create(ctx context.Context, actor Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if actor.Role != model.RoleEmployer {
		return nil, fmt.Errorf("只有雇主可以发布岗位: %w", pkgerrors.ErrForbidden)
	}

	employer, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	company := employer.Company
	if company == "" {
		company = employer.Name
	}

	job := &model.Job{
		Title:       strings.TrimSpace(req.Title),
		EmployerID:  employer.ID,
		Company:     company,
		Description: strings.TrimSpace(req.Description),
		Skills:      req.Skills,
		Stipend:     strings.TrimSpace(req.Stipend),
		Location:    strings.TrimSpace(req.Location),
		Branches:    req.Branches,
		PostedDate:  s.clock.now(),
	}
	// 格式错误的截止日期按缺失处理，与其他缺失字段一并返回
	if strings.TrimSpace(req.Deadline) != "" {
		if d, err := model.ParseDeadline(req.Deadline, s.clock.Location); err == nil {
			job.Deadline = d
		}
	}

	if err := s.repo.Job.Create(ctx, job); err != nil {
		if !pkgerrors.IsValidation(err) {
			s.logger.Error("创建岗位失败", zap.Int64("employer_id", employer.ID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("岗位发布成功", zap.Int64("job_id", job.ID), zap.Int64("employer_id", employer.ID))
	resp := toJobResponse(job, s.clock.now())
	return &resp, nil
}

// ────────────────────── Query ──────────────────────

func (s *jobService) GetByID(ctx context.Context, id int64) (*dto.JobResponse, error) {
	job, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toJobResponse(job, s.clock.now())
	return &resp, nil
}

func (s *jobService) List(ctx context.Context, req *dto.JobListRequest) ([]dto.JobResponse, error) {
	now := s.clock.now()
	filter := model.JobFilter{
		EmployerID: req.EmployerID,
		Branch:     strings.TrimSpace(req.Branch),
		Keyword:    req.Keyword,
	}
	if req.OpenOnly {
		filter.OpenAt = &now
	}

	jobs, err := s.repo.Job.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询岗位列表失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(jobs), nil
}

func (s *jobService) ListOpenFor(ctx context.Context, actor Actor, branch string) ([]dto.JobResponse, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" && actor.Role == model.RoleStudent {
		student, err := s.repo.User.GetByID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		branch = student.Branch
	}
	if branch == "" {
		return nil, pkgerrors.NewValidationError("branch")
	}

	jobs, err := s.repo.Job.ListOpenFor(ctx, branch, s.clock.now())
	if err != nil {
		s.logger.Error("查询开放岗位失败", zap.String("branch", branch), zap.Error(err))
		return nil, err
	}
	return s.toResponses(jobs), nil
}

func (s *jobService) toResponses(jobs []model.Job) []dto.JobResponse {
	now := s.clock.now()
	list := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		list = append(list, toJobResponse(&jobs[i], now))
	}
	return list
}
