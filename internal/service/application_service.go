package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"placement-portal/backend/internal/dto"
	"placement-portal/backend/internal/lifecycle"
	"placement-portal/backend/internal/metrics"
	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	pkgerrors "placement-portal/backend/pkg/errors"
)

// ApplicationService 申请生命周期业务接口
// 每个写操作：鉴权 → 状态机计算 → 条件更新 → 发送通知
type ApplicationService interface {
	Apply(ctx context.Context, actor Actor, jobID int64) (*dto.ApplicationResponse, error)
	MentorApprove(ctx context.Context, actor Actor, id int64, note string) (*dto.ApplicationResponse, error)
	MentorReject(ctx context.Context, actor Actor, id int64, note string) (*dto.ApplicationResponse, error)
	ScheduleInterview(ctx context.Context, actor Actor, id int64, req *dto.ScheduleInterviewRequest) (*dto.ApplicationResponse, error)
	MakeOffer(ctx context.Context, actor Actor, id int64) (*dto.ApplicationResponse, error)
	AcceptOffer(ctx context.Context, actor Actor, id int64) (*dto.ApplicationResponse, error)

	GetByID(ctx context.Context, actor Actor, id int64) (*dto.ApplicationResponse, error)
	// List 学生只能看到自己的申请，雇主只能看到自己岗位的申请
	List(ctx context.Context, actor Actor, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, error)
}

type applicationService struct {
	repo          *repository.Repository
	notifications NotificationService
	clock         Clock
	logger        *zap.Logger
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(
	repo *repository.Repository,
	notifications NotificationService,
	clock Clock,
	logger *zap.Logger,
) ApplicationService {
	return &applicationService{
		repo:          repo,
		notifications: notifications,
		clock:         clock,
		logger:        logger,
	}
}

// ────────────────────── Apply ──────────────────────

func (s *applicationService) Apply(ctx context.Context, actor Actor, jobID int64) (resp *dto.ApplicationResponse, err error) {
	action := lifecycle.ActionApply
	defer func() { observe(action, err) }()

	if err := lifecycle.Authorize(action, actor.Role); err != nil {
		return nil, err
	}

	job, err := s.repo.Job.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("岗位 %d: %w", jobID, err)
	}
	if !job.IsOpen(s.clock.now()) {
		return nil, fmt.Errorf("岗位 %d 已于 %s 截止: %w", job.ID, job.Deadline.Format(model.DateLayout), pkgerrors.ErrDeadlinePassed)
	}

	app := &model.Application{
		JobID:       job.ID,
		StudentID:   actor.UserID,
		AppliedDate: s.clock.now(),
	}
	if err := s.repo.Application.Create(ctx, app); err != nil {
		if !errors.Is(err, pkgerrors.ErrDuplicateApplication) {
			s.logger.Error("创建申请失败", zap.Int64("job_id", job.ID), zap.Int64("student_id", actor.UserID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("申请已提交",
		zap.Int64("application_id", app.ID),
		zap.Int64("job_id", job.ID),
		zap.Int64("student_id", actor.UserID),
	)
	s.notify(ctx, app.ID, lifecycle.Submit(actor.UserID, job.Title))

	return s.respond(ctx, app, job, actor)
}

// ────────────────────── Transitions ──────────────────────

func (s *applicationService) MentorApprove(ctx context.Context, actor Actor, id int64, note string) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, actor, id, lifecycle.ActionMentorApprove, lifecycle.Input{Note: note})
}

func (s *applicationService) MentorReject(ctx context.Context, actor Actor, id int64, note string) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, actor, id, lifecycle.ActionMentorReject, lifecycle.Input{Note: note})
}

func (s *applicationService) ScheduleInterview(ctx context.Context, actor Actor, id int64, req *dto.ScheduleInterviewRequest) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, actor, id, lifecycle.ActionScheduleInterview, lifecycle.Input{
		InterviewDate: req.InterviewDate,
		InterviewTime: req.InterviewTime,
	})
}

func (s *applicationService) MakeOffer(ctx context.Context, actor Actor, id int64) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, actor, id, lifecycle.ActionMakeOffer, lifecycle.Input{})
}

func (s *applicationService) AcceptOffer(ctx context.Context, actor Actor, id int64) (*dto.ApplicationResponse, error) {
	return s.transition(ctx, actor, id, lifecycle.ActionAcceptOffer, lifecycle.Input{})
}

func (s *applicationService) transition(ctx context.Context, actor Actor, id int64, action lifecycle.Action, in lifecycle.Input) (resp *dto.ApplicationResponse, err error) {
	defer func() { observe(action, err) }()

	// 1. 角色
	if err := lifecycle.Authorize(action, actor.Role); err != nil {
		return nil, err
	}

	// 2. 加载申请与岗位，校验归属
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("申请 %d: %w", id, err)
	}
	job, err := s.repo.Job.GetByID(ctx, app.JobID)
	if err != nil {
		s.logger.Error("查询申请所属岗位失败", zap.Int64("application_id", id), zap.Int64("job_id", app.JobID), zap.Error(err))
		return nil, err
	}
	if !ownsTarget(action, app, job, actor) {
		return nil, fmt.Errorf("用户 %d 不能对申请 %d 执行 %s: %w", actor.UserID, id, action, pkgerrors.ErrForbidden)
	}

	// 3. 状态机
	in.JobTitle = job.Title
	in.Today = s.clock.today()
	out, err := lifecycle.Transition(app, action, in)
	if err != nil {
		return nil, err
	}

	// 4. 以原状态为前提的条件更新，并发修改时返回 ErrOptimisticLock
	updated, err := s.repo.Application.Update(ctx, id, out.Patch)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新申请状态失败", zap.Int64("application_id", id), zap.String("action", string(action)), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("申请状态流转",
		zap.Int64("application_id", id),
		zap.String("action", string(action)),
		zap.String("from", string(app.Status)),
		zap.String("to", string(updated.Status)),
		zap.Int64("actor_id", actor.UserID),
	)

	// 5. 通知
	if out.Notice != nil {
		s.notify(ctx, id, out.Notice)
	}

	return s.respond(ctx, updated, job, actor)
}

// notify 通知写入失败只记录日志：状态已提交，不回滚
func (s *applicationService) notify(ctx context.Context, applicationID int64, notice *lifecycle.Notice) {
	if _, err := s.notifications.Notify(ctx, notice); err != nil {
		s.logger.Error("写入通知失败",
			zap.Int64("application_id", applicationID),
			zap.Int64("user_id", notice.UserID),
			zap.Error(err),
		)
	}
}

func observe(action lifecycle.Action, err error) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, pkgerrors.ErrDuplicateApplication), errors.Is(err, pkgerrors.ErrOptimisticLock):
		result = metrics.ResultConflict
	case errors.Is(err, pkgerrors.ErrInvalidTransition), errors.Is(err, pkgerrors.ErrForbidden),
		errors.Is(err, pkgerrors.ErrValidation), errors.Is(err, pkgerrors.ErrDeadlinePassed),
		errors.Is(err, pkgerrors.ErrNotFound):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	metrics.ObserveTransition(string(action), result)
}

// ────────────────────── Query ──────────────────────

func (s *applicationService) GetByID(ctx context.Context, actor Actor, id int64) (*dto.ApplicationResponse, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job, err := s.repo.Job.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case model.RoleStudent:
		if app.StudentID != actor.UserID {
			return nil, pkgerrors.ErrForbidden
		}
	case model.RoleEmployer:
		if job.EmployerID != actor.UserID {
			return nil, pkgerrors.ErrForbidden
		}
	}
	return s.respond(ctx, app, job, actor)
}

func (s *applicationService) List(ctx context.Context, actor Actor, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, error) {
	filter := model.ApplicationFilter{
		StudentID: req.StudentID,
		JobID:     req.JobID,
		Status:    model.ApplicationStatus(req.Status),
	}
	switch actor.Role {
	case model.RoleStudent:
		filter.StudentID = actor.UserID
	case model.RoleEmployer:
		filter.EmployerID = actor.UserID
	}

	apps, err := s.repo.Application.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, err
	}
	return s.respondAll(ctx, apps, actor)
}

// ────────────────────── 响应组装 ──────────────────────

func (s *applicationService) respond(ctx context.Context, app *model.Application, job *model.Job, actor Actor) (*dto.ApplicationResponse, error) {
	student, err := s.repo.User.GetByID(ctx, app.StudentID)
	if err != nil && !errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, err
	}
	resp := buildApplicationResponse(app, job, student, actor)
	return &resp, nil
}

func (s *applicationService) respondAll(ctx context.Context, apps []model.Application, actor Actor) ([]dto.ApplicationResponse, error) {
	return enrichApplications(ctx, s.repo, apps, actor)
}

// enrichApplications 批量补全岗位与学生信息，同一 id 只查询一次
func enrichApplications(ctx context.Context, repo *repository.Repository, apps []model.Application, actor Actor) ([]dto.ApplicationResponse, error) {
	jobs := make(map[int64]*model.Job)
	students := make(map[int64]*model.User)

	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		app := &apps[i]

		job, ok := jobs[app.JobID]
		if !ok {
			j, err := repo.Job.GetByID(ctx, app.JobID)
			if err != nil && !errors.Is(err, pkgerrors.ErrNotFound) {
				return nil, err
			}
			job, jobs[app.JobID] = j, j
		}
		student, ok := students[app.StudentID]
		if !ok {
			u, err := repo.User.GetByID(ctx, app.StudentID)
			if err != nil && !errors.Is(err, pkgerrors.ErrNotFound) {
				return nil, err
			}
			student, students[app.StudentID] = u, u
		}

		list = append(list, buildApplicationResponse(app, job, student, actor))
	}
	return list, nil
}

func buildApplicationResponse(app *model.Application, job *model.Job, student *model.User, actor Actor) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:            app.ID,
		JobID:         app.JobID,
		StudentID:     app.StudentID,
		Status:        string(app.Status),
		AppliedDate:   app.AppliedDate,
		MentorNote:    app.MentorNote,
		InterviewDate: app.InterviewDate,
		InterviewTime: app.InterviewTime,
		Actions:       actionNames(app, job, actor),
	}
	if job != nil {
		resp.JobTitle = job.Title
		resp.Company = job.Company
	}
	if student != nil {
		resp.StudentName = student.Name
		resp.StudentBranch = student.Branch
	}
	return resp
}
