package handler

import (
	"github.com/gin-gonic/gin"

	"placement-portal/backend/internal/dto"
	"placement-portal/backend/internal/service"
	"placement-portal/backend/pkg/response"
)

// JobHandler 岗位模块 HTTP 处理器
type JobHandler struct {
	jobSvc service.JobService
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(jobSvc service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// CreateJob 发布岗位（雇主）
// POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, job)
}

// ListJobs 岗位列表
// GET /api/v1/jobs?branch=CSE&keyword=react&open_only=true
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.JobListRequest
	if !bindQuery(c, &req) {
		return
	}

	jobs, err := h.jobSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKList(c, jobs, len(jobs))
}

// ListOpenJobs 当前仍可申请的岗位；学生不传 branch 时使用本人专业
// GET /api/v1/jobs/open?branch=CSE
func (h *JobHandler) ListOpenJobs(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	jobs, err := h.jobSvc.ListOpenFor(c.Request.Context(), actor, c.Query("branch"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKList(c, jobs, len(jobs))
}

// GetJob 岗位详情
// GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, job)
}
