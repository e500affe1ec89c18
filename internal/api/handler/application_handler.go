package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"placement-portal/backend/internal/dto"
	"placement-portal/backend/internal/service"
	"placement-portal/backend/pkg/response"
)

// ApplicationHandler 申请模块 HTTP 处理器
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// Apply 学生提交申请
// POST /api/v1/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appSvc.Apply(c.Request.Context(), actor, req.JobID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, app)
}

// ListApplications 申请列表；学生与雇主只能看到自己范围内的申请
// GET /api/v1/applications?status=pending_mentor
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ApplicationListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.appSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetApplication 申请详情
// GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	app, err := h.appSvc.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, app)
}

// ────────────────────── 状态流转 ──────────────────────

// Approve 导师通过
// POST /api/v1/applications/:id/approve
func (h *ApplicationHandler) Approve(c *gin.Context) {
	h.decide(c, h.appSvc.MentorApprove)
}

// Reject 导师拒绝
// POST /api/v1/applications/:id/reject
func (h *ApplicationHandler) Reject(c *gin.Context) {
	h.decide(c, h.appSvc.MentorReject)
}

type decisionFunc func(ctx context.Context, actor service.Actor, id int64, note string) (*dto.ApplicationResponse, error)

func (h *ApplicationHandler) decide(c *gin.Context, fn decisionFunc) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// 备注可省略，允许空请求体
	var req dto.MentorDecisionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	app, err := fn(c.Request.Context(), actor, id, req.Note)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, app)
}

// ScheduleInterview 就业办安排面试
// POST /api/v1/applications/:id/interview
func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ScheduleInterviewRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appSvc.ScheduleInterview(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, app)
}

// MakeOffer 发放 offer（岗位所属雇主或就业办）
// POST /api/v1/applications/:id/offer
func (h *ApplicationHandler) MakeOffer(c *gin.Context) {
	h.act(c, h.appSvc.MakeOffer)
}

// AcceptOffer 学生接受 offer
// POST /api/v1/applications/:id/accept
func (h *ApplicationHandler) AcceptOffer(c *gin.Context) {
	h.act(c, h.appSvc.AcceptOffer)
}

func (h *ApplicationHandler) act(c *gin.Context, fn func(ctx context.Context, actor service.Actor, id int64) (*dto.ApplicationResponse, error)) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	app, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, app)
}
