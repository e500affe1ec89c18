package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"placement-portal/backend/internal/service"
	pkgerrors "placement-portal/backend/pkg/errors"
	"placement-portal/backend/pkg/response"
)

// 业务错误码
const (
	CodeValidation        = 10001
	CodeUnauthorized      = 10002
	CodeForbidden         = 10003
	CodeInvalidCredential = 11001
	CodeEmailTaken        = 11002
	CodeNotFound          = 20001
	CodeDuplicate         = 20002
	CodeInvalidTransition = 20003
	CodeDeadlinePassed    = 20004
	CodeOptimisticLock    = 20005
	CodeExportFailed      = 16101
)

// handleError 将业务错误映射为统一响应
func handleError(c *gin.Context, err error) {
	var verr *pkgerrors.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, verr.Error(), gin.H{"fields": verr.Fields})
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, CodeNotFound, "记录不存在")
	case errors.Is(err, pkgerrors.ErrDuplicateApplication):
		response.Conflict(c, CodeDuplicate, "已存在进行中的申请")
	case errors.Is(err, pkgerrors.ErrInvalidTransition):
		response.Conflict(c, CodeInvalidTransition, "申请状态不允许此操作")
	case errors.Is(err, pkgerrors.ErrDeadlinePassed):
		response.BadRequest(c, CodeDeadlinePassed, "岗位已过截止日期")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, CodeForbidden, "无权执行此操作")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, CodeOptimisticLock, "数据已被其他操作修改，请刷新后重试")
	case errors.Is(err, pkgerrors.ErrEmailTaken):
		response.Conflict(c, CodeEmailTaken, "邮箱已被注册")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, CodeInvalidCredential, "邮箱、角色或密码错误")
	case errors.Is(err, service.ErrExportGenerateFail):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, CodeExportFailed, "生成导出文件失败")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
