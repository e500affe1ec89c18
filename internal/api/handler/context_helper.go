package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"placement-portal/backend/internal/api/middleware"
	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/service"
	"placement-portal/backend/pkg/response"
)

// MustGetActor 从 Gin 上下文中提取当前操作者。
// 如果 JWT 中间件未正确注入身份，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID := c.GetInt64(middleware.ContextUserID)
	role := model.Role(c.GetString(middleware.ContextRole))
	if userID <= 0 || !role.Valid() {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}

// tokenInfo 当前 Token 的 jti 与过期时间，登出时写入黑名单
func tokenInfo(c *gin.Context) (string, time.Time) {
	return c.GetString(middleware.ContextTokenJTI), c.GetTime(middleware.ContextTokenExp)
}

// parseID 解析路径参数中的正整数 id
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, name+" 无效")
		return 0, false
	}
	return id, true
}

// bindJSON 绑定请求体；超出 BodyLimit 时返回 413
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		response.BadRequest(c, 10001, "参数校验失败")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return false
	}
	return true
}
