package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"placement-portal/backend/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// PlacementReport 导出就业报表（就业办）
// GET /api/v1/export/placement-report
func (h *ExportHandler) PlacementReport(c *gin.Context) {
	buf, filename, err := h.exportSvc.PlacementReport(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	attachment(c, buf, filename, contentTypeXLSX)
}

// InterviewCalendar 导出本人面试日程（学生）
// GET /api/v1/export/interviews.ics
func (h *ExportHandler) InterviewCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.InterviewCalendar(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}
	attachment(c, buf, filename, contentTypeICS)
}

// attachment 设置下载响应头并写入文件内容
func attachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
