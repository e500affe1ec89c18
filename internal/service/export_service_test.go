package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"placement-portal/backend/internal/model"
	pkgerrors "placement-portal/backend/pkg/errors"
)

func TestExportService_PlacementReport(t *testing.T) {
	svc := NewExportService(newDemoRepo(t), testClock(), zap.NewNop())

	buf, filename, err := svc.PlacementReport(context.Background())
	if err != nil {
		t.Fatalf("PlacementReport 失败: %v", err)
	}
	if filename != "placement_report_20251001.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("岗位统计")
	if err != nil {
		t.Fatalf("读取岗位统计失败: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("期望表头 + 4 个岗位，实际 %d 行", len(rows))
	}
	header := rows[0]
	if header[0] != "岗位" || header[len(header)-1] != "合计" {
		t.Errorf("表头不符: %v", header)
	}

	// 找到 Frontend Developer Intern：1 条 approved
	var frontend []string
	for _, r := range rows[1:] {
		if r[0] == "Frontend Developer Intern" {
			frontend = r
		}
	}
	if frontend == nil {
		t.Fatal("缺少 Frontend Developer Intern 行")
	}
	if frontend[2] != "2025-10-15" {
		t.Errorf("截止日期应按本地日期显示，实际=%s", frontend[2])
	}
	approvedCol := 3
	for i, st := range model.AllStatuses {
		if st == model.StatusApproved {
			approvedCol += i
		}
	}
	if frontend[approvedCol] != "1" || frontend[len(frontend)-1] != "1" {
		t.Errorf("岗位统计不符: %v", frontend)
	}

	detail, err := f.GetRows("申请明细")
	if err != nil {
		t.Fatalf("读取申请明细失败: %v", err)
	}
	if len(detail) != 4 {
		t.Errorf("期望表头 + 3 条申请，实际 %d 行", len(detail))
	}
}

func TestExportService_InterviewCalendar(t *testing.T) {
	svc := NewExportService(newDemoRepo(t), testClock(), zap.NewNop())
	ctx := context.Background()

	buf, filename, err := svc.InterviewCalendar(ctx, Actor{UserID: 2, Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("InterviewCalendar 失败: %v", err)
	}
	if filename != "interviews_2.ics" {
		t.Errorf("文件名不符: %s", filename)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("生成的日历应可解析: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("期望 1 个面试事件，实际=%d", len(events))
	}
	evt := events[0]
	if p := evt.GetProperty(ics.ComponentPropertySummary); p == nil || p.Value != "Interview: Hardware Engineer Intern (ChipMakers Inc)" {
		t.Errorf("事件标题不符: %+v", p)
	}
	// 2025-10-07 14:00 IST = 08:30 UTC
	if p := evt.GetProperty(ics.ComponentPropertyDtStart); p == nil || p.Value != "20251007T083000Z" {
		t.Errorf("开始时间不符: %+v", p)
	}
	if p := evt.GetProperty(ics.ComponentPropertyDtEnd); p == nil || p.Value != "20251007T093000Z" {
		t.Errorf("结束时间不符: %+v", p)
	}

	// 没有面试的学生得到空日历
	buf, _, err = svc.InterviewCalendar(ctx, Actor{UserID: 1, Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("InterviewCalendar 失败: %v", err)
	}
	cal, _ = ics.ParseCalendar(strings.NewReader(buf.String()))
	if len(cal.Events()) != 0 {
		t.Errorf("无面试时不应有事件，实际=%d", len(cal.Events()))
	}

	if _, _, err := svc.InterviewCalendar(ctx, Actor{UserID: 3, Role: model.RoleMentor}); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("非学生导出应返回 ErrForbidden，实际=%v", err)
	}
}
