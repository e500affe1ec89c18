package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	pkgerrors "placement-portal/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// interviewDuration 日历中面试事件的默认时长
const interviewDuration = time.Hour

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// PlacementReport 就业办报表：每个岗位一行，按状态统计申请数；第二张表列出全部申请
	PlacementReport(ctx context.Context) (*bytes.Buffer, string, error)
	// InterviewCalendar 学生已安排的面试导出为 iCalendar
	InterviewCalendar(ctx context.Context, actor Actor) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, clock Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clock, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// PlacementReport — 导出就业报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// Sheet "岗位统计"：岗位 | 公司 | 截止日期 | 各状态申请数 | 合计
// Sheet "申请明细"：申请 id | 学生 | 专业 | 岗位 | 状态 | 申请日期 | 面试时间

func (s *exportService) PlacementReport(ctx context.Context) (*bytes.Buffer, string, error) {
	jobs, err := s.repo.Job.List(ctx, model.JobFilter{})
	if err != nil {
		s.logger.Error("查询岗位失败", zap.Error(err))
		return nil, "", err
	}
	apps, err := s.repo.Application.List(ctx, model.ApplicationFilter{})
	if err != nil {
		s.logger.Error("查询申请失败", zap.Error(err))
		return nil, "", err
	}
	students, err := s.repo.User.List(ctx, model.RoleStudent)
	if err != nil {
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, "", err
	}

	studentByID := make(map[int64]*model.User, len(students))
	for i := range students {
		studentByID[students[i].ID] = &students[i]
	}
	jobByID := make(map[int64]*model.Job, len(jobs))
	for i := range jobs {
		jobByID[jobs[i].ID] = &jobs[i]
	}
	counts := make(map[int64]map[model.ApplicationStatus]int)
	for _, a := range apps {
		if counts[a.JobID] == nil {
			counts[a.JobID] = make(map[model.ApplicationStatus]int)
		}
		counts[a.JobID][a.Status]++
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 1. 岗位统计
	summary := "岗位统计"
	idx, _ := f.NewSheet(summary)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	header := []interface{}{"岗位", "公司", "截止日期"}
	for _, st := range model.AllStatuses {
		header = append(header, string(st))
	}
	header = append(header, "合计")
	f.SetSheetRow(summary, "A1", &header)
	f.SetCellStyle(summary, "A1", cell(colName(len(header)-1), 1), headerStyle)
	f.SetColWidth(summary, "A", "B", 28)
	f.SetColWidth(summary, "C", "C", 14)

	loc := s.clock.Location
	for i, j := range jobs {
		row := []interface{}{j.Title, j.Company, j.Deadline.In(loc).Format(model.DateLayout)}
		total := 0
		for _, st := range model.AllStatuses {
			n := counts[j.ID][st]
			total += n
			row = append(row, n)
		}
		row = append(row, total)
		f.SetSheetRow(summary, cell("A", i+2), &row)
	}

	// 2. 申请明细
	detail := "申请明细"
	f.NewSheet(detail)
	detailHeader := []interface{}{"申请 ID", "学生", "专业", "岗位", "公司", "状态", "申请日期", "面试日期", "面试时间", "导师意见"}
	f.SetSheetRow(detail, "A1", &detailHeader)
	f.SetCellStyle(detail, "A1", cell(colName(len(detailHeader)-1), 1), headerStyle)
	f.SetColWidth(detail, "B", "E", 24)
	f.SetColWidth(detail, "J", "J", 40)

	for i, a := range apps {
		var studentName, branch, title, company string
		if st := studentByID[a.StudentID]; st != nil {
			studentName, branch = st.Name, st.Branch
		}
		if j := jobByID[a.JobID]; j != nil {
			title, company = j.Title, j.Company
		}
		row := []interface{}{
			a.ID, studentName, branch, title, company, string(a.Status),
			a.AppliedDate.In(loc).Format(model.DateLayout), a.InterviewDate, a.InterviewTime, a.MentorNote,
		}
		f.SetSheetRow(detail, cell("A", i+2), &row)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("placement_report_%s.xlsx", s.clock.now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// InterviewCalendar — 导出学生面试日程为 .ics
// ═══════════════════════════════════════════════════════════

func (s *exportService) InterviewCalendar(ctx context.Context, actor Actor) (*bytes.Buffer, string, error) {
	if actor.Role != model.RoleStudent {
		return nil, "", pkgerrors.ErrForbidden
	}

	apps, err := s.repo.Application.List(ctx, model.ApplicationFilter{
		StudentID: actor.UserID,
		Status:    model.StatusInterviewScheduled,
	})
	if err != nil {
		s.logger.Error("查询面试失败", zap.Int64("student_id", actor.UserID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//placement-portal//interviews//EN")
	cal.SetXWRCalName("Placement interviews")
	cal.SetXWRTimezone(s.clock.Location.String())

	stamp := s.clock.now().UTC()
	for _, a := range apps {
		start, err := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, a.InterviewDate+" "+a.InterviewTime, s.clock.Location)
		if err != nil {
			s.logger.Warn("面试时间无法解析，跳过", zap.Int64("application_id", a.ID), zap.Error(err))
			continue
		}

		summary := "Interview"
		var location string
		if job, err := s.repo.Job.GetByID(ctx, a.JobID); err == nil {
			summary = fmt.Sprintf("Interview: %s (%s)", job.Title, job.Company)
			location = job.Location
		}

		event := cal.AddEvent(fmt.Sprintf("application-%d@placement-portal", a.ID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(interviewDuration))
		event.SetSummary(summary)
		if location != "" {
			event.SetLocation(location)
		}
		if a.MentorNote != "" {
			event.SetDescription(a.MentorNote)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("interviews_%d.ics", actor.UserID), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
