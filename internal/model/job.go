package model

import (
	"strings"
	"time"

	"github.com/lib/pq"

	pkgerrors "placement-portal/backend/pkg/errors"
)

// Job 岗位表 — 对应 jobs
type Job struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"   json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	EmployerID  int64          `gorm:"not null;index"             json:"employer_id"`
	Company     string         `gorm:"type:varchar(200)"          json:"company"`
	Description string         `gorm:"type:text;not null"         json:"description"`
	Skills      pq.StringArray `gorm:"type:text[];not null"       json:"skills"`
	Stipend     string         `gorm:"type:varchar(100);not null" json:"stipend"`
	Deadline    time.Time      `gorm:"not null;index"             json:"deadline"`
	Location    string         `gorm:"type:varchar(200);not null" json:"location"`
	Branches    pq.StringArray `gorm:"type:text[];not null"       json:"branches"`
	PostedDate  time.Time      `gorm:"not null;index"             json:"posted_date"`
	BaseModel
}

// TableName 指定表名
func (Job) TableName() string { return "jobs" }

// IsOpen 截止时间未过即开放申请
func (j *Job) IsOpen(now time.Time) bool {
	return !j.Deadline.Before(now)
}

// EligibleFor 专业是否在岗位的可申请专业列表中
func (j *Job) EligibleFor(branch string) bool {
	for _, b := range j.Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// Matches 关键字是否命中标题、公司或任一技能（不区分大小写）
func (j *Job) Matches(keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return true
	}
	if strings.Contains(strings.ToLower(j.Title), kw) || strings.Contains(strings.ToLower(j.Company), kw) {
		return true
	}
	for _, s := range j.Skills {
		if strings.Contains(strings.ToLower(s), kw) {
			return true
		}
	}
	return false
}

// Validate 列出所有缺失的必填字段：标题、描述、薪资、地点、截止时间、至少一项技能、至少一个专业
func (j *Job) Validate() error {
	verr := pkgerrors.NewValidationError()
	if strings.TrimSpace(j.Title) == "" {
		verr.Add("title")
	}
	if strings.TrimSpace(j.Description) == "" {
		verr.Add("description")
	}
	if strings.TrimSpace(j.Stipend) == "" {
		verr.Add("stipend")
	}
	if strings.TrimSpace(j.Location) == "" {
		verr.Add("location")
	}
	if j.Deadline.IsZero() {
		verr.Add("deadline")
	}
	if len(NormalizeList(j.Skills)) == 0 {
		verr.Add("skills")
	}
	if len(NormalizeList(j.Branches)) == 0 {
		verr.Add("branches")
	}
	return verr.OrNil()
}

// JobFilter 岗位查询条件，零值字段表示不限
type JobFilter struct {
	EmployerID int64
	Branch     string
	Keyword    string
	OpenAt     *time.Time // 非空时仅返回该时刻仍开放的岗位
}

// Match 岗位是否满足查询条件
func (f JobFilter) Match(j *Job) bool {
	if f.EmployerID != 0 && j.EmployerID != f.EmployerID {
		return false
	}
	if f.Branch != "" && !j.EligibleFor(f.Branch) {
		return false
	}
	if f.OpenAt != nil && !j.IsOpen(*f.OpenAt) {
		return false
	}
	return j.Matches(f.Keyword)
}

// NormalizeList 去除首尾空白、空项与重复项，保持原有顺序
func NormalizeList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
