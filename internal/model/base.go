package model

import (
	"fmt"
	"strings"
	"time"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 日期工具 ──

// DateLayout 纯日期格式（截止日期、面试日期）
const DateLayout = "2006-01-02"

// TimeLayout 面试时间格式（24 小时制）
const TimeLayout = "15:04"

// StartOfDay 返回 t 在 loc 时区当天的零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay 返回 t 在 loc 时区当天的最后一刻
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDeadline 解析岗位截止时间
// 纯日期（2025-10-15）按 loc 时区取当天最后一刻，即截止日当天仍可申请；也接受 RFC3339
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return EndOfDay(d, loc), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析截止日期 %q", s)
	}
	return t, nil
}

// ParseInterviewTime 解析面试时间，接受 "15:04" 与 "3:04 PM"，统一返回 24 小时制字符串
func ParseInterviewTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeLayout, "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("无法解析面试时间 %q", s)
}
