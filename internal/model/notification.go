package model

import "time"

// NotificationType 通知类型
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Valid 是否为已知类型
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}

// Notification 通知消息表 — 对应 notifications
// 只由申请状态流转产生，创建后仅 read 字段可变
type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"          json:"id"`
	UserID    int64            `gorm:"not null;index"                    json:"user_id"`
	Message   string           `gorm:"type:text;not null"                json:"message"`
	Type      NotificationType `gorm:"type:varchar(10);not null"         json:"type"`
	Read      bool             `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time        `gorm:"not null;index"                    json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
