package dto

// RecentNotificationsRequest 最近通知查询参数，limit 缺省取配置值
type RecentNotificationsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
