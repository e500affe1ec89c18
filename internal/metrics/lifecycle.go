package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 流转结果标签
const (
	ResultOK       = "ok"
	ResultRejected = "rejected" // 状态、权限或参数不满足
	ResultConflict = "conflict" // 重复申请或并发修改
	ResultError    = "error"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placement",
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "申请状态流转次数（按动作与结果）。",
		},
		[]string{"action", "result"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "placement",
			Subsystem: "lifecycle",
			Name:      "notifications_total",
			Help:      "流转产生的通知数量（按类型）。",
		},
		[]string{"type"},
	)
)

// ObserveTransition 记录一次流转尝试
func ObserveTransition(action, result string) {
	transitionsTotal.WithLabelValues(action, result).Inc()
}

// ObserveNotification 记录一条新通知
func ObserveNotification(typ string) {
	notificationsTotal.WithLabelValues(typ).Inc()
}
