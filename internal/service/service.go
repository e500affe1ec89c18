package service

import (
	"time"

	"go.uber.org/zap"

	"placement-portal/backend/config"
	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	"placement-portal/backend/pkg/jwt"
	"placement-portal/backend/pkg/redis"
)

// Actor 当前操作者，由 JWT 中间件解析后传入
type Actor struct {
	UserID int64
	Role   model.Role
}

// Clock 业务时间来源；Location 决定“今天”的边界与纯日期截止时间的换算
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock 使用系统时间
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	return c.Now().In(c.Location)
}

func (c Clock) today() time.Time {
	return model.StartOfDay(c.Now(), c.Location)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Job          JobService
	Application  ApplicationService
	Notification NotificationService
	Dashboard    DashboardService
	Export       ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：登出黑名单与通知推送随之降级为空操作
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	clock Clock,
	logger *zap.Logger,
) *Service {
	var publisher Publisher
	var blacklist TokenBlacklist
	if rdb != nil {
		publisher = rdb
		blacklist = rdb
	}

	notification := NewNotificationService(repo, publisher, cfg.Placement.RecentNotifications, logger)
	application := NewApplicationService(repo, notification, clock, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:         NewUserService(repo, logger),
		Job:          NewJobService(repo, clock, logger),
		Application:  application,
		Notification: notification,
		Dashboard:    NewDashboardService(repo, clock, logger),
		Export:       NewExportService(repo, clock, logger),
	}
}
