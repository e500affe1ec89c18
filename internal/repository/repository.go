package repository

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "placement-portal/backend/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
// postgres 实现由 NewRepository 构建，内存实现见 repository/memory
type Repository struct {
	User         UserRepository
	Job          JobRepository
	Application  ApplicationRepository
	Notification NotificationRepository
}

// NewRepository 创建基于 GORM 的 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Job:          NewJobRepo(db),
		Application:  NewApplicationRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// translate 将 GORM 错误映射为业务错误
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.ErrNotFound
	}
	return err
}
