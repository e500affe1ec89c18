package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"placement-portal/backend/internal/model"
	pkgerrors "placement-portal/backend/pkg/errors"
)

// ApplicationRepository 申请数据访问接口
type ApplicationRepository interface {
	// Create 同一学生对同一岗位已有未被拒绝的申请时返回 ErrDuplicateApplication
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id int64) (*model.Application, error)
	// Update 合并补丁并返回更新后的记录；ExpectStatus 不符时返回 ErrOptimisticLock
	Update(ctx context.Context, id int64, patch model.ApplicationPatch) (*model.Application, error)
	// List 按 id 升序（即提交顺序）
	List(ctx context.Context, filter model.ApplicationFilter) ([]model.Application, error)
	CountByStatus(ctx context.Context, filter model.ApplicationFilter) (map[model.ApplicationStatus]int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	app.Status = model.StatusPendingMentor
	if app.AppliedDate.IsZero() {
		app.AppliedDate = time.Now()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Application{}).
			Where("job_id = ? AND student_id = ? AND status <> ?", app.JobID, app.StudentID, model.StatusRejected).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return pkgerrors.ErrDuplicateApplication
		}
		return tx.Create(app).Error
	})
	// 并发提交由 uq_applications_active 部分唯一索引兜底
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicateApplication
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *applicationRepo) Update(ctx context.Context, id int64, patch model.ApplicationPatch) (*model.Application, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var updated model.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Application{}).Where("id = ?", id)
		if patch.ExpectStatus != nil {
			q = q.Where("status = ?", *patch.ExpectStatus)
		}
		cols := patch.Columns()
		cols["updated_at"] = time.Now()

		result := q.Updates(cols)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.Application{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return pkgerrors.ErrNotFound
			}
			return pkgerrors.ErrOptimisticLock
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

func (r *applicationRepo) scoped(ctx context.Context, filter model.ApplicationFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Application{})
	if filter.StudentID != 0 {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.JobID != 0 {
		db = db.Where("job_id = ?", filter.JobID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployerID != 0 {
		owned := r.db.Model(&model.Job{}).Select("id").Where("employer_id = ?", filter.EmployerID)
		db = db.Where("job_id IN (?)", owned)
	}
	return db
}

func (r *applicationRepo) List(ctx context.Context, filter model.ApplicationFilter) ([]model.Application, error) {
	var apps []model.Application
	if err := r.scoped(ctx, filter).Order("id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepo) CountByStatus(ctx context.Context, filter model.ApplicationFilter) (map[model.ApplicationStatus]int64, error) {
	var rows []struct {
		Status model.ApplicationStatus
		Count  int64
	}
	if err := r.scoped(ctx, filter).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
