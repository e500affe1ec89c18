package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"placement-portal/backend/internal/model"
)

// JobRepository 岗位数据访问接口
type JobRepository interface {
	// Create 校验必填字段后写入，缺失字段以 ValidationError 返回
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id int64) (*model.Job, error)
	// List 按发布时间倒序（同一时间按 id 倒序）
	List(ctx context.Context, filter model.JobFilter) ([]model.Job, error)
	// ListOpenFor 面向某专业、截止时间未过的岗位
	ListOpenFor(ctx context.Context, branch string, now time.Time) ([]model.Job, error)
	Count(ctx context.Context) (int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *model.Job) error {
	job.Skills = model.NormalizeList(job.Skills)
	job.Branches = model.NormalizeList(job.Branches)
	if err := job.Validate(); err != nil {
		return err
	}
	if job.PostedDate.IsZero() {
		job.PostedDate = time.Now()
	}
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *jobRepo) List(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	db := r.db.WithContext(ctx).Model(&model.Job{})
	if filter.EmployerID != 0 {
		db = db.Where("employer_id = ?", filter.EmployerID)
	}
	if filter.Branch != "" {
		db = db.Where("? = ANY(branches)", filter.Branch)
	}
	if filter.OpenAt != nil {
		db = db.Where("deadline >= ?", *filter.OpenAt)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + kw + "%"
		db = db.Where(
			"title ILIKE ? OR company ILIKE ? OR EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE s ILIKE ?)",
			like, like, like,
		)
	}

	var jobs []model.Job
	if err := db.Order("posted_date DESC, id DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepo) ListOpenFor(ctx context.Context, branch string, now time.Time) ([]model.Job, error) {
	return r.List(ctx, model.JobFilter{Branch: branch, OpenAt: &now})
}

func (r *jobRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Job{}).Count(&n).Error
	return n, err
}
