package errors

import (
	"errors"
	"strings"
)

// ── 跨层共享的业务错误 ──
// 存储层直接返回这些哨兵错误，Service 层用 %w 包装上下文，Handler 层按 errors.Is 映射为 HTTP 响应

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrDuplicateApplication 同一学生对同一岗位已有未被拒绝的申请
	ErrDuplicateApplication = errors.New("已存在进行中的申请")
	// ErrInvalidTransition 当前申请状态不允许执行该操作
	ErrInvalidTransition = errors.New("申请状态不允许此操作")
	// ErrDeadlinePassed 岗位已过截止日期
	ErrDeadlinePassed = errors.New("岗位已过截止日期")
	// ErrForbidden 当前角色无权执行该操作
	ErrForbidden = errors.New("无权执行此操作")
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("邮箱已被注册")
	// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
	// ErrValidation 参数校验失败，具体字段见 ValidationError
	ErrValidation = errors.New("参数校验失败")
)

// ValidationError 参数校验错误，列出所有缺失或格式错误的字段
type ValidationError struct {
	Fields []string
}

// NewValidationError 创建 ValidationError
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Add 追加一个出错字段
func (e *ValidationError) Add(field string) {
	e.Fields = append(e.Fields, field)
}

// HasErrors 是否存在出错字段
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil 没有出错字段时返回 nil，便于校验函数末尾直接返回
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is 使 errors.Is(err, ErrValidation) 对 *ValidationError 成立
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidation 是否为参数校验错误
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
