package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_IsAndAs(t *testing.T) {
	verr := NewValidationError("title", "skills")
	wrapped := fmt.Errorf("创建岗位: %w", verr)

	if !errors.Is(wrapped, ErrValidation) {
		t.Error("包装后的 ValidationError 应匹配 ErrValidation")
	}

	var got *ValidationError
	if !errors.As(wrapped, &got) {
		t.Fatal("errors.As 应取回 *ValidationError")
	}
	if len(got.Fields) != 2 || got.Fields[0] != "title" || got.Fields[1] != "skills" {
		t.Errorf("字段列表不符: %v", got.Fields)
	}
	if got.Error() != "参数校验失败: title, skills" {
		t.Errorf("错误信息不符: %s", got.Error())
	}
}

func TestValidationError_OrNil(t *testing.T) {
	verr := NewValidationError()
	if verr.OrNil() != nil {
		t.Error("无字段时 OrNil 应返回 nil")
	}

	verr.Add("deadline")
	if err := verr.OrNil(); err == nil {
		t.Error("有字段时 OrNil 应返回错误")
	}
}

func TestValidationError_NotOtherKinds(t *testing.T) {
	verr := NewValidationError("date")
	if errors.Is(verr, ErrNotFound) {
		t.Error("ValidationError 不应匹配 ErrNotFound")
	}
}
