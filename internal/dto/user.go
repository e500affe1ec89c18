package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Role string `form:"role" binding:"omitempty,oneof=student mentor placement_officer employer"`
}

// UpdateProfileRequest 编辑个人资料，nil 字段保持不变
type UpdateProfileRequest struct {
	Name      *string  `json:"name"       binding:"omitempty,min=2,max=100"`
	Branch    *string  `json:"branch"     binding:"omitempty,max=50"`
	Semester  *int     `json:"semester"   binding:"omitempty,min=1,max=12"`
	Skills    []string `json:"skills"     binding:"omitempty,max=50,dive,max=50"`
	Company   *string  `json:"company"    binding:"omitempty,max=200"`
	ResumeURL *string  `json:"resume_url" binding:"omitempty,max=500"`
}
