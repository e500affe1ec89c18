package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求：按邮箱 + 角色定位用户，设置过密码的账号需校验密码
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Role     string `json:"role"     binding:"required,oneof=student mentor placement_officer employer"`
	Password string `json:"password" binding:"omitempty,max=64"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string   `json:"name"     binding:"required,min=2,max=100"`
	Email    string   `json:"email"    binding:"required,email"`
	Role     string   `json:"role"     binding:"required,oneof=student mentor placement_officer employer"`
	Password string   `json:"password" binding:"omitempty,min=8,max=64"`
	Branch   string   `json:"branch"   binding:"omitempty,max=50"`
	Semester int      `json:"semester" binding:"omitempty,min=1,max=12"`
	Skills   []string `json:"skills"   binding:"omitempty,max=50,dive,max=50"`
	Company  string   `json:"company"  binding:"omitempty,max=200"`
}
