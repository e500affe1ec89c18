package dto

// ── 岗位模块 DTO ──

// CreateJobRequest 发布岗位请求
// 必填项由服务层统一校验，以便一次返回全部缺失字段
type CreateJobRequest struct {
	Title       string   `json:"title"       binding:"max=200"`
	Description string   `json:"description" binding:"max=5000"`
	Skills      []string `json:"skills"      binding:"max=30,dive,max=50"`
	Stipend     string   `json:"stipend"     binding:"max=100"`
	Deadline    string   `json:"deadline"` // YYYY-MM-DD（当天有效）或 RFC3339
	Location    string   `json:"location"    binding:"max=200"`
	Branches    []string `json:"branches"    binding:"max=30,dive,max=50"`
}

// JobListRequest 岗位列表查询参数
type JobListRequest struct {
	EmployerID int64  `form:"employer_id" binding:"omitempty,min=1"`
	Branch     string `form:"branch"      binding:"omitempty,max=50"`
	Keyword    string `form:"keyword"     binding:"omitempty,max=50"`
	OpenOnly   bool   `form:"open_only"`
}
