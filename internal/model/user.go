package model

import "github.com/lib/pq"

// Role 用户角色（封闭集合）
type Role string

const (
	RoleStudent          Role = "student"
	RoleMentor           Role = "mentor"
	RolePlacementOfficer Role = "placement_officer"
	RoleEmployer         Role = "employer"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleMentor, RolePlacementOfficer, RoleEmployer:
		return true
	}
	return false
}

// User 用户表 — 对应 users
// 角色相关字段可选：学生填 branch/semester/skills，雇主填 company
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name         string         `gorm:"type:varchar(100);not null"      json:"name"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Role         Role           `gorm:"type:varchar(20);not null;index" json:"role"`
	PasswordHash string         `gorm:"type:varchar(255)"               json:"password_hash,omitempty"`
	Branch       string         `gorm:"type:varchar(50)"                json:"branch,omitempty"`
	Semester     int            `gorm:"not null;default:0"              json:"semester,omitempty"`
	Skills       pq.StringArray `gorm:"type:text[]"                     json:"skills,omitempty"`
	Company      string         `gorm:"type:varchar(200)"               json:"company,omitempty"`
	ResumeURL    string         `gorm:"type:varchar(500)"               json:"resume_url,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
