//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	"placement-portal/backend/pkg/database"
	pkgerrors "placement-portal/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=placement_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 部分唯一索引只能由迁移脚本创建
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "数据库迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupTestData 创建一名学生、一名雇主和一个开放岗位，返回清理函数
func setupTestData(t *testing.T, repo *repository.Repository) (student, employer *model.User, job *model.Job, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	student = &model.User{Name: "测试学生", Email: fmt.Sprintf("student%d@test.edu", suffix), Role: model.RoleStudent, Branch: "CSE"}
	if err := repo.User.Create(ctx, student); err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}
	employer = &model.User{Name: "测试雇主", Email: fmt.Sprintf("employer%d@test.com", suffix), Role: model.RoleEmployer, Company: "TestCorp"}
	if err := repo.User.Create(ctx, employer); err != nil {
		t.Fatalf("创建雇主失败: %v", err)
	}
	job = &model.Job{
		Title: "Integration Intern", EmployerID: employer.ID, Company: "TestCorp",
		Description: "db", Skills: []string{"SQL"}, Stipend: "₹10,000/month",
		Deadline: time.Now().Add(72 * time.Hour), Location: "Remote",
		Branches: []string{"CSE", "IT"},
	}
	if err := repo.Job.Create(ctx, job); err != nil {
		t.Fatalf("创建岗位失败: %v", err)
	}

	cleanup = func() {
		testDB.Exec("DELETE FROM notifications WHERE user_id IN (?, ?)", student.ID, employer.ID)
		testDB.Exec("DELETE FROM applications WHERE job_id = ?", job.ID)
		testDB.Exec("DELETE FROM jobs WHERE id = ?", job.ID)
		testDB.Exec("DELETE FROM users WHERE id IN (?, ?)", student.ID, employer.ID)
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: 申请唯一性
// ═══════════════════════════════════════════════════════════

func TestApplication_DuplicateRejected(t *testing.T) {
	repo := repository.NewRepository(testDB)
	student, _, job, cleanup := setupTestData(t, repo)
	defer cleanup()
	ctx := context.Background()

	first := &model.Application{JobID: job.ID, StudentID: student.ID}
	if err := repo.Application.Create(ctx, first); err != nil {
		t.Fatalf("首次申请失败: %v", err)
	}
	if first.Status != model.StatusPendingMentor {
		t.Errorf("新申请应为 pending_mentor，实际=%s", first.Status)
	}

	err := repo.Application.Create(ctx, &model.Application{JobID: job.ID, StudentID: student.ID})
	if !errors.Is(err, pkgerrors.ErrDuplicateApplication) {
		t.Fatalf("重复申请应返回 ErrDuplicateApplication，实际=%v", err)
	}

	// 被拒绝后可重新申请
	rejected := model.StatusRejected
	expect := model.StatusPendingMentor
	if _, err := repo.Application.Update(ctx, first.ID, model.ApplicationPatch{Status: &rejected, ExpectStatus: &expect}); err != nil {
		t.Fatalf("拒绝申请失败: %v", err)
	}
	if err := repo.Application.Create(ctx, &model.Application{JobID: job.ID, StudentID: student.ID}); err != nil {
		t.Errorf("被拒绝后应可重新申请: %v", err)
	}
}

func TestApplication_ConcurrentCreate(t *testing.T) {
	repo := repository.NewRepository(testDB)
	student, _, job, cleanup := setupTestData(t, repo)
	defer cleanup()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Application.Create(context.Background(), &model.Application{JobID: job.ID, StudentID: student.ID})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, pkgerrors.ErrDuplicateApplication) {
				t.Errorf("并发申请返回了意外错误: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("并发申请应恰好成功 1 次，实际=%d", succeeded)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 条件更新
// ═══════════════════════════════════════════════════════════

func TestApplication_UpdateExpectStatus(t *testing.T) {
	repo := repository.NewRepository(testDB)
	student, _, job, cleanup := setupTestData(t, repo)
	defer cleanup()
	ctx := context.Background()

	app := &model.Application{JobID: job.ID, StudentID: student.ID}
	if err := repo.Application.Create(ctx, app); err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}

	approved := model.StatusApproved
	pending := model.StatusPendingMentor
	note := "ok"
	updated, err := repo.Application.Update(ctx, app.ID, model.ApplicationPatch{Status: &approved, MentorNote: &note, ExpectStatus: &pending})
	if err != nil {
		t.Fatalf("条件更新失败: %v", err)
	}
	if updated.Status != model.StatusApproved || updated.MentorNote != "ok" {
		t.Errorf("更新结果不符: %+v", updated)
	}

	// 前置状态已变化
	_, err = repo.Application.Update(ctx, app.ID, model.ApplicationPatch{Status: &approved, ExpectStatus: &pending})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("前置状态不符应返回 ErrOptimisticLock，实际=%v", err)
	}

	_, err = repo.Application.Update(ctx, -1, model.ApplicationPatch{Status: &approved})
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("申请不存在应返回 ErrNotFound，实际=%v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 岗位查询
// ═══════════════════════════════════════════════════════════

func TestJob_ListOpenFor(t *testing.T) {
	repo := repository.NewRepository(testDB)
	_, _, job, cleanup := setupTestData(t, repo)
	defer cleanup()
	ctx := context.Background()

	jobs, err := repo.Job.ListOpenFor(ctx, "IT", time.Now())
	if err != nil {
		t.Fatalf("ListOpenFor 失败: %v", err)
	}
	found := false
	for _, j := range jobs {
		if j.ID == job.ID {
			found = true
		}
		if !j.IsOpen(time.Now()) || !j.EligibleFor("IT") {
			t.Errorf("返回了不符合条件的岗位: %d", j.ID)
		}
	}
	if !found {
		t.Error("开放的 IT 岗位应出现在结果中")
	}

	jobs, _ = repo.Job.ListOpenFor(ctx, "IT", time.Now().Add(96*time.Hour))
	for _, j := range jobs {
		if j.ID == job.ID {
			t.Error("截止后的岗位不应出现")
		}
	}

	byKeyword, err := repo.Job.List(ctx, model.JobFilter{Keyword: "sql", EmployerID: job.EmployerID})
	if err != nil || len(byKeyword) != 1 {
		t.Errorf("关键字应匹配技能: n=%d err=%v", len(byKeyword), err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 通知
// ═══════════════════════════════════════════════════════════

func TestNotification_ReadFlags(t *testing.T) {
	repo := repository.NewRepository(testDB)
	student, _, _, cleanup := setupTestData(t, repo)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n := &model.Notification{UserID: student.ID, Message: fmt.Sprintf("m%d", i), Type: model.NotificationInfo}
		if err := repo.Notification.Create(ctx, n); err != nil {
			t.Fatalf("创建通知失败: %v", err)
		}
	}

	recent, _ := repo.Notification.Recent(ctx, student.ID, 2)
	if len(recent) != 2 || recent[0].Message != "m2" {
		t.Errorf("最近通知应按时间倒序: %+v", recent)
	}
	if err := repo.Notification.MarkRead(ctx, recent[0].ID); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}
	if n, _ := repo.Notification.UnreadCount(ctx, student.ID); n != 2 {
		t.Errorf("期望未读 2，实际=%d", n)
	}
	if updated, _ := repo.Notification.MarkAllRead(ctx, student.ID); updated != 2 {
		t.Errorf("期望更新 2 条，实际=%d", updated)
	}
}

func TestUser_EmailUnique(t *testing.T) {
	repo := repository.NewRepository(testDB)
	student, _, _, cleanup := setupTestData(t, repo)
	defer cleanup()

	dup := &model.User{Name: "dup", Email: student.Email, Role: model.RoleMentor}
	if err := repo.User.Create(context.Background(), dup); !errors.Is(err, pkgerrors.ErrEmailTaken) {
		t.Errorf("重复邮箱应返回 ErrEmailTaken，实际=%v", err)
		if dup.ID != 0 {
			testDB.Exec("DELETE FROM users WHERE id = ?", dup.ID)
		}
	}
}
