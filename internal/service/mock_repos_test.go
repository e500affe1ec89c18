package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"placement-portal/backend/config"
	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
	"placement-portal/backend/internal/repository/memory"
	"placement-portal/backend/pkg/jwt"
)

// ── 测试时钟：2025-10-01 10:00 IST ──

var testLoc = time.FixedZone("IST", 5*3600+1800)

var testNow = time.Date(2025, 10, 1, 10, 0, 0, 0, testLoc)

func testClock() Clock {
	return Clock{Now: func() time.Time { return testNow }, Location: testLoc}
}

// ── Mock Publisher ──

type mockPublisher struct {
	mu       sync.Mutex
	messages map[int64][]interface{}
	err      error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{messages: make(map[int64][]interface{})}
}

func (m *mockPublisher) PublishNotification(_ context.Context, userID int64, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages[userID] = append(m.messages[userID], payload)
	return nil
}

func (m *mockPublisher) count(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages[userID])
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{tokens: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.tokens[jti] = ttl
	return nil
}

// ── 写入必定失败的 NotificationRepository ──

var errNotificationStore = errors.New("通知存储不可用")

type failingNotificationRepo struct {
	repository.NotificationRepository
}

func (failingNotificationRepo) Create(context.Context, *model.Notification) error {
	return errNotificationStore
}

// ── 测试环境 ──

type fixture struct {
	student   *model.User
	student2  *model.User
	mentor    *model.User
	officer   *model.User
	employer  *model.User
	employer2 *model.User
	job       *model.Job // 雇主 employer 的岗位，面向 CSE
	closedJob *model.Job // 已截止
}

type testEnv struct {
	store     *memory.Store
	repo      *repository.Repository
	publisher *mockPublisher
	fx        fixture

	notifications NotificationService
	applications  ApplicationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore(memory.WithClock(func() time.Time { return testNow }))
	repo := memory.NewRepository(store)
	env := &testEnv{store: store, repo: repo, publisher: newMockPublisher()}
	env.fx = seedFixture(t, repo)
	env.wire(repo)
	return env
}

func (e *testEnv) wire(repo *repository.Repository) {
	logger := zap.NewNop()
	e.notifications = NewNotificationService(repo, e.publisher, 5, logger)
	e.applications = NewApplicationService(repo, e.notifications, testClock(), logger)
}

func actorOf(u *model.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func seedFixture(t *testing.T, repo *repository.Repository) fixture {
	t.Helper()
	ctx := context.Background()

	mustUser := func(u *model.User) *model.User {
		if err := repo.User.Create(ctx, u); err != nil {
			t.Fatalf("创建用户失败: %v", err)
		}
		return u
	}
	mustJob := func(j *model.Job) *model.Job {
		if err := repo.Job.Create(ctx, j); err != nil {
			t.Fatalf("创建岗位失败: %v", err)
		}
		return j
	}

	var fx fixture
	fx.student = mustUser(&model.User{Name: "Aarav Gupta", Email: "aarav@student.edu", Role: model.RoleStudent, Branch: "CSE", Semester: 6})
	fx.student2 = mustUser(&model.User{Name: "Neha Sharma", Email: "neha@student.edu", Role: model.RoleStudent, Branch: "ECE", Semester: 7})
	fx.mentor = mustUser(&model.User{Name: "Dr. Rajesh Kumar", Email: "rajesh@mentor.edu", Role: model.RoleMentor, Branch: "CSE"})
	fx.officer = mustUser(&model.User{Name: "Prof. Sunita Verma", Email: "sunita@placement.edu", Role: model.RolePlacementOfficer})
	fx.employer = mustUser(&model.User{Name: "Amit Singh", Email: "amit@techcorp.com", Role: model.RoleEmployer, Company: "TechCorp Solutions"})
	fx.employer2 = mustUser(&model.User{Name: "Sarah Wilson", Email: "sarah@chipmakers.com", Role: model.RoleEmployer, Company: "ChipMakers Inc"})

	fx.job = mustJob(&model.Job{
		Title: "Frontend Developer Intern", EmployerID: fx.employer.ID, Company: "TechCorp Solutions",
		Description: "React work", Skills: []string{"React", "TypeScript"}, Stipend: "₹20,000/month",
		Deadline: model.EndOfDay(time.Date(2025, 10, 15, 0, 0, 0, 0, testLoc), testLoc), Location: "Remote",
		Branches: []string{"CSE", "IT"}, PostedDate: time.Date(2025, 9, 15, 0, 0, 0, 0, testLoc),
	})
	fx.closedJob = mustJob(&model.Job{
		Title: "Closed Role", EmployerID: fx.employer2.ID, Company: "ChipMakers Inc",
		Description: "late", Skills: []string{"VHDL"}, Stipend: "₹18,000/month",
		Deadline: model.EndOfDay(time.Date(2025, 9, 30, 0, 0, 0, 0, testLoc), testLoc), Location: "Bangalore",
		Branches: []string{"CSE", "ECE"}, PostedDate: time.Date(2025, 9, 1, 0, 0, 0, 0, testLoc),
	})
	return fx
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-at-least-16-chars",
		AccessTokenTTL: time.Hour,
	})
}
