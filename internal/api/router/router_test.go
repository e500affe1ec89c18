package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"placement-portal/backend/config"
	"placement-portal/backend/internal/api/handler"
	"placement-portal/backend/internal/repository/memory"
	"placement-portal/backend/internal/service"
	"placement-portal/backend/pkg/jwt"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type testServer struct {
	engine *gin.Engine
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}}},
		Auth:      config.AuthConfig{JWTSecret: "router-test-secret-1234", AccessTokenTTL: time.Hour},
		Placement: config.PlacementConfig{RecentNotifications: 5},
	}
	now := time.Date(2025, 10, 1, 10, 0, 0, 0, ist)
	clock := service.Clock{Now: func() time.Time { return now }, Location: ist}

	store := memory.NewStore(memory.WithClock(clock.Now))
	if _, err := store.SeedDemo(ist); err != nil {
		t.Fatalf("写入演示数据失败: %v", err)
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, memory.NewRepository(store), jwtMgr, nil, clock, zap.NewNop())
	return &testServer{engine: Setup(cfg, handler.NewHandler(svc), jwtMgr, nil, zap.NewNop())}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func (s *testServer) login(t *testing.T, email, role string) string {
	t.Helper()
	code, env := s.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"email": email, "role": role})
	if code != http.StatusOK {
		t.Fatalf("%s 登录失败: %d %s", email, code, env.Message)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	json.Unmarshal(env.Data, &tok)
	return tok.AccessToken
}

func TestRouter_ApplicationFlow(t *testing.T) {
	s := newTestServer(t)
	student := s.login(t, "aarav@student.edu", "student")
	mentor := s.login(t, "rajesh@mentor.edu", "mentor")
	officer := s.login(t, "sunita@placement.edu", "placement_officer")

	// 学生可申请的岗位：CSE 专业的 101、103、104
	code, env := s.do(t, "GET", "/api/v1/jobs/open", student, nil)
	var open struct {
		Total int `json:"total"`
	}
	json.Unmarshal(env.Data, &open)
	if code != http.StatusOK || open.Total != 3 {
		t.Fatalf("开放岗位不符: code=%d total=%d", code, open.Total)
	}

	// 申请 104
	code, env = s.do(t, "POST", "/api/v1/applications", student, map[string]int64{"job_id": 104})
	if code != http.StatusCreated {
		t.Fatalf("申请应返回 201，实际=%d %s", code, env.Message)
	}
	var app struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	json.Unmarshal(env.Data, &app)
	if app.ID != 4 || app.Status != "pending_mentor" {
		t.Errorf("申请结果不符: %+v", app)
	}

	// 重复申请
	code, env = s.do(t, "POST", "/api/v1/applications", student, map[string]int64{"job_id": 104})
	if code != http.StatusConflict || env.Code != handler.CodeDuplicate {
		t.Errorf("重复申请应返回 409/%d，实际=%d/%d", handler.CodeDuplicate, code, env.Code)
	}

	// 学生不能审批
	if code, _ = s.do(t, "POST", "/api/v1/applications/4/approve", student, nil); code != http.StatusForbidden {
		t.Errorf("学生审批应返回 403，实际=%d", code)
	}
	// 未审批前不能安排面试
	code, env = s.do(t, "POST", "/api/v1/applications/4/interview", officer,
		map[string]string{"interview_date": "2025-10-05", "interview_time": "10:00"})
	if code != http.StatusConflict || env.Code != handler.CodeInvalidTransition {
		t.Errorf("应返回 409/%d，实际=%d/%d", handler.CodeInvalidTransition, code, env.Code)
	}

	if code, env = s.do(t, "POST", "/api/v1/applications/4/approve", mentor, map[string]string{"note": "Good fit"}); code != http.StatusOK {
		t.Fatalf("导师审批失败: %d %s", code, env.Message)
	}
	code, _ = s.do(t, "POST", "/api/v1/applications/4/interview", officer,
		map[string]string{"interview_date": "2025-10-05", "interview_time": "10:00"})
	if code != http.StatusOK {
		t.Fatalf("安排面试失败: %d", code)
	}

	// 学生收到 3 条新通知 + 演示数据中的 1 条
	code, env = s.do(t, "GET", "/api/v1/notifications", student, nil)
	var feed struct {
		Unread int64 `json:"unread"`
		List   []struct {
			Message string `json:"message"`
		} `json:"list"`
	}
	json.Unmarshal(env.Data, &feed)
	if code != http.StatusOK || feed.Unread != 4 {
		t.Fatalf("通知不符: code=%d unread=%d", code, feed.Unread)
	}
	if feed.List[0].Message != "Interview scheduled for Mobile App Developer on 2025-10-05 at 10:00" {
		t.Errorf("最新通知不符: %s", feed.List[0].Message)
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	s := newTestServer(t)

	if code, _ := s.do(t, "GET", "/api/v1/dashboard", "", nil); code != http.StatusUnauthorized {
		t.Errorf("缺少 Token 应返回 401，实际=%d", code)
	}
	if code, _ := s.do(t, "GET", "/api/v1/dashboard", "not-a-token", nil); code != http.StatusUnauthorized {
		t.Errorf("无效 Token 应返回 401，实际=%d", code)
	}

	student := s.login(t, "aarav@student.edu", "student")
	if code, _ := s.do(t, "GET", "/api/v1/dashboard", student, nil); code != http.StatusOK {
		t.Errorf("仪表盘应返回 200，实际=%d", code)
	}
	if code, _ := s.do(t, "GET", "/api/v1/export/placement-report", student, nil); code != http.StatusForbidden {
		t.Errorf("学生导出报表应返回 403，实际=%d", code)
	}
	if code, _ := s.do(t, "POST", "/api/v1/jobs", student, map[string]string{"title": "x"}); code != http.StatusForbidden {
		t.Errorf("学生发布岗位应返回 403，实际=%d", code)
	}
	if code, _ := s.do(t, "POST", "/api/v1/auth/logout", student, nil); code != http.StatusOK {
		t.Errorf("登出应返回 200，实际=%d", code)
	}
}

func TestRouter_LoginRoleMismatch(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"email": "aarav@student.edu", "role": "mentor"})
	if code != http.StatusUnauthorized || env.Code != handler.CodeInvalidCredential {
		t.Errorf("角色不符应返回 401/%d，实际=%d/%d", handler.CodeInvalidCredential, code, env.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s expected 200, got %d", path, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s 响应应带 X-Request-ID", path)
		}
	}
}
