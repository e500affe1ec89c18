// Package memory 内存存储驱动：四个 Repository 共享一个加锁的 Store，
// 通过版本化 JSON 快照在启动时加载、退出时保存。
package memory

import (
	"slices"
	"sync"
	"time"

	"github.com/lib/pq"

	"placement-portal/backend/internal/model"
	"placement-portal/backend/internal/repository"
)

// NextIDs 各实体下一个可分配的 id，只增不减
type NextIDs struct {
	Users         int64 `json:"users"`
	Jobs          int64 `json:"jobs"`
	Applications  int64 `json:"applications"`
	Notifications int64 `json:"notifications"`
}

type state struct {
	users         map[int64]model.User
	jobs          map[int64]model.Job
	applications  map[int64]model.Application
	notifications map[int64]model.Notification
	next          NextIDs
}

func newState() state {
	return state{
		users:         make(map[int64]model.User),
		jobs:          make(map[int64]model.Job),
		applications:  make(map[int64]model.Application),
		notifications: make(map[int64]model.Notification),
		next:          NextIDs{Users: 1, Jobs: 1, Applications: 1, Notifications: 1},
	}
}

// Store 进程内的权威数据集，所有操作在同一把锁下串行执行
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
}

// Option Store 构造选项
type Option func(*Store)

// WithClock 替换时间来源（测试使用）
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.nowFn = fn }
}

// NewStore 创建空的内存 Store
func NewStore(opts ...Option) *Store {
	s := &Store{
		state: newState(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRepository 基于 Store 构建 Repository 聚合
func NewRepository(s *Store) *repository.Repository {
	return &repository.Repository{
		User:         &userRepo{s: s},
		Job:          &jobRepo{s: s},
		Application:  &applicationRepo{s: s},
		Notification: &notificationRepo{s: s},
	}
}

// Empty 是否没有任何数据
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.users) == 0 && len(s.state.jobs) == 0 &&
		len(s.state.applications) == 0 && len(s.state.notifications) == 0
}

func (s *Store) now() time.Time {
	return s.nowFn()
}

func take(counter *int64) int64 {
	id := *counter
	*counter++
	return id
}

// sortedValues 按 id 升序返回 map 中满足 keep 的值
func sortedValues[T any](m map[int64]T, keep func(*T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v := m[id]
		if keep == nil || keep(&v) {
			out = append(out, v)
		}
	}
	return out
}

func maxKey[T any](m map[int64]T) int64 {
	var top int64
	for id := range m {
		top = max(top, id)
	}
	return top
}

// ── 深拷贝，避免调用方改动共享底层数组 ──

func cloneStrings(in pq.StringArray) pq.StringArray {
	if in == nil {
		return nil
	}
	return append(pq.StringArray(nil), in...)
}

func cloneUser(u model.User) model.User {
	u.Skills = cloneStrings(u.Skills)
	return u
}

func cloneJob(j model.Job) model.Job {
	j.Skills = cloneStrings(j.Skills)
	j.Branches = cloneStrings(j.Branches)
	return j
}
