package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"placement-portal/backend/internal/model"
)

// SchemaVersion 当前快照格式版本
const SchemaVersion = 1

// Snapshot 持久化到磁盘的完整数据集
// 只做增量字段变更；旧版本缺失的字段按零值读入，未知字段忽略
type Snapshot struct {
	SchemaVersion int                  `json:"schema_version"`
	SavedAt       time.Time            `json:"saved_at"`
	NextIDs       NextIDs              `json:"next_ids"`
	Users         []model.User         `json:"users"`
	Jobs          []model.Job          `json:"jobs"`
	Applications  []model.Application  `json:"applications"`
	Notifications []model.Notification `json:"notifications"`
}

// Export 复制当前数据集，各列表按 id 升序
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		SavedAt:       s.now(),
		NextIDs:       s.state.next,
		Users:         sortedValues(s.state.users, nil),
		Jobs:          sortedValues(s.state.jobs, nil),
		Applications:  sortedValues(s.state.applications, nil),
		Notifications: sortedValues(s.state.notifications, nil),
	}
	for i := range snap.Users {
		snap.Users[i] = cloneUser(snap.Users[i])
	}
	for i := range snap.Jobs {
		snap.Jobs[i] = cloneJob(snap.Jobs[i])
	}
	return snap
}

// Import 用快照整体替换当前数据集
// 计数器取 max(快照计数器, 最大 id + 1)，保证 id 不会被复用
func (s *Store) Import(snap Snapshot) error {
	version := snap.SchemaVersion
	if version == 0 {
		version = 1
	}
	if version > SchemaVersion {
		return fmt.Errorf("快照版本 %d 高于支持的版本 %d", snap.SchemaVersion, SchemaVersion)
	}

	st := newState()
	for _, u := range snap.Users {
		if !u.Role.Valid() {
			return fmt.Errorf("快照中用户 %d 的角色 %q 非法", u.ID, u.Role)
		}
		st.users[u.ID] = cloneUser(u)
	}
	for _, j := range snap.Jobs {
		st.jobs[j.ID] = cloneJob(j)
	}
	for _, a := range snap.Applications {
		if !a.Status.Valid() {
			return fmt.Errorf("快照中申请 %d 的状态 %q 非法", a.ID, a.Status)
		}
		st.applications[a.ID] = a
	}
	for _, n := range snap.Notifications {
		st.notifications[n.ID] = n
	}

	st.next = NextIDs{
		Users:         max(snap.NextIDs.Users, maxKey(st.users)+1),
		Jobs:          max(snap.NextIDs.Jobs, maxKey(st.jobs)+1),
		Applications:  max(snap.NextIDs.Applications, maxKey(st.applications)+1),
		Notifications: max(snap.NextIDs.Notifications, maxKey(st.notifications)+1),
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// Load 从文件加载快照；文件不存在时返回 false 且不修改 Store
func (s *Store) Load(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("读取快照失败: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false, fmt.Errorf("解析快照失败: %w", err)
	}
	if err := s.Import(snap); err != nil {
		return false, err
	}
	return true, nil
}

// Save 原子写入快照：先写同目录临时文件再 rename
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建快照目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入快照失败: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("写入快照失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入快照失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("替换快照文件失败: %w", err)
	}
	return nil
}
