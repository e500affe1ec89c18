package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"placement-portal/backend/internal/model"
	pkgerrors "placement-portal/backend/pkg/errors"
)

// ────── User ──────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.state.users {
		if strings.EqualFold(u.Email, user.Email) {
			return pkgerrors.ErrEmailTaken
		}
	}
	now := r.s.now()
	user.ID = take(&r.s.state.next.Users)
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.state.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.state.users[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.state.users {
		if strings.EqualFold(u.Email, email) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.state.users[user.ID]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	// 邮箱、角色、密码不随资料编辑变化
	cur.Name = user.Name
	cur.Branch = user.Branch
	cur.Semester = user.Semester
	cur.Skills = cloneStrings(user.Skills)
	cur.Company = user.Company
	cur.ResumeURL = user.ResumeURL
	cur.UpdatedAt = r.s.now()
	r.s.state.users[user.ID] = cur
	return nil
}

func (r *userRepo) List(_ context.Context, role model.Role) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := sortedValues(r.s.state.users, func(u *model.User) bool {
		return role == "" || u.Role == role
	})
	for i := range users {
		users[i] = cloneUser(users[i])
	}
	return users, nil
}

// ────── Job ──────

type jobRepo struct{ s *Store }

func (r *jobRepo) Create(_ context.Context, job *model.Job) error {
	job.Skills = model.NormalizeList(job.Skills)
	job.Branches = model.NormalizeList(job.Branches)
	if err := job.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	job.ID = take(&r.s.state.next.Jobs)
	if job.PostedDate.IsZero() {
		job.PostedDate = now
	}
	job.CreatedAt, job.UpdatedAt = now, now
	r.s.state.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (r *jobRepo) GetByID(_ context.Context, id int64) (*model.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	j, ok := r.s.state.jobs[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	j = cloneJob(j)
	return &j, nil
}

func (r *jobRepo) List(_ context.Context, filter model.JobFilter) ([]model.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	jobs := sortedValues(r.s.state.jobs, filter.Match)
	slices.SortStableFunc(jobs, func(a, b model.Job) int {
		if c := b.PostedDate.Compare(a.PostedDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	for i := range jobs {
		jobs[i] = cloneJob(jobs[i])
	}
	return jobs, nil
}

func (r *jobRepo) ListOpenFor(ctx context.Context, branch string, now time.Time) ([]model.Job, error) {
	return r.List(ctx, model.JobFilter{Branch: branch, OpenAt: &now})
}

func (r *jobRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.state.jobs)), nil
}

// ────── Application ──────

type applicationRepo struct{ s *Store }

func (r *applicationRepo) Create(_ context.Context, app *model.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.state.applications {
		if a.JobID == app.JobID && a.StudentID == app.StudentID && a.Status.Active() {
			return pkgerrors.ErrDuplicateApplication
		}
	}

	now := r.s.now()
	app.ID = take(&r.s.state.next.Applications)
	app.Status = model.StatusPendingMentor
	if app.AppliedDate.IsZero() {
		app.AppliedDate = now
	}
	app.CreatedAt, app.UpdatedAt = now, now
	r.s.state.applications[app.ID] = *app
	return nil
}

func (r *applicationRepo) GetByID(_ context.Context, id int64) (*model.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.state.applications[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	return &a, nil
}

func (r *applicationRepo) Update(_ context.Context, id int64, patch model.ApplicationPatch) (*model.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.state.applications[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	if patch.ExpectStatus != nil && a.Status != *patch.ExpectStatus {
		return nil, pkgerrors.ErrOptimisticLock
	}
	if !patch.IsEmpty() {
		patch.ApplyTo(&a)
		a.UpdatedAt = r.s.now()
		r.s.state.applications[id] = a
	}
	return &a, nil
}

// jobOwner 调用方须持有锁
func (r *applicationRepo) jobOwner(jobID int64) int64 {
	return r.s.state.jobs[jobID].EmployerID
}

func (r *applicationRepo) List(_ context.Context, filter model.ApplicationFilter) ([]model.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sortedValues(r.s.state.applications, func(a *model.Application) bool {
		return filter.Match(a, r.jobOwner)
	}), nil
}

func (r *applicationRepo) CountByStatus(_ context.Context, filter model.ApplicationFilter) (map[model.ApplicationStatus]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[model.ApplicationStatus]int64)
	for _, a := range r.s.state.applications {
		if filter.Match(&a, r.jobOwner) {
			counts[a.Status]++
		}
	}
	return counts, nil
}

// ────── Notification ──────

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = take(&r.s.state.next.Notifications)
	n.Read = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now()
	}
	r.s.state.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepo) GetByID(_ context.Context, id int64) (*model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.state.notifications[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	return &n, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if n, ok := r.s.state.notifications[id]; ok && !n.Read {
		n.Read = true
		r.s.state.notifications[id] = n
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var flipped int64
	for id, n := range r.s.state.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.s.state.notifications[id] = n
			flipped++
		}
	}
	return flipped, nil
}

func (r *notificationRepo) UnreadCount(_ context.Context, userID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, n := range r.s.state.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) Recent(_ context.Context, userID int64, limit int) ([]model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := sortedValues(r.s.state.notifications, func(n *model.Notification) bool {
		return n.UserID == userID
	})
	slices.SortStableFunc(list, func(a, b model.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
