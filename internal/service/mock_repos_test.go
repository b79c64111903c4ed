package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shahjaival18-glitch/TaskShuffler/config"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/model"
	"github.com/shahjaival18-glitch/TaskShuffler/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	all := m.sorted()
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListRegistered(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.sorted() {
		if u.IsRegistered {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) MarkRegistered(_ context.Context, id string, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsRegistered = true
	u.RegisteredAt = &at
	return nil
}

func (m *mockUserRepo) sorted() []model.User {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

// ── Mock AdminRepository ──

type mockAdminRepo struct {
	admins map[string]*model.Admin
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*model.Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	if admin.AdminID == "" {
		admin.AdminID = "admin-" + admin.UserID
	}
	for _, a := range m.admins {
		if a.UserID == admin.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.admins[admin.AdminID] = admin
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	if a, ok := m.admins[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByUserID(_ context.Context, userID string) (*model.Admin, error) {
	for _, a := range m.admins {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, a := range m.admins {
		if a.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *mockAdminRepo) List(_ context.Context) ([]model.Admin, error) {
	var result []model.Admin
	for _, a := range m.admins {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AdminID < result[j].AdminID })
	return result, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		task.TaskID = "task-" + strings.ToLower(task.Title)
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context, includeInactive bool, offset, limit int) ([]model.Task, int64, error) {
	var all []model.Task
	for _, t := range m.sorted() {
		if includeInactive || t.IsActive {
			all = append(all, t)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTaskRepo) ListActive(_ context.Context) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.sorted() {
		if t.IsActive {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	if _, ok := m.tasks[task.TaskID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) Deactivate(_ context.Context, id string) error {
	t, ok := m.tasks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.IsActive = false
	return nil
}

func (m *mockTaskRepo) sorted() []model.Task {
	var result []model.Task
	for _, t := range m.tasks {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TaskID < result[j].TaskID })
	return result
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.TaskAssignment
	users       *mockUserRepo
	tasks       *mockTaskRepo
	nextID      int
}

func newMockAssignmentRepo(users *mockUserRepo, tasks *mockTaskRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.TaskAssignment),
		users:       users,
		tasks:       tasks,
	}
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.TaskAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		return m.withRefs(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByWeek(_ context.Context, week time.Time, completed *bool) ([]model.TaskAssignment, error) {
	var result []model.TaskAssignment
	for _, a := range m.assignments {
		if !a.WeekStarting.Equal(week) {
			continue
		}
		if completed != nil && a.IsCompleted != *completed {
			continue
		}
		result = append(result, *m.withRefs(a))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TaskID < result[j].TaskID })
	return result, nil
}

func (m *mockAssignmentRepo) CountByWeek(_ context.Context, week time.Time) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.WeekStarting.Equal(week) {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) MarkCompleted(_ context.Context, id string, at time.Time) (int64, error) {
	a, ok := m.assignments[id]
	if !ok || a.IsCompleted {
		return 0, nil
	}
	a.IsCompleted = true
	a.CompletedAt = &at
	return 1, nil
}

func (m *mockAssignmentRepo) insert(a model.TaskAssignment) (*model.TaskAssignment, error) {
	for _, existing := range m.assignments {
		if existing.TaskID == a.TaskID && existing.UserID == a.UserID &&
			existing.WeekStarting.Equal(a.WeekStarting) {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	a.AssignmentID = fmt.Sprintf("assign-%03d", m.nextID)
	m.assignments[a.AssignmentID] = &a
	return &a, nil
}

func (m *mockAssignmentRepo) withRefs(a *model.TaskAssignment) *model.TaskAssignment {
	out := *a
	if t, ok := m.tasks.tasks[a.TaskID]; ok {
		out.Task = t
	}
	if u, ok := m.users.users[a.UserID]; ok {
		out.User = u
	}
	return &out
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	histories []model.TaskHistory
	users     *mockUserRepo
	tasks     *mockTaskRepo
}

func newMockHistoryRepo(users *mockUserRepo, tasks *mockTaskRepo) *mockHistoryRepo {
	return &mockHistoryRepo{users: users, tasks: tasks}
}

func (m *mockHistoryRepo) ListAll(_ context.Context) ([]model.TaskHistory, error) {
	result := make([]model.TaskHistory, len(m.histories))
	copy(result, m.histories)
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AssignedWeek.Equal(result[j].AssignedWeek) {
			return result[i].AssignedWeek.After(result[j].AssignedWeek)
		}
		return result[i].TaskID < result[j].TaskID
	})
	return result, nil
}

func (m *mockHistoryRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.TaskHistory, int64, error) {
	var all []model.TaskHistory
	for _, h := range m.histories {
		if h.UserID == userID {
			all = append(all, *m.withRefs(&h))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AssignedWeek.After(all[j].AssignedWeek) })
	return pageHistories(all, offset, limit)
}

func (m *mockHistoryRepo) ListByTask(_ context.Context, taskID string, offset, limit int) ([]model.TaskHistory, int64, error) {
	var all []model.TaskHistory
	for _, h := range m.histories {
		if h.TaskID == taskID {
			all = append(all, *m.withRefs(&h))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AssignedWeek.After(all[j].AssignedWeek) })
	return pageHistories(all, offset, limit)
}

func (m *mockHistoryRepo) insert(h model.TaskHistory) {
	if h.HistoryID == "" {
		h.HistoryID = fmt.Sprintf("hist-%03d", len(m.histories)+1)
	}
	m.histories = append(m.histories, h)
}

func (m *mockHistoryRepo) withRefs(h *model.TaskHistory) *model.TaskHistory {
	out := *h
	if t, ok := m.tasks.tasks[h.TaskID]; ok {
		out.Task = t
	}
	if u, ok := m.users.users[h.UserID]; ok {
		out.User = u
	}
	return &out
}

func pageHistories(all []model.TaskHistory, offset, limit int) ([]model.TaskHistory, int64, error) {
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock ShuffleLogRepository ──

type mockShuffleLogRepo struct {
	logs map[string]*model.ShuffleLog // key: week "2006-01-02"
}

func newMockShuffleLogRepo() *mockShuffleLogRepo {
	return &mockShuffleLogRepo{logs: make(map[string]*model.ShuffleLog)}
}

func (m *mockShuffleLogRepo) GetByWeek(_ context.Context, week time.Time) (*model.ShuffleLog, error) {
	if l, ok := m.logs[week.Format("2006-01-02")]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShuffleLogRepo) ListRange(_ context.Context, from, to time.Time, offset, limit int) ([]model.ShuffleLog, int64, error) {
	var all []model.ShuffleLog
	for _, l := range m.logs {
		if !from.IsZero() && l.WeekStarting.Before(from) {
			continue
		}
		if !to.IsZero() && l.WeekStarting.After(to) {
			continue
		}
		all = append(all, *l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].WeekStarting.After(all[j].WeekStarting) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock ShuffleRunRepository ──

// mockShuffleRunRepo 与分配/历史/日志 mock 共享状态，模拟事务提交：
// 任一写入失败则全部回退
type mockShuffleRunRepo struct {
	assignments *mockAssignmentRepo
	histories   *mockHistoryRepo
	logs        *mockShuffleLogRepo
	failWith    error // 注入持久化故障
}

func (m *mockShuffleRunRepo) CommitRun(_ context.Context, assignments []model.TaskAssignment, histories []model.TaskHistory, log *model.ShuffleLog) error {
	if m.failWith != nil {
		return m.failWith
	}

	weekKey := log.WeekStarting.Format("2006-01-02")
	if _, exists := m.logs.logs[weekKey]; exists {
		return gorm.ErrDuplicatedKey
	}

	var inserted []string
	for i := range assignments {
		a, err := m.assignments.insert(assignments[i])
		if err != nil {
			for _, id := range inserted {
				delete(m.assignments.assignments, id)
			}
			return err
		}
		assignments[i].AssignmentID = a.AssignmentID
		inserted = append(inserted, a.AssignmentID)
	}
	for i := range histories {
		m.histories.insert(histories[i])
	}

	if log.ShuffleLogID == "" {
		log.ShuffleLogID = "log-" + weekKey
	}
	m.logs.logs[weekKey] = log
	return nil
}

// ── 测试环境组装 ──

type mockEnv struct {
	repo    *repository.Repository
	users   *mockUserRepo
	admins  *mockAdminRepo
	tasks   *mockTaskRepo
	assigns *mockAssignmentRepo
	history *mockHistoryRepo
	logs    *mockShuffleLogRepo
	runs    *mockShuffleRunRepo
	cfg     *config.Config
}

func newMockEnv() *mockEnv {
	users := newMockUserRepo()
	admins := newMockAdminRepo()
	tasks := newMockTaskRepo()
	assigns := newMockAssignmentRepo(users, tasks)
	history := newMockHistoryRepo(users, tasks)
	logs := newMockShuffleLogRepo()
	runs := &mockShuffleRunRepo{assignments: assigns, histories: history, logs: logs}

	return &mockEnv{
		repo: &repository.Repository{
			User:       users,
			Admin:      admins,
			Task:       tasks,
			Assignment: assigns,
			History:    history,
			ShuffleLog: logs,
			ShuffleRun: runs,
		},
		users:   users,
		admins:  admins,
		tasks:   tasks,
		assigns: assigns,
		history: history,
		logs:    logs,
		runs:    runs,
		cfg: &config.Config{
			Rotation: config.RotationConfig{
				LookbackWeeks: 1,
				Timezone:      "UTC",
			},
		},
	}
}

// addUser 快捷创建已注册用户
func (e *mockEnv) addUser(id, username string) *model.User {
	u := &model.User{UserID: id, Username: username, Name: username, IsRegistered: true}
	e.users.users[id] = u
	return u
}

// addTask 快捷创建活跃任务
func (e *mockEnv) addTask(id, title string) *model.Task {
	t := &model.Task{TaskID: id, Title: title, TaskType: model.TaskTypePredefined, IsActive: true}
	e.tasks.tasks[id] = t
	return t
}

// addHistory 快捷追加历史记录
func (e *mockEnv) addHistory(taskID, userID string, week time.Time) {
	e.history.insert(model.TaskHistory{TaskID: taskID, UserID: userID, AssignedWeek: week})
}
