package service

import "github.com/shahjaival18-glitch/TaskShuffler/internal/model"

// ── 轮换资格过滤 ──
//
// Repository 查询已按 is_registered / is_active 过滤，这里在引擎
// 入口再过滤一次：轮换结果的正确性不依赖调用方传入的数据来源

// eligibleUsers 仅保留已注册用户
func eligibleUsers(users []model.User) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.IsRegistered {
			out = append(out, u)
		}
	}
	return out
}

// eligibleTasks 仅保留活跃任务
func eligibleTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out
}
