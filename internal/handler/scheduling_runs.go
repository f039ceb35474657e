package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/simulation"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/utils"
)

const schedulingLockKey = "lock_scheduling_run"

// 只有持有者才能释放锁
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var errSchedulingInProgress = errors.New("已有调度正在进行，请稍后再试")

func (h *Handler) acquireSchedulingLock(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	ok, err := h.redisClient.SetNX(ctx, schedulingLockKey, token, time.Duration(h.config.Redis.LockExpiration)*time.Second).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errSchedulingInProgress
	}

	return nil
}

func (h *Handler) releaseSchedulingLock(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := releaseLockScript.Run(ctx, h.redisClient, []string{schedulingLockKey}, token).Err(); err != nil {
		slog.Error("释放调度锁失败", "token", token, "error", err)
	}
}

// runScheduling 对给定的任务和资源执行遗传算法，并在数据中心中模拟执行最终的分配方案
func (h *Handler) runScheduling(tasks []*domain.Task, resources []*domain.Resource, params *scheduler.Parameters) (*domain.SchedulingRun, error) {
	if err := utils.ValidateSchedulingInput(tasks, resources); err != nil {
		return nil, err
	}

	result, err := scheduler.Run(scheduler.SortTasks(tasks), scheduler.SortResources(resources), params)
	if err != nil {
		return nil, err
	}

	executions, err := h.datacenter.Execute(result.Tasks, result.Resources)
	if err != nil {
		return nil, fmt.Errorf("模拟执行失败: %w", err)
	}

	run := &domain.SchedulingRun{
		Seed:                result.Seed,
		MutationProbability: params.MutationProbability,
		NumTasks:            int32(len(tasks)),
		NumResources:        int32(len(resources)),
		BestTime:            result.Fitness,
		Makespan:            simulation.Makespan(executions),
		History:             result.History,
		Assignments:         make([]domain.SchedulingRunAssignment, 0, len(result.Tasks)),
		Executions:          executions,
	}

	for i := range result.Tasks {
		run.Assignments = append(run.Assignments, domain.SchedulingRunAssignment{
			Position:   int32(i),
			TaskID:     result.Tasks[i].ID,
			ResourceID: result.Resources[i].ID,
		})
	}

	return run, nil
}

// readSchedulingParameters 在配置的默认值上应用请求体中的参数，请求体可以为空
func (h *Handler) readSchedulingParameters(w http.ResponseWriter, r *http.Request) (*scheduler.Parameters, error) {
	var req struct {
		Seed                *uint64  `json:"seed"`
		MutationProbability *float64 `json:"mutationProbability" validate:"omitempty,min=0,max=1"`
	}

	// 分块传输的空请求体 ContentLength 为 -1，因此以读取结果为准
	if err := h.readJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}

	params := scheduler.DefaultParameters()
	params.Seed = h.config.Scheduler.Seed
	params.MutationProbability = h.config.Scheduler.MutationProbability
	params.InitialTimeBound = h.config.Scheduler.InitialTimeBound
	if req.Seed != nil {
		params.Seed = *req.Seed
	}
	if req.MutationProbability != nil {
		params.MutationProbability = *req.MutationProbability
	}

	return params, nil
}

func (h *Handler) CreateSchedulingRun(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	params, err := h.readSchedulingParameters(w, r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 同一时间只允许一次调度
	runKey := uuid.New().String()
	if err := h.acquireSchedulingLock(runKey); err != nil {
		switch {
		case errors.Is(err, errSchedulingInProgress):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer h.releaseSchedulingLock(runKey)

	tasks, err := h.repository.GetAllTasks()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	resources, err := h.repository.GetAllResources()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	start := time.Now()
	run, err := h.runScheduling(tasks, resources, params)
	if err != nil {
		metrics.ObserveFailure()
		var validationErr *utils.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.errorResponse(w, r, validationErr.Msg)
		case errors.Is(err, scheduler.ErrInvalidParameters):
			h.errorResponse(w, r, err.Error())
		case errors.Is(err, simulation.ErrNoCapacity):
			h.errorResponse(w, r, "数据中心容量不足，无法放置所有资源")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	duration := time.Since(start)

	run.RunKey = runKey
	run.CreatedBy = myInfo.ID

	if err := h.repository.InsertSchedulingRun(run); err != nil {
		metrics.ObserveFailure()
		h.internalServerError(w, r, err)
		return
	}

	metrics.ObserveRun(duration, int(run.NumTasks), int(run.NumResources), run.BestTime, run.Makespan)

	slog.Info("调度完成",
		slog.Int64("run_id", run.ID),
		slog.String("run_key", run.RunKey),
		slog.Uint64("seed", run.Seed),
		slog.Float64("best_time", run.BestTime),
		slog.Float64("makespan", run.Makespan),
		slog.Duration("duration", duration),
	)

	// 结果已经保存，通知失败不影响本次调度
	to := h.config.Email.NotifyTo
	if to == "" {
		to = myInfo.Email
	}
	if err := h.publishMail(domain.MailMessage{
		Type: domain.MailTypeRunFinished,
		To:   to,
		Data: domain.RunFinishedMailData{
			RunID:        run.ID,
			RunKey:       run.RunKey,
			Operator:     myInfo.FullName,
			NumTasks:     run.NumTasks,
			NumResources: run.NumResources,
			BestTime:     run.BestTime,
			Makespan:     run.Makespan,
			Seed:         run.Seed,
		},
	}); err != nil {
		slog.Error("发送调度完成通知失败", "run_id", run.ID, "error", err)
	}

	h.successResponse(w, r, "调度成功", run)
}

func (h *Handler) GetAllSchedulingRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repository.GetAllSchedulingRuns()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有调度记录成功", runs)
}

func (h *Handler) GetSchedulingRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(SchedulingRunCtx).(*domain.SchedulingRun)
	h.successResponse(w, r, "获取调度记录成功", run)
}
