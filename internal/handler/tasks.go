package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name" validate:"required,max=128"`
		Length     int64  `json:"length" validate:"required,gt=0"`
		FileSize   int64  `json:"fileSize" validate:"min=0"`
		OutputSize int64  `json:"outputSize" validate:"min=0"`
		PesNumber  int32  `json:"pesNumber" validate:"omitempty,min=1"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	task := &domain.Task{
		Name:       req.Name,
		Length:     req.Length,
		FileSize:   req.FileSize,
		OutputSize: req.OutputSize,
		PesNumber:  req.PesNumber,
	}
	if task.PesNumber == 0 {
		task.PesNumber = 1
	}

	if err := h.repository.CreateTask(task); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "tasks_name_key":
			h.badRequest(w, r, errors.New("任务名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建任务成功", task)
}

func (h *Handler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repository.GetAllTasks()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有任务成功", tasks)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(TaskCtx).(*domain.Task)
	h.successResponse(w, r, "获取任务成功", task)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(TaskCtx).(*domain.Task)

	if err := h.repository.DeleteTask(task.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "scheduling_run_assignments_task_id_fkey", "scheduling_run_executions_task_id_fkey":
				h.errorResponse(w, r, "该任务已被调度记录引用，无法删除")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除任务成功", nil)
}
