package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/utils"
)

func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string  `json:"name" validate:"required,max=128"`
		Hostname  string  `json:"hostname" validate:"omitempty,hostname_rfc1123"`
		MIPS      float64 `json:"mips" validate:"required,gt=0"`
		PesNumber int32   `json:"pesNumber" validate:"omitempty,min=1"`
		RAM       int32   `json:"ram" validate:"min=0"`
		BW        int64   `json:"bw" validate:"min=0"`
		Size      int64   `json:"size" validate:"min=0"`
		VMM       string  `json:"vmm" validate:"omitempty,max=32"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	resource := &domain.Resource{
		Name:      req.Name,
		Hostname:  req.Hostname,
		MIPS:      req.MIPS,
		PesNumber: req.PesNumber,
		RAM:       req.RAM,
		BW:        req.BW,
		Size:      req.Size,
		VMM:       req.VMM,
	}
	// 未指定主机名时根据名称生成
	if resource.Hostname == "" {
		resource.Hostname = utils.GenerateResourceHostname(resource.Name)
	}
	if resource.PesNumber == 0 {
		resource.PesNumber = 1
	}
	if resource.VMM == "" {
		resource.VMM = "Xen"
	}

	if err := h.repository.CreateResource(resource); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "resources_name_key":
			h.badRequest(w, r, errors.New("资源名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建资源成功", resource)
}

func (h *Handler) GetAllResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.repository.GetAllResources()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有资源成功", resources)
}

func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	resource := r.Context().Value(ResourceCtx).(*domain.Resource)
	h.successResponse(w, r, "获取资源成功", resource)
}

func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	resource := r.Context().Value(ResourceCtx).(*domain.Resource)

	if err := h.repository.DeleteResource(resource.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "scheduling_run_assignments_resource_id_fkey", "scheduling_run_executions_resource_id_fkey":
				h.errorResponse(w, r, "该资源已被调度记录引用，无法删除")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除资源成功", nil)
}
