package handler

import (
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/simulation"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	datacenter  *simulation.Datacenter

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if cfg.Datacenter.HostCount < 1 {
		return nil, fmt.Errorf("数据中心主机数量必须大于 0，当前为 %d", cfg.Datacenter.HostCount)
	}

	// 模拟执行所用的数据中心，所有主机配置相同
	dc := simulation.NewDatacenter(0, cfg.Datacenter.Name, simulation.HostSpec{
		PesNumber: cfg.Datacenter.PesNumber,
		MIPS:      cfg.Datacenter.MIPS,
		RAM:       cfg.Datacenter.RAM,
		BW:        cfg.Datacenter.BW,
		Storage:   cfg.Datacenter.Storage,
	}, cfg.Datacenter.HostCount)

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		datacenter:  dc,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Handle("/metrics", promhttp.Handler())

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Get("/scheduling-runs", h.GetMySchedulingRuns)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateTask)
			r.Get("/", h.GetAllTasks)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.task)
				r.Get("/", h.GetTask)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteTask)
			})
		})

		r.Route("/resources", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateResource)
			r.Get("/", h.GetAllResources)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.resource)
				r.Get("/", h.GetResource)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteResource)
			})
		})

		r.Route("/scheduling-runs", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).With(h.myInfo).Post("/", h.CreateSchedulingRun)
			r.Get("/", h.GetAllSchedulingRuns)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.schedulingRun)
				r.Get("/", h.GetSchedulingRun)
			})
		})
	})
}
