package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/simulation"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/utils"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1
	cfg.Datacenter.Name = "Datacenter_0"
	cfg.Datacenter.HostCount = simulation.DefaultHostCount
	cfg.Datacenter.PesNumber = simulation.DefaultHostSpec.PesNumber
	cfg.Datacenter.MIPS = simulation.DefaultHostSpec.MIPS
	cfg.Datacenter.RAM = simulation.DefaultHostSpec.RAM
	cfg.Datacenter.BW = simulation.DefaultHostSpec.BW
	cfg.Datacenter.Storage = simulation.DefaultHostSpec.Storage
	return cfg
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	h, err := NewHandler(newTestConfig(), nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func doRequest(t *testing.T, h *Handler, method, path, body string, role domain.Role) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		token, _, err := h.signToken(1, string(role))
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRequiresLogin(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := doRequest(t, h, http.MethodGet, "/tasks", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)
}

func TestRejectsInvalidToken(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/resources", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "not-a-token"})
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的令牌", resp.Message)
}

func TestOperatorCannotCreate(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/tasks", "/resources", "/scheduling-runs"} {
		_, resp := doRequest(t, h, http.MethodPost, path, `{}`, domain.RoleOperator)
		assert.False(t, resp.Success, path)
		assert.Equal(t, "权限不足", resp.Message, path)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/tasks", `{"name":"任务1"}`, domain.RoleAdmin)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Length")

	_, resp = doRequest(t, h, http.MethodPost, "/tasks", `{"name":"任务1","length":10,"unknown":1}`, domain.RoleAdmin)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "unknown")
}

func TestCreateResourceValidation(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/resources", `{"name":"vm","mips":-1}`, domain.RoleAdmin)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "MIPS")
}

func TestInvalidIDParam(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodGet, "/tasks/abc", "", domain.RoleOperator)
	assert.False(t, resp.Success)
	assert.Equal(t, "任务ID无效", resp.Message)

	_, resp = doRequest(t, h, http.MethodGet, "/scheduling-runs/abc", "", domain.RoleOperator)
	assert.False(t, resp.Success)
	assert.Equal(t, "调度记录ID无效", resp.Message)
}

func TestLoginEmptyBody(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doRequest(t, h, http.MethodPost, "/auth/login", "", "")
	assert.False(t, resp.Success)
	assert.Equal(t, "请求体不能为空", resp.Message)
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := doRequest(t, h, http.MethodPost, "/auth/logout", "", "")
	assert.True(t, resp.Success)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doRequest(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "task_scheduler_scheduling_runs_duration_seconds")
}

func TestRunScheduling(t *testing.T) {
	h := newTestHandler(t)

	tasks := []*domain.Task{
		{ID: 1, Name: "t1", Length: 3000, PesNumber: 1},
		{ID: 2, Name: "t2", Length: 1000, PesNumber: 1},
		{ID: 3, Name: "t3", Length: 2000, PesNumber: 1},
	}
	resources := []*domain.Resource{
		{ID: 1, Name: "r1", MIPS: 500, PesNumber: 2, RAM: 512},
		{ID: 2, Name: "r2", MIPS: 1000, PesNumber: 2, RAM: 512},
	}

	params := scheduler.DefaultParameters()
	params.Seed = 42

	run, err := h.runScheduling(tasks, resources, params)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), run.Seed)
	assert.Equal(t, int32(3), run.NumTasks)
	assert.Equal(t, int32(2), run.NumResources)
	assert.Len(t, run.History, 3)
	require.Len(t, run.Assignments, 3)
	require.Len(t, run.Executions, 3)

	// 分配按任务长度升序排列
	assert.Equal(t, int64(2), run.Assignments[0].TaskID)
	assert.Equal(t, int64(3), run.Assignments[1].TaskID)
	assert.Equal(t, int64(1), run.Assignments[2].TaskID)

	mips := map[int64]float64{1: 500, 2: 1000}
	length := map[int64]int64{1: 3000, 2: 1000, 3: 2000}
	expected := 0.0
	for _, a := range run.Assignments {
		expected += float64(length[a.TaskID]) / mips[a.ResourceID]
	}
	assert.InDelta(t, expected, run.BestTime, 1e-9)
	assert.InDelta(t, simulation.Makespan(run.Executions), run.Makespan, 1e-9)

	// 同一种子结果相同
	again, err := h.runScheduling(tasks, resources, params)
	require.NoError(t, err)
	assert.Equal(t, run.Assignments, again.Assignments)
}

func TestRunSchedulingInvalidInput(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.runScheduling(nil, []*domain.Resource{{ID: 1, MIPS: 100, PesNumber: 1}}, scheduler.DefaultParameters())
	var validationErr *utils.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRunSchedulingNoCapacity(t *testing.T) {
	cfg := newTestConfig()
	cfg.Datacenter.HostCount = 1
	cfg.Datacenter.PesNumber = 1
	h, err := NewHandler(cfg, nil, nil, nil)
	require.NoError(t, err)

	tasks := []*domain.Task{{ID: 1, Name: "t1", Length: 1000, PesNumber: 1}}
	resources := []*domain.Resource{{ID: 1, Name: "r1", MIPS: 500, PesNumber: 4}}

	_, err = h.runScheduling(tasks, resources, scheduler.DefaultParameters())
	assert.ErrorIs(t, err, simulation.ErrNoCapacity)
}

func TestNewHandlerRejectsInvalidHostCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		cfg := newTestConfig()
		cfg.Datacenter.HostCount = n

		_, err := NewHandler(cfg, nil, nil, nil)
		assert.Error(t, err, n)
	}
}

func TestReadSchedulingParametersEmptyChunkedBody(t *testing.T) {
	h := newTestHandler(t)
	h.config.Scheduler.Seed = 42
	h.config.Scheduler.MutationProbability = 0.3
	h.config.Scheduler.InitialTimeBound = 5000

	// 分块传输且没有内容的请求体
	req := httptest.NewRequest(http.MethodPost, "/scheduling-runs", http.NoBody)
	req.ContentLength = -1
	params, err := h.readSchedulingParameters(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), params.Seed)
	assert.Equal(t, 0.3, params.MutationProbability)
	assert.Equal(t, 5000.0, params.InitialTimeBound)

	req = httptest.NewRequest(http.MethodPost, "/scheduling-runs", strings.NewReader(""))
	req.ContentLength = -1
	_, err = h.readSchedulingParameters(httptest.NewRecorder(), req)
	require.NoError(t, err)
}

func TestReadSchedulingParametersOverrides(t *testing.T) {
	h := newTestHandler(t)
	h.config.Scheduler.Seed = 42
	h.config.Scheduler.MutationProbability = 0.3

	req := httptest.NewRequest(http.MethodPost, "/scheduling-runs", strings.NewReader(`{"seed": 7, "mutationProbability": 0.9}`))
	req.ContentLength = -1
	params, err := h.readSchedulingParameters(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), params.Seed)
	assert.Equal(t, 0.9, params.MutationProbability)

	req = httptest.NewRequest(http.MethodPost, "/scheduling-runs", strings.NewReader(`{"mutationProbability": 1.5}`))
	_, err = h.readSchedulingParameters(httptest.NewRecorder(), req)
	assert.Error(t, err)

	req = httptest.NewRequest(http.MethodPost, "/scheduling-runs", strings.NewReader(`{"unknown": 1}`))
	_, err = h.readSchedulingParameters(httptest.NewRecorder(), req)
	assert.Error(t, err)
}
