package handler

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	MyInfoCtx        ContextKey = "myInfo"
	TaskCtx          ContextKey = "task"
	ResourceCtx      ContextKey = "resource"
	SchedulingRunCtx ContextKey = "schedulingRun"
)
