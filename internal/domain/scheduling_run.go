package domain

import "time"

type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "SUCCESS"
)

// SchedulingRunAssignment: 最优方案中的一个分配，Position 为基因位置
type SchedulingRunAssignment struct {
	Position   int32 `json:"position"`
	TaskID     int64 `json:"taskID"`
	ResourceID int64 `json:"resourceID"`
}

// SchedulingRunExecution: 模拟执行的结果
type SchedulingRunExecution struct {
	TaskID       int64           `json:"taskID"`
	ResourceID   int64           `json:"resourceID"`
	DatacenterID int32           `json:"datacenterID"`
	HostID       int32           `json:"hostID"`
	Status       ExecutionStatus `json:"status"`
	CPUTime      float64         `json:"cpuTime"`
	StartTime    float64         `json:"startTime"`
	FinishTime   float64         `json:"finishTime"`
}

type SchedulingRun struct {
	ID                  int64                     `json:"id"`
	RunKey              string                    `json:"runKey"`
	Seed                uint64                    `json:"seed"`
	MutationProbability float64                   `json:"mutationProbability"`
	NumTasks            int32                     `json:"numTasks"`
	NumResources        int32                     `json:"numResources"`
	BestTime            float64                   `json:"bestTime"`
	Makespan            float64                   `json:"makespan"`
	History             []float64                 `json:"history"`
	Assignments         []SchedulingRunAssignment `json:"assignments"`
	Executions          []SchedulingRunExecution  `json:"executions"`
	CreatedBy           int64                     `json:"createdBy"`
	CreatedAt           time.Time                 `json:"createdAt"`
	Version             int32                     `json:"-"`
}
