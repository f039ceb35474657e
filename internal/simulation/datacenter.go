package simulation

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

var (
	ErrLengthMismatch = errors.New("任务与资源数量不一致")
	ErrNoCapacity     = errors.New("没有可以容纳该虚拟机的主机")
)

// HostSpec: 一台物理主机的配置
type HostSpec struct {
	PesNumber int32   `json:"pesNumber"`
	MIPS      float64 `json:"mips"` // 每个 PE 的 MIPS
	RAM       int32   `json:"ram"`  // MB
	BW        int64   `json:"bw"`
	Storage   int64   `json:"storage"`
}

// DefaultHostSpec 与默认的三台同构主机相对应
var DefaultHostSpec = HostSpec{
	PesNumber: 7,
	MIPS:      10000,
	RAM:       24800,
	BW:        100000,
	Storage:   10000000,
}

const DefaultHostCount = 3

type Host struct {
	ID   int32
	Spec HostSpec
}

type Datacenter struct {
	ID    int32
	Name  string
	Hosts []Host
}

// NewDatacenter 创建 hostCount 台相同配置的主机，hostCount 小于 0 时按 0 处理
func NewDatacenter(id int32, name string, spec HostSpec, hostCount int) *Datacenter {
	hostCount = max(hostCount, 0)

	dc := &Datacenter{
		ID:    id,
		Name:  name,
		Hosts: make([]Host, hostCount),
	}

	for i := range dc.Hosts {
		dc.Hosts[i] = Host{
			ID:   int32(i),
			Spec: spec,
		}
	}

	return dc
}

// 一次执行过程中主机的剩余容量
type hostUsage struct {
	host    *Host
	mips    float64
	ram     int32
	bw      int64
	storage int64
}

// allocate 为每台虚拟机选择剩余 MIPS 最多的主机，返回 resourceID -> hostID
func (dc *Datacenter) allocate(resources []*domain.Resource) (map[int64]int32, error) {
	usages := make([]*hostUsage, len(dc.Hosts))
	for i := range dc.Hosts {
		h := &dc.Hosts[i]
		usages[i] = &hostUsage{
			host:    h,
			mips:    h.Spec.MIPS * float64(h.Spec.PesNumber),
			ram:     h.Spec.RAM,
			bw:      h.Spec.BW,
			storage: h.Spec.Storage,
		}
	}

	placement := make(map[int64]int32)
	for _, vm := range resources {
		if _, exists := placement[vm.ID]; exists {
			continue
		}

		required := vm.MIPS * float64(vmPes(vm))

		var chosen *hostUsage
		for _, u := range usages {
			if vmPes(vm) > u.host.Spec.PesNumber || vm.MIPS > u.host.Spec.MIPS {
				continue
			}
			if required > u.mips || vm.RAM > u.ram || vm.BW > u.bw || vm.Size > u.storage {
				continue
			}
			if chosen == nil || u.mips > chosen.mips {
				chosen = u
			}
		}

		if chosen == nil {
			return nil, fmt.Errorf("%w: 虚拟机 %d", ErrNoCapacity, vm.ID)
		}

		chosen.mips -= required
		chosen.ram -= vm.RAM
		chosen.bw -= vm.BW
		chosen.storage -= vm.Size
		placement[vm.ID] = chosen.host.ID
	}

	return placement, nil
}

/**
 * Execute 在数据中心中模拟执行分配方案，tasks[i] 在 resources[i] 上执行
 * 每台虚拟机采用空间共享：同时最多运行 PesNumber 个任务，按提交顺序占用最早空闲的 PE
 * 返回结果按完成时间排序
 */
func (dc *Datacenter) Execute(tasks []*domain.Task, resources []*domain.Resource) ([]domain.SchedulingRunExecution, error) {
	if len(tasks) != len(resources) {
		return nil, fmt.Errorf("%w: %d 个任务, %d 个资源", ErrLengthMismatch, len(tasks), len(resources))
	}

	placement, err := dc.allocate(resources)
	if err != nil {
		return nil, err
	}

	// resourceID -> 每个 PE 的空闲时刻
	peFreeAt := make(map[int64][]float64)

	executions := make([]domain.SchedulingRunExecution, 0, len(tasks))
	for i, task := range tasks {
		vm := resources[i]

		pes, exists := peFreeAt[vm.ID]
		if !exists {
			pes = make([]float64, vmPes(vm))
			peFreeAt[vm.ID] = pes
		}

		pe := 0
		for j := 1; j < len(pes); j++ {
			if pes[j] < pes[pe] {
				pe = j
			}
		}

		start := pes[pe]
		cpuTime := float64(task.Length) / vm.MIPS
		finish := start + cpuTime
		pes[pe] = finish

		executions = append(executions, domain.SchedulingRunExecution{
			TaskID:       task.ID,
			ResourceID:   vm.ID,
			DatacenterID: dc.ID,
			HostID:       placement[vm.ID],
			Status:       domain.ExecutionStatusSuccess,
			CPUTime:      cpuTime,
			StartTime:    start,
			FinishTime:   finish,
		})
	}

	slices.SortStableFunc(executions, func(a, b domain.SchedulingRunExecution) int {
		return cmp.Compare(a.FinishTime, b.FinishTime)
	})

	return executions, nil
}

// Makespan 返回所有任务中最晚的完成时间
func Makespan(executions []domain.SchedulingRunExecution) float64 {
	makespan := 0.0
	for _, e := range executions {
		makespan = max(makespan, e.FinishTime)
	}
	return makespan
}

func vmPes(vm *domain.Resource) int32 {
	return max(vm.PesNumber, 1)
}
