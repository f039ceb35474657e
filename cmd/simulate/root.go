package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/simulation"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/utils"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/workload"
)

type options struct {
	numTasks            int
	numResources        int
	seed                uint64
	workloadFile        string
	mutationProbability float64
	hostCount           int
	logLevel            string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "simulate",
		Short: "在本地运行一次遗传算法调度并模拟执行",
		Long: `simulate 使用遗传算法为任务分配虚拟机，并在模拟数据中心中执行最终的分配方案。

示例:
  # 随机生成 50 个任务和 10 台虚拟机
  simulate --tasks 50 --resources 10 --seed 42

  # 从文件读取工作负载
  simulate --workload workload.yaml
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	root.Flags().IntVar(&opts.numTasks, "tasks", 50, "随机生成的任务数量")
	root.Flags().IntVar(&opts.numResources, "resources", 10, "随机生成的虚拟机数量")
	root.Flags().Uint64Var(&opts.seed, "seed", 0, "随机种子，为 0 时随机选取")
	root.Flags().StringVar(&opts.workloadFile, "workload", "", "YAML 格式的工作负载文件，指定后忽略 --tasks 和 --resources")
	root.Flags().Float64Var(&opts.mutationProbability, "mutation-probability", scheduler.DefaultMutationProbability, "每一代发生变异的概率")
	root.Flags().IntVar(&opts.hostCount, "hosts", simulation.DefaultHostCount, "数据中心的主机数量")
	root.Flags().StringVar(&opts.logLevel, "log-level", "warn", "日志级别 (debug, info, warn, error)")

	return root
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// loadWorkload 读取工作负载文件，未指定时用种子随机生成
func loadWorkload(opts *options, seed uint64) (*workload.Workload, error) {
	if opts.workloadFile != "" {
		return workload.Load(opts.workloadFile)
	}

	if opts.numTasks <= 0 || opts.numResources <= 0 {
		return nil, fmt.Errorf("任务和虚拟机数量必须大于 0")
	}

	// 与调度使用不同的流，避免生成数据影响调度的随机序列
	rng := rand.New(rand.NewPCG(seed, ^seed))

	w := &workload.Workload{
		Tasks:     make([]*domain.Task, 0, opts.numTasks),
		Resources: make([]*domain.Resource, 0, opts.numResources),
	}
	for i := 0; i < opts.numTasks; i++ {
		task := utils.GenerateRandomTask(rng, i)
		task.ID = int64(i)
		w.Tasks = append(w.Tasks, task)
	}
	for i := 0; i < opts.numResources; i++ {
		resource := utils.GenerateRandomResource(rng, i)
		resource.ID = int64(i)
		w.Resources = append(w.Resources, resource)
	}

	return w, nil
}

func runSimulate(out, errOut io.Writer, opts *options) error {
	if opts.mutationProbability < 0 || opts.mutationProbability > 1 {
		return fmt.Errorf("变异概率必须在 [0, 1] 之间")
	}
	if opts.hostCount < 1 {
		return fmt.Errorf("数据中心主机数量必须大于 0")
	}

	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	w, err := loadWorkload(opts, seed)
	if err != nil {
		return err
	}
	if err := utils.ValidateSchedulingInput(w.Tasks, w.Resources); err != nil {
		return err
	}

	params := scheduler.DefaultParameters()
	params.Seed = seed
	params.MutationProbability = opts.mutationProbability
	params.Logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: parseLevel(opts.logLevel)}))

	result, err := scheduler.Run(scheduler.SortTasks(w.Tasks), scheduler.SortResources(w.Resources), params)
	if err != nil {
		return err
	}

	for i, bound := range result.History {
		fmt.Fprintf(out, "Time at %d-th %v\n", i, bound)
	}
	fmt.Fprintf(out, "Final time: %v\n", result.BestTime)
	fmt.Fprintf(out, "Seed: %d\n", result.Seed)

	dc := simulation.NewDatacenter(2, "Datacenter_0", simulation.DefaultHostSpec, opts.hostCount)
	executions, err := dc.Execute(result.Tasks, result.Resources)
	if err != nil {
		return err
	}

	printExecutions(out, executions)
	fmt.Fprintf(out, "Makespan: %.2f\n", simulation.Makespan(executions))

	return nil
}

func printExecutions(out io.Writer, executions []domain.SchedulingRunExecution) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "========== OUTPUT ==========")

	tw := tabwriter.NewWriter(out, 0, 0, 4, ' ', 0)
	fmt.Fprintln(tw, "Task ID\tSTATUS\tDatacenter ID\tVM ID\tHost ID\tTime\tStart Time\tFinish Time")
	for _, e := range executions {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			e.TaskID, e.Status, e.DatacenterID, e.ResourceID, e.HostID, e.CPUTime, e.StartTime, e.FinishTime)
	}
	tw.Flush()
}
