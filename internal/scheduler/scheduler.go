package scheduler

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

type Scheduler struct {
	parameters *Parameters
	tasks      []*domain.Task     // 按长度升序
	resources  []*domain.Resource // 按 MIPS 降序
	seed       uint64
	rng        *rand.Rand // 交叉和变异共用同一个随机数生成器，保证相同种子下抽取顺序一致
	logger     *slog.Logger
}

// New 创建调度器，tasks 与 resources 必须已经排好序（见 SortTasks 和 SortResources）
func New(parameters *Parameters, tasks []*domain.Task, resources []*domain.Resource) (*Scheduler, error) {
	if len(tasks) == 0 || len(resources) == 0 {
		return nil, ErrEmptyInput
	}

	if parameters == nil {
		parameters = DefaultParameters()
	}

	if parameters.MutationProbability < 0 || parameters.MutationProbability > 1 {
		return nil, fmt.Errorf("%w: 变异概率 %v 不在 [0, 1] 之间", ErrInvalidParameters, parameters.MutationProbability)
	}

	// 复制一份，未设置的字段使用默认值，不修改调用方的参数
	p := *parameters
	parameters = &p
	if parameters.InitialTimeBound <= 0 {
		parameters.InitialTimeBound = DefaultInitialTimeBound
	}

	seed := parameters.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	logger := parameters.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		parameters: parameters,
		tasks:      tasks,
		resources:  resources,
		seed:       seed,
		rng:        rand.New(rand.NewPCG(seed, seed)),
		logger:     logger,
	}, nil
}

func (s *Scheduler) Seed() uint64 {
	return s.seed
}

func (s *Scheduler) Schedule() (*Result, error) {
	numTasks := len(s.tasks)

	// 生成初始种群
	pop, err := initPopulation(s.tasks, s.resources)
	if err != nil {
		return nil, err
	}

	// 初始适应度
	state := evaluate(pop, SearchState{
		BestIndex:       0,
		SecondBestIndex: 0,
		BestTime:        s.parameters.InitialTimeBound,
	})

	generations := s.parameters.Generations(numTasks)
	history := make([]float64, 0, generations)

	// 迭代
	for gen := 0; gen < generations; gen++ {
		// 选择与交叉
		point := selectionAndCrossover(s.rng, pop, state)

		// 变异
		mutated := false
		if s.rng.Float64() < s.parameters.MutationProbability {
			mutate(s.rng, pop, s.resources)
			mutated = true
		}

		// 重新计算适应度
		state = evaluate(pop, state)
		history = append(history, state.BestTime)

		s.logger.Debug("完成一代迭代",
			slog.Int("generation", gen),
			slog.Int("crossover_point", point),
			slog.Bool("mutated", mutated),
			slog.Float64("best_time", state.BestTime),
		)
	}

	// 初始上界过小时没有任何染色体能被选中，结果中的时间并不是某个分配方案的真实值
	if state.BestTime >= s.parameters.InitialTimeBound {
		s.logger.Warn("没有找到总处理时间低于初始上界的分配方案",
			slog.Float64("initial_time_bound", s.parameters.InitialTimeBound),
			slog.Float64("fitness", calcFitness(pop[state.BestIndex])),
		)
	}

	// 返回结果
	best := pop[state.BestIndex]
	result := &Result{
		Tasks:     make([]*domain.Task, 0, best.Len()),
		Resources: make([]*domain.Resource, 0, best.Len()),
		BestTime:  state.BestTime,
		Fitness:   calcFitness(best),
		Seed:      s.seed,
		History:   history,
	}

	for _, gene := range best.Genes() {
		result.Tasks = append(result.Tasks, gene.task)
		result.Resources = append(result.Resources, gene.resource)
	}

	return result, nil
}

// Run 对已排序的任务与资源执行一次完整的遗传算法
func Run(tasks []*domain.Task, resources []*domain.Resource, parameters *Parameters) (*Result, error) {
	s, err := New(parameters, tasks, resources)
	if err != nil {
		return nil, err
	}

	return s.Schedule()
}
