package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

// Gene: 表示一个 (任务, 资源) 的分配决策
type Gene struct {
	task     *domain.Task
	resource *domain.Resource
}

func (g *Gene) Task() *domain.Task {
	return g.task
}

func (g *Gene) Resource() *domain.Resource {
	return g.resource
}

// ReplaceResource 更换基因所绑定的资源，任务保持不变
func (g *Gene) ReplaceResource(resource *domain.Resource) {
	g.resource = resource
}

// Chromosome: 一个完整的分配方案，每个任务恰好对应一个基因
type Chromosome struct {
	genes []*Gene
}

func NewChromosome(genes []*Gene) *Chromosome {
	return &Chromosome{
		genes: genes,
	}
}

// Genes 返回染色体内部的基因切片（不是拷贝），调用方修改其中的基因会直接影响染色体
func (c *Chromosome) Genes() []*Gene {
	return c.genes
}

func (c *Chromosome) Len() int {
	return len(c.genes)
}

// UpdateGene 将 position 位置上的基因重新绑定到 resource
func (c *Chromosome) UpdateGene(position int, resource *domain.Resource) error {
	if position < 0 || position >= len(c.genes) {
		return fmt.Errorf("%w: position %d, length %d", ErrIndexOutOfRange, position, len(c.genes))
	}

	c.genes[position].ReplaceResource(resource)
	return nil
}

// Clone 深拷贝染色体，新染色体持有自己的基因
func (c *Chromosome) Clone() *Chromosome {
	genes := make([]*Gene, len(c.genes))
	for i, g := range c.genes {
		genes[i] = &Gene{
			task:     g.task,
			resource: g.resource,
		}
	}

	return &Chromosome{
		genes: genes,
	}
}

// Population: 当前代的所有候选方案，大小固定为任务数量
type Population []*Chromosome

// SearchState: 每一代之后更新的搜索状态
type SearchState struct {
	BestIndex       int
	SecondBestIndex int
	BestTime        float64 // 目前找到的最小总处理时间
}

const (
	DefaultMutationProbability = 0.5
	DefaultInitialTimeBound    = 1000000
)

// 遗传算法参数
type Parameters struct {
	Seed                uint64       // 随机数种子，为 0 时随机生成
	MutationProbability float64      // 每一代发生变异的概率
	InitialTimeBound    float64      // 总处理时间的初始上界
	Logger              *slog.Logger // 可选，为 nil 时使用 slog.Default()
}

// DefaultParameters 返回默认参数
func DefaultParameters() *Parameters {
	return &Parameters{
		Seed:                0,
		MutationProbability: DefaultMutationProbability,
		InitialTimeBound:    DefaultInitialTimeBound,
	}
}

// Generations 迭代代数与任务数量绑定，不单独配置
func (p *Parameters) Generations(numTasks int) int {
	return numTasks
}

// Result: 最终的最优分配方案，Tasks[i] 在 Resources[i] 上执行
type Result struct {
	Tasks     []*domain.Task
	Resources []*domain.Resource
	BestTime  float64 // 搜索过程中记录的最小值
	Fitness   float64 // 返回方案本身的适应度，最优染色体被选为父本后可能与 BestTime 不同
	Seed      uint64
	History   []float64 // 每一代结束后的 BestTime
}
