package scheduler

import (
	"math/rand/v2"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

// initPopulation 生成初始种群
// tasks 需按长度升序排列，resources 需按 MIPS 降序排列
// 第 j 个染色体的第 i 个基因为 (tasks[i], resources[k])，其中 k 相对于第 0 个染色体偏移了 j 个位置
func initPopulation(tasks []*domain.Task, resources []*domain.Resource) (Population, error) {
	numTasks := len(tasks)
	numResources := len(resources)

	if numTasks == 0 || numResources == 0 {
		return nil, ErrEmptyInput
	}

	pop := make(Population, numTasks)
	for j := 0; j < numTasks; j++ {
		genes := make([]*Gene, numTasks)

		for i := 0; i < numTasks; i++ {
			k := (i + j) % numResources
			// 资源数多于任务数时，第二次取模会改变偏移，这里保持原有的两步计算
			k = (k + numTasks) % numTasks

			genes[i] = &Gene{
				task:     tasks[i],
				resource: resources[k],
			}
		}

		pop[j] = NewChromosome(genes)
	}

	return pop, nil
}

/**
 * 计算染色体的适应度（越小越好）
 * fitness = Σ task.Length / resource.MIPS
 * 这里是所有任务处理时间之和，不考虑不同资源之间的并行
 */
func calcFitness(ch *Chromosome) float64 {
	sum := 0.0
	for _, gene := range ch.genes {
		sum += float64(gene.task.Length) / gene.resource.MIPS
	}
	return sum
}

// evaluate 计算种群中每个染色体的适应度，并更新最优和次优的下标
// 只有严格小于当前上界的值才会替换最优，原来的最优变成次优
func evaluate(pop Population, state SearchState) SearchState {
	for i, ch := range pop {
		sum := calcFitness(ch)

		if sum < state.BestTime {
			state.BestTime = sum
			state.SecondBestIndex = state.BestIndex
			state.BestIndex = i
		}
	}

	return state
}

// selectionAndCrossover 选择最优和次优两个染色体作为父本，并进行单点交叉
// 在 [0, point] 范围内交换两个父本的资源，任务保持不变
// 返回交叉点
func selectionAndCrossover(rng *rand.Rand, pop Population, state SearchState) int {
	// 直接修改种群中的父本（共享引用），交叉结果即写回原来的位置
	p1 := pop[state.BestIndex]
	p2 := pop[state.SecondBestIndex]

	point := rng.IntN(p1.Len())

	// 当 BestIndex == SecondBestIndex 时 p1 与 p2 是同一个染色体，交换不会产生任何效果
	for i := 0; i <= point; i++ {
		r1 := p1.genes[i].resource
		r2 := p2.genes[i].resource

		mustUpdateGene(p1, i, r2)
		mustUpdateGene(p2, i, r1)
	}

	return point
}

// mutate 随机选择一个染色体中的一个基因，将其资源替换为 MIPS 最高的资源
// resources 需按 MIPS 降序排列
func mutate(rng *rand.Rand, pop Population, resources []*domain.Resource) (chromosomeIndex int, position int) {
	chromosomeIndex = rng.IntN(len(pop))

	// 直接修改种群中的染色体
	ch := pop[chromosomeIndex]
	position = rng.IntN(ch.Len())

	mustUpdateGene(ch, position, resources[0])

	return chromosomeIndex, position
}

// 内部调用传入的位置一定合法，出错说明代码逻辑有问题
func mustUpdateGene(ch *Chromosome, position int, resource *domain.Resource) {
	if err := ch.UpdateGene(position, resource); err != nil {
		panic(err)
	}
}
