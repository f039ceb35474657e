package scheduler

import (
	"cmp"
	"slices"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

// SortTasks 返回按长度升序排列的任务（稳定排序，不修改原切片）
func SortTasks(tasks []*domain.Task) []*domain.Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b *domain.Task) int {
		return cmp.Compare(a.Length, b.Length)
	})
	return sorted
}

// SortResources 返回按 MIPS 降序排列的资源（稳定排序，不修改原切片）
func SortResources(resources []*domain.Resource) []*domain.Resource {
	sorted := slices.Clone(resources)
	slices.SortStableFunc(sorted, func(a, b *domain.Resource) int {
		return cmp.Compare(b.MIPS, a.MIPS)
	})
	return sorted
}
