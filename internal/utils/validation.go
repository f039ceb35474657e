package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

// ValidationError 表示输入数据不合法，错误信息可以直接展示给用户
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func ValidateTask(task *domain.Task) error {
	if task.Length <= 0 {
		return invalidf("任务 %q 的长度必须大于 0", task.Name)
	}
	if task.PesNumber < 1 {
		return invalidf("任务 %q 至少需要 1 个 PE", task.Name)
	}
	return nil
}

func ValidateResource(resource *domain.Resource) error {
	if resource.MIPS <= 0 {
		return invalidf("资源 %q 的 MIPS 必须大于 0", resource.Name)
	}
	if resource.PesNumber < 1 {
		return invalidf("资源 %q 至少需要 1 个 PE", resource.Name)
	}
	return nil
}

// ValidateSchedulingInput 检查参与调度的任务和资源
func ValidateSchedulingInput(tasks []*domain.Task, resources []*domain.Resource) error {
	if len(tasks) == 0 {
		return invalidf("没有可调度的任务")
	}
	if len(resources) == 0 {
		return invalidf("没有可用的资源")
	}

	taskIDs := make(map[int64]struct{}, len(tasks))
	for _, task := range tasks {
		if err := ValidateTask(task); err != nil {
			return err
		}
		if _, exists := taskIDs[task.ID]; exists {
			return invalidf("任务 ID %d 重复", task.ID)
		}
		taskIDs[task.ID] = struct{}{}
	}

	resourceIDs := make(map[int64]struct{}, len(resources))
	for _, resource := range resources {
		if err := ValidateResource(resource); err != nil {
			return err
		}
		if _, exists := resourceIDs[resource.ID]; exists {
			return invalidf("资源 ID %d 重复", resource.ID)
		}
		resourceIDs[resource.ID] = struct{}{}
	}

	return nil
}
