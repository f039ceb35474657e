package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

func TestValidateSchedulingInput(t *testing.T) {
	task := &domain.Task{ID: 1, Name: "t1", Length: 1000, PesNumber: 1}
	resource := &domain.Resource{ID: 1, Name: "r1", MIPS: 500, PesNumber: 4}

	assert.NoError(t, ValidateSchedulingInput([]*domain.Task{task}, []*domain.Resource{resource}))
	assert.Error(t, ValidateSchedulingInput(nil, []*domain.Resource{resource}))
	assert.Error(t, ValidateSchedulingInput([]*domain.Task{task}, nil))
	assert.Error(t, ValidateSchedulingInput([]*domain.Task{task, task}, []*domain.Resource{resource}))
	assert.Error(t, ValidateSchedulingInput([]*domain.Task{task}, []*domain.Resource{resource, resource}))

	assert.Error(t, ValidateTask(&domain.Task{Name: "bad", Length: 0, PesNumber: 1}))
	assert.Error(t, ValidateResource(&domain.Resource{Name: "bad", MIPS: 0, PesNumber: 1}))
	assert.Error(t, ValidateResource(&domain.Resource{Name: "bad", MIPS: 100, PesNumber: 0}))
}

func TestValidationErrorType(t *testing.T) {
	err := ValidateSchedulingInput(nil, nil)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "没有可调度的任务", validationErr.Msg)
}
