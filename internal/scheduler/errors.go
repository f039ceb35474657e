package scheduler

import "errors"

var (
	ErrEmptyInput      = errors.New("任务列表或资源列表为空")
	ErrIndexOutOfRange = errors.New("基因位置越界")

	ErrInvalidParameters = errors.New("遗传算法参数不合法")
)
