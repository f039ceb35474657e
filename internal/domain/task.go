package domain

import "time"

// Task: 一个待调度的任务，Length 为指令数（MI）
type Task struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Length     int64     `json:"length"`
	FileSize   int64     `json:"fileSize"`
	OutputSize int64     `json:"outputSize"`
	PesNumber  int32     `json:"pesNumber"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}
