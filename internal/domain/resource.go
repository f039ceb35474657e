package domain

import "time"

// Resource: 一台虚拟机，MIPS 为每个 PE 每秒能处理的百万指令数
type Resource struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Hostname  string    `json:"hostname"`
	MIPS      float64   `json:"mips"`
	PesNumber int32     `json:"pesNumber"`
	RAM       int32     `json:"ram"`  // MB
	BW        int64     `json:"bw"`   // 带宽
	Size      int64     `json:"size"` // 镜像大小（MB）
	VMM       string    `json:"vmm"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
