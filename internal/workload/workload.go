package workload

import (
	"fmt"
	"os"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/utils"
	"gopkg.in/yaml.v3"
)

type taskSpec struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	Length     int64  `yaml:"length"`
	FileSize   int64  `yaml:"fileSize"`
	OutputSize int64  `yaml:"outputSize"`
	PesNumber  int32  `yaml:"pesNumber"`
}

type resourceSpec struct {
	ID        int64   `yaml:"id"`
	Name      string  `yaml:"name"`
	Hostname  string  `yaml:"hostname"`
	MIPS      float64 `yaml:"mips"`
	PesNumber int32   `yaml:"pesNumber"`
	RAM       int32   `yaml:"ram"`
	BW        int64   `yaml:"bw"`
	Size      int64   `yaml:"size"`
	VMM       string  `yaml:"vmm"`
}

type file struct {
	Tasks     []taskSpec     `yaml:"tasks"`
	Resources []resourceSpec `yaml:"resources"`
}

// Workload: 一组待调度的任务和可用的资源
type Workload struct {
	Tasks     []*domain.Task
	Resources []*domain.Resource
}

func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return w, nil
}

// Parse 解析 YAML 格式的工作负载
// 未指定 ID 时按出现顺序从 1 开始编号，未指定 PE 数量时默认为 1
func Parse(data []byte) (*Workload, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	w := &Workload{
		Tasks:     make([]*domain.Task, len(f.Tasks)),
		Resources: make([]*domain.Resource, len(f.Resources)),
	}

	for i, t := range f.Tasks {
		task := &domain.Task{
			ID:         t.ID,
			Name:       t.Name,
			Length:     t.Length,
			FileSize:   t.FileSize,
			OutputSize: t.OutputSize,
			PesNumber:  t.PesNumber,
		}
		if task.ID == 0 {
			task.ID = int64(i + 1)
		}
		if task.Name == "" {
			task.Name = fmt.Sprintf("任务%d", task.ID)
		}
		if task.PesNumber == 0 {
			task.PesNumber = 1
		}
		w.Tasks[i] = task
	}

	for i, r := range f.Resources {
		resource := &domain.Resource{
			ID:        r.ID,
			Name:      r.Name,
			Hostname:  r.Hostname,
			MIPS:      r.MIPS,
			PesNumber: r.PesNumber,
			RAM:       r.RAM,
			BW:        r.BW,
			Size:      r.Size,
			VMM:       r.VMM,
		}
		if resource.ID == 0 {
			resource.ID = int64(i + 1)
		}
		if resource.Name == "" {
			resource.Name = fmt.Sprintf("vm-%d", resource.ID)
		}
		if resource.Hostname == "" {
			resource.Hostname = utils.GenerateResourceHostname(resource.Name)
		}
		if resource.PesNumber == 0 {
			resource.PesNumber = 1
		}
		w.Resources[i] = resource
	}

	if err := utils.ValidateSchedulingInput(w.Tasks, w.Resources); err != nil {
		return nil, err
	}

	return w, nil
}
