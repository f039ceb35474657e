package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/utils"
)

const (
	DefaultTasksFile     = "./internal/seed/data/tasks.csv"
	DefaultResourcesFile = "./internal/seed/data/resources.csv"
)

var TaskHeaders = []string{"名称", "长度", "输入大小", "输出大小", "PE数"}

var ResourceHeaders = []string{"名称", "主机名", "MIPS", "PE数", "内存", "带宽", "镜像大小", "VMM"}

// readRecords 读取 CSV 文件，每一行按表头转换为 map，缺少必需的列时返回错误
func readRecords(r io.Reader, required []string) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	for _, key := range required {
		if !slices.Contains(headers, key) {
			return nil, fmt.Errorf("没有找到列 %q", key)
		}
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("读取文件失败: %w", err)
		}

		record := make(map[string]string, len(headers))
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}
		records = append(records, record)
	}

	return records, nil
}

// 空字符串视为 0
func parseInt(record map[string]string, key string) (int64, error) {
	if record[key] == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(record[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("列 %q 的值 %q 不是整数", key, record[key])
	}
	return v, nil
}

func ParseTasks(r io.Reader) ([]*domain.Task, error) {
	records, err := readRecords(r, TaskHeaders)
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(records))
	for i, record := range records {
		task := &domain.Task{Name: record["名称"]}

		var pes int64
		for key, dst := range map[string]*int64{"长度": &task.Length, "输入大小": &task.FileSize, "输出大小": &task.OutputSize, "PE数": &pes} {
			v, err := parseInt(record, key)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行: %w", i+2, err)
			}
			*dst = v
		}
		task.PesNumber = int32(max(pes, 1))

		if err := utils.ValidateTask(task); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i+2, err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func ParseResources(r io.Reader) ([]*domain.Resource, error) {
	records, err := readRecords(r, ResourceHeaders)
	if err != nil {
		return nil, err
	}

	resources := make([]*domain.Resource, 0, len(records))
	for i, record := range records {
		mips, err := strconv.ParseFloat(record["MIPS"], 64)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: 列 \"MIPS\" 的值 %q 不是数字", i+2, record["MIPS"])
		}

		resource := &domain.Resource{
			Name:     record["名称"],
			Hostname: record["主机名"],
			MIPS:     mips,
			VMM:      record["VMM"],
		}

		var pes, ram int64
		for key, dst := range map[string]*int64{"PE数": &pes, "内存": &ram, "带宽": &resource.BW, "镜像大小": &resource.Size} {
			v, err := parseInt(record, key)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行: %w", i+2, err)
			}
			*dst = v
		}
		resource.PesNumber = int32(max(pes, 1))
		resource.RAM = int32(ram)

		if resource.Hostname == "" {
			resource.Hostname = utils.GenerateResourceHostname(resource.Name)
		}
		if resource.VMM == "" {
			resource.VMM = "Xen"
		}

		if err := utils.ValidateResource(resource); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i+2, err)
		}
		resources = append(resources, resource)
	}

	return resources, nil
}

// SeedTasksFromCSV 从 CSV 文件导入任务，返回成功插入的数量
func SeedTasksFromCSV(r *repository.Repository, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	tasks, err := ParseTasks(file)
	if err != nil {
		return 0, err
	}

	cnt := 0
	for _, task := range tasks {
		if err := r.CreateTask(task); err != nil {
			slog.Error("插入任务失败", "name", task.Name, "error", err)
			continue
		}
		cnt++
	}

	return cnt, nil
}

// SeedResourcesFromCSV 从 CSV 文件导入资源，返回成功插入的数量
func SeedResourcesFromCSV(r *repository.Repository, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	resources, err := ParseResources(file)
	if err != nil {
		return 0, err
	}

	cnt := 0
	for _, resource := range resources {
		if err := r.CreateResource(resource); err != nil {
			slog.Error("插入资源失败", "name", resource.Name, "error", err)
			continue
		}
		cnt++
	}

	return cnt, nil
}
