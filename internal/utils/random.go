package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
)

var regions = []string{
	"华东", "华南", "华北", "华中", "西南", "西北", "东北",
}
var nodeKinds = []string{
	"计算节点", "通用节点", "高性能节点", "边缘节点",
}

// 任务参数
const (
	taskBaseLength = 1000 // MI
	taskFileSize   = 300
	taskOutputSize = 300
	taskPesNumber  = 1
)

// 虚拟机参数
const (
	resourceBaseMIPS = 500
	resourcePes      = 4
	resourceRAM      = 512   // MB
	resourceBW       = 10    // 带宽
	resourceSize     = 10000 // 镜像大小（MB）
	resourceVMM      = "Xen"
)

// GenerateRandomTask 生成长度在 (1000, 2000] 之间的随机任务
func GenerateRandomTask(rng *rand.Rand, index int) *domain.Task {
	return &domain.Task{
		Name:       fmt.Sprintf("任务%d", index),
		Length:     taskBaseLength + int64(rng.IntN(1000)+1),
		FileSize:   taskFileSize,
		OutputSize: taskOutputSize,
		PesNumber:  taskPesNumber,
	}
}

// GenerateRandomResource 生成 MIPS 在 [500, 1000) 之间的随机虚拟机
func GenerateRandomResource(rng *rand.Rand, index int) *domain.Resource {
	name := GenerateRandomResourceName(rng, index)

	return &domain.Resource{
		Name:      name,
		Hostname:  GenerateResourceHostname(name),
		MIPS:      float64(resourceBaseMIPS + rng.IntN(500)),
		PesNumber: resourcePes,
		RAM:       resourceRAM,
		BW:        resourceBW,
		Size:      resourceSize,
		VMM:       resourceVMM,
	}
}

func GenerateRandomResourceName(rng *rand.Rand, index int) string {
	region := regions[rng.IntN(len(regions))]
	kind := nodeKinds[rng.IntN(len(nodeKinds))]
	return fmt.Sprintf("%s-%s-%d", region, kind, index)
}

// GenerateResourceHostname 将资源名称转换为主机名，例如 "华东-计算节点-3" -> "huadong-jisuanjiedian-3"
// 汉字转换为拼音，字母和数字转为小写，其余字符作为分隔符
func GenerateResourceHostname(name string) string {
	var sb strings.Builder
	lastIsSep := true

	for _, r := range name {
		switch {
		case unicode.Is(unicode.Han, r):
			py := pinyin.LazyConvert(string(r), nil)
			if len(py) > 0 {
				sb.WriteString(py[0])
				lastIsSep = false
			}
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(unicode.ToLower(r))
			lastIsSep = false
		default:
			if !lastIsSep {
				sb.WriteByte('-')
				lastIsSep = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
