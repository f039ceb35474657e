package seed

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTasks(t *testing.T) {
	data := "名称,长度,输入大小,输出大小,PE数\n任务A,1000,300,300,1\n任务B,2000,,,\n"

	tasks, err := ParseTasks(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "任务A", tasks[0].Name)
	assert.Equal(t, int64(1000), tasks[0].Length)
	assert.Equal(t, int64(300), tasks[0].FileSize)
	assert.Equal(t, int32(1), tasks[1].PesNumber)
	assert.Equal(t, int64(0), tasks[1].OutputSize)
}

func TestParseTasksErrors(t *testing.T) {
	_, err := ParseTasks(strings.NewReader("名称,长度\n任务A,1000\n"))
	assert.ErrorContains(t, err, "输入大小")

	_, err = ParseTasks(strings.NewReader("名称,长度,输入大小,输出大小,PE数\n任务A,abc,1,1,1\n"))
	assert.ErrorContains(t, err, "第 2 行")

	_, err = ParseTasks(strings.NewReader("名称,长度,输入大小,输出大小,PE数\n任务A,0,1,1,1\n"))
	assert.Error(t, err)
}

func TestParseResources(t *testing.T) {
	data := "名称,主机名,MIPS,PE数,内存,带宽,镜像大小,VMM\n华东-计算节点-3,,812.5,4,512,10,10000,\n"

	resources, err := ParseResources(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, resources, 1)

	r := resources[0]
	assert.Equal(t, "huadong-jisuanjiedian-3", r.Hostname)
	assert.InDelta(t, 812.5, r.MIPS, 1e-9)
	assert.Equal(t, int32(4), r.PesNumber)
	assert.Equal(t, int32(512), r.RAM)
	assert.Equal(t, "Xen", r.VMM)
}

func TestParseResourcesInvalidMIPS(t *testing.T) {
	data := "名称,主机名,MIPS,PE数,内存,带宽,镜像大小,VMM\nvm,,fast,4,512,10,10000,Xen\n"

	_, err := ParseResources(strings.NewReader(data))
	assert.ErrorContains(t, err, "MIPS")
}

func TestBundledData(t *testing.T) {
	tasksFile, err := os.Open("data/tasks.csv")
	require.NoError(t, err)
	defer tasksFile.Close()

	tasks, err := ParseTasks(tasksFile)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)

	resourcesFile, err := os.Open("data/resources.csv")
	require.NoError(t, err)
	defer resourcesFile.Close()

	resources, err := ParseResources(resourcesFile)
	require.NoError(t, err)
	assert.NotEmpty(t, resources)
}
