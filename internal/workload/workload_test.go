package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
tasks:
  - name: render
    length: 1200
  - length: 1000
resources:
  - name: 华东-计算节点-1
    mips: 900
    pesNumber: 4
  - id: 7
    mips: 500
`

func TestParse(t *testing.T) {
	w, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, w.Tasks, 2)
	assert.Equal(t, int64(1), w.Tasks[0].ID)
	assert.Equal(t, "render", w.Tasks[0].Name)
	assert.Equal(t, int64(2), w.Tasks[1].ID)
	assert.Equal(t, "任务2", w.Tasks[1].Name)
	assert.Equal(t, int32(1), w.Tasks[1].PesNumber)

	require.Len(t, w.Resources, 2)
	assert.Equal(t, "huadong-jisuanjiedian-1", w.Resources[0].Hostname)
	assert.Equal(t, int32(4), w.Resources[0].PesNumber)
	assert.Equal(t, int64(7), w.Resources[1].ID)
	assert.Equal(t, "vm-7", w.Resources[1].Hostname)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("tasks:\n  - length: 0\nresources:\n  - mips: 100\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("tasks:\n  - length: 10\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("tasks: [\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	w, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, w.Tasks, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
