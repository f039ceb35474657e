package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSimulateRandomWorkload(t *testing.T) {
	out, err := execute(t, "--tasks", "6", "--resources", "3", "--seed", "42")
	require.NoError(t, err)

	assert.Contains(t, out, "Time at 0-th ")
	assert.Contains(t, out, "Time at 5-th ")
	assert.NotContains(t, out, "Time at 6-th ")
	assert.Contains(t, out, "Final time: ")
	assert.Contains(t, out, "Seed: 42")
	assert.Contains(t, out, "========== OUTPUT ==========")
	assert.Equal(t, 6, strings.Count(out, "SUCCESS"))
}

func TestSimulateDeterministic(t *testing.T) {
	first, err := execute(t, "--tasks", "8", "--resources", "4", "--seed", "7")
	require.NoError(t, err)

	second, err := execute(t, "--tasks", "8", "--resources", "4", "--seed", "7")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulateWorkloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yaml")
	data := `
tasks:
  - length: 1000
  - length: 2000
resources:
  - name: 华东-计算节点-1
    mips: 500
    pesNumber: 2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := execute(t, "--workload", path, "--seed", "1")
	require.NoError(t, err)

	// 两个任务都分配到唯一的虚拟机上：1000/500 + 2000/500
	assert.Contains(t, out, "Final time: 6\n")
	assert.Equal(t, 2, strings.Count(out, "SUCCESS"))
}

func TestSimulateInvalidFlags(t *testing.T) {
	_, err := execute(t, "--tasks", "0")
	assert.Error(t, err)

	_, err = execute(t, "--mutation-probability", "1.5")
	assert.Error(t, err)

	_, err = execute(t, "--hosts", "0")
	assert.ErrorContains(t, err, "主机数量")

	_, err = execute(t, "--hosts", "-1")
	assert.ErrorContains(t, err, "主机数量")

	_, err = execute(t, "extra-arg")
	assert.Error(t, err)
}
