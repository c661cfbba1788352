package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matrix/backend/cpu"
	"github.com/born-ml/matrix/nn"
	"github.com/born-ml/matrix/tensor"
)

func TestOpenEngine(t *testing.T) {
	eng, err := openEngine("cpu:2", 1)
	require.NoError(t, err)
	defer eng.Close()
	assert.Equal(t, "cpu:2", eng.Config().String())

	_, err = openEngine("tpu", 1)
	assert.Error(t, err)
}

func TestBenchEngineMatchesGonum(t *testing.T) {
	eng, err := openEngine("cpu", 7)
	require.NoError(t, err)
	a, err := eng.Uniform(-1, 1, 16, 16)
	require.NoError(t, err)

	got, err := benchEngine(a, 3, 2)
	require.NoError(t, err)
	want := benchGonum(a, 3, 2)
	assert.Less(t, maxRelDiff(got.values, want.values), 1e-4)
}

func TestMaxRelDiff(t *testing.T) {
	assert.Zero(t, maxRelDiff([]float64{1, 2}, []float64{1, 2}))
	assert.InDelta(t, 0.5, maxRelDiff([]float64{0.5, 300}, []float64{0, 200}), 1e-12)
}

func TestBenchResult_Record(t *testing.T) {
	var r benchResult
	r.record([]time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond})
	assert.Equal(t, 2*time.Millisecond, r.mean)
	assert.Equal(t, time.Millisecond, r.min)
}

func TestRunBench(t *testing.T) {
	require.NoError(t, runBench([]string{"-backend", "cpu", "-n", "8", "-chain", "2", "-batches", "2"}))
	assert.Error(t, runBench([]string{"-backend", "cpu", "-n", "0"}))
}

func TestTrainXOR(t *testing.T) {
	dir := t.TempDir()
	eng, err := openEngine("cpu", 42)
	require.NoError(t, err)

	opts := xorOptions{
		epochs:     5000,
		hidden:     8,
		lr:         1.0,
		momentum:   0.5,
		seed:       42,
		checkpoint: filepath.Join(dir, "xor.safetensors"),
		quiet:      true,
	}
	losses, predictions, err := trainXOR(eng, opts)
	require.NoError(t, err)
	require.Len(t, losses, 5000)
	assert.Less(t, losses[len(losses)-1], losses[0]/4)
	for i, p := range predictions {
		assert.InDelta(t, xorTargets[i], p, 0.4, "sample %d", i)
	}

	model, err := nn.NewMLP(cpu.New(), []int{2, 8, 1}, tensor.Tanh, tensor.Sigmoid, nil)
	require.NoError(t, err)
	ckpt, err := nn.LoadCheckpoint(opts.checkpoint, model, nil)
	require.NoError(t, err)
	assert.Equal(t, 5000, ckpt.Epoch)

	plotPath := filepath.Join(dir, "loss.png")
	require.NoError(t, plotLoss(losses, plotPath))
	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, _, err = trainXOR(eng, xorOptions{epochs: 0, hidden: 8})
	assert.Error(t, err)
}
