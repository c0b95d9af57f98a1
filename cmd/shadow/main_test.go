package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/limaJavier/shadowsearch/internal/config"
	"github.com/limaJavier/shadowsearch/internal/problem"
	"github.com/limaJavier/shadowsearch/pkg/logger"
	"github.com/limaJavier/shadowsearch/pkg/montecarlo"
	"github.com/limaJavier/shadowsearch/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCsv(t *testing.T) {
	//** Arrange
	var out bytes.Buffer
	results := []BenchmarkResult{
		{Variables: 2, Constraints: 2, Run: 0, Iterations: 200, Best: 0, Duration: 3},
		{Variables: 8, Constraints: 8, Run: 1, Iterations: 150, Best: 42, Duration: 12},
	}

	//** Act
	err := toCsv(&out, results)

	//** Assert
	require.Nil(t, err)
	assert.Equal(t, []string{
		"Variables,Constraints,Run,Iterations,Best,Duration(ms)",
		"2,2,0,200,0,3",
		"8,8,1,150,42,12",
	}, strings.Split(strings.TrimSpace(out.String()), "\n"))
}

func TestMeasure(t *testing.T) {
	result := measure(2, 0, 25)

	assert.Equal(t, 2, result.Variables)
	assert.Equal(t, 2, result.Constraints)
	assert.Equal(t, uint64(25), result.Iterations)
	assert.Equal(t, result.Best, measure(2, 0, 25).Best)
}

func TestSearchWithLogger(t *testing.T) {
	//** Arrange
	var out bytes.Buffer
	input := problem.Problem{
		Variables: []problem.Variable{
			{Name: "x", Min: 0, Max: 3},
			{Name: "y", Min: 0, Max: 3},
			{Name: "z", Min: 6, Max: 6, Aux: true},
		},
		Constraints: []problem.Constraint{
			{Kind: problem.KindBilinear, Vars: []string{"x", "y"}, Result: "z"},
		},
	}
	require.Nil(t, input.Normalize())
	shadow := logger.New(&out)
	shadow.Start()

	//** Act
	assignment, err := search(context.Background(), input, shadow)

	//** Assert
	require.Nil(t, err)
	require.Nil(t, shadow.Close())
	assert.Equal(t, problem.Assignment{2, 3, 6}, assignment)
	assert.Contains(t, out.String(), "strategy found")
	assert.True(t, strings.HasPrefix(strings.Split(strings.TrimSpace(out.String()), "\n")[0], "var #0 exists int x"))
}

func TestSearchCancelledByProtocolViolation(t *testing.T) {
	//** Arrange
	input := problem.Problem{
		Variables: []problem.Variable{
			{Name: "a", Min: 0, Max: 100},
			{Name: "b", Min: 0, Max: 100},
			{Name: "c", Min: 0, Max: 100},
			{Name: "d", Min: 0, Max: 100},
			{Name: "e", Min: 0, Max: 100},
		},
		Constraints: []problem.Constraint{
			{Kind: problem.KindBilinear, Vars: []string{"a", "b"}, Cmp: "<=", Result: "c"},
			{Kind: problem.KindEquality, Vars: []string{"e"}, Value: -1},
		},
	}
	require.Nil(t, input.Normalize())
	sampler := montecarlo.New(montecarlo.WithInterval(10*time.Millisecond), montecarlo.WithReporter(progress.Discard))
	sampler.Start()

	//** Act
	_, err := search(context.Background(), input, sampler)

	//** Assert
	assert.ErrorIs(t, err, montecarlo.ErrProtocolViolation)
	assert.ErrorIs(t, sampler.Close(), montecarlo.ErrProtocolViolation)
}

func TestSearchTimeout(t *testing.T) {
	//** Arrange
	input := problem.Problem{
		Variables: []problem.Variable{
			{Name: "a", Min: 0, Max: 100},
			{Name: "b", Min: 0, Max: 100},
			{Name: "c", Min: 0, Max: 100},
			{Name: "d", Min: 0, Max: 100},
		},
		Constraints: []problem.Constraint{
			{Kind: problem.KindEquality, Vars: []string{"d"}, Value: -1},
		},
	}
	require.Nil(t, input.Normalize())
	sampler := montecarlo.New(montecarlo.WithInterval(10*time.Millisecond), montecarlo.WithReporter(progress.Discard))
	sampler.Start()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	//** Act
	_, err := search(ctx, input, sampler)

	//** Assert
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, sampler.Close())
	assert.Positive(t, sampler.Iterations())
}

func TestNewShadow(t *testing.T) {
	cfg := config.Default()
	assert.IsType(t, &montecarlo.Sampler{}, newShadow(cfg, progress.Discard))

	cfg.Worker = config.WorkerLogger
	assert.IsType(t, &logger.Logger{}, newShadow(cfg, progress.Discard))
}

func TestConfigFlagMentionsEveryFormat(t *testing.T) {
	usage := runCmd.Flags().Lookup("config").Usage

	assert.Contains(t, usage, "JSON")
	assert.Contains(t, usage, "YAML")
	assert.Contains(t, usage, ".yml")
}

func TestWriteAssignment(t *testing.T) {
	//** Arrange
	input := problem.Problem{Variables: []problem.Variable{{Name: "x"}, {Name: "y"}}}
	outPath = filepath.Join(t.TempDir(), "assignment.json")
	defer func() { outPath = "" }()

	//** Act
	err := writeAssignment(input, problem.Assignment{4, -2})

	//** Assert
	require.Nil(t, err)
	content, err := os.ReadFile(outPath)
	require.Nil(t, err)
	var values map[string]int
	require.Nil(t, json.Unmarshal(content, &values))
	assert.Equal(t, map[string]int{"x": 4, "y": -2}, values)
}
