package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	return writeConfigAs(t, "config.json", content)
}

func writeConfigAs(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0666))
	return path
}

func TestLoad(t *testing.T) {
	//** Arrange
	path := writeConfig(t, `{
		"worker": "logger",
		"interval": "50ms",
		"seed": 42,
		"detach": true,
		"color": false,
		"maxIterations": 1000,
		"timeout": "2s"
	}`)

	//** Act
	config, err := Load(path)

	//** Assert
	require.Nil(t, err)
	assert.Equal(t, Config{
		Worker:        WorkerLogger,
		Interval:      50 * time.Millisecond,
		Seed:          42,
		Detach:        true,
		Color:         false,
		MaxIterations: 1000,
		Timeout:       2 * time.Second,
	}, config)
}

func TestLoadYaml(t *testing.T) {
	//** Arrange
	path := writeConfigAs(t, "config.yaml", `
worker: montecarlo
interval: 10ms
seed: 3
maxIterations: 50
`)

	//** Act
	config, err := Load(path)

	//** Assert
	require.Nil(t, err)
	expected := Default()
	expected.Interval = 10 * time.Millisecond
	expected.Seed = 3
	expected.MaxIterations = 50
	assert.Equal(t, expected, config)
}

func TestLoadYamlRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfigAs(t, "config.yml", "sleep: 1s\n"))
	assert.NotNil(t, err)
}

func TestLoadKeepsDefaults(t *testing.T) {
	config, err := Load(writeConfig(t, `{"seed": 7}`))

	require.Nil(t, err)
	expected := Default()
	expected.Seed = 7
	assert.Equal(t, expected, config)
}

func TestLoadRejectsInvalidConfigs(t *testing.T) {
	scenarios := map[string]string{
		"unknown key":       `{"sleep": "1s"}`,
		"unknown worker":    `{"worker": "annealing"}`,
		"zero interval":     `{"interval": "0s"}`,
		"malformed":         `{"interval": `,
		"bad duration":      `{"interval": "soon"}`,
		"negative timeout":  `{"timeout": "-1s"}`,
		"wrong type":        `{"detach": [true]}`,
		"negative interval": `{"interval": "-5ms"}`,
	}

	for name, content := range scenarios {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.NotNil(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
