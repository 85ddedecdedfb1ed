package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/memories-e2e/pkg/config"
	"github.com/umputun/memories-e2e/pkg/status"
)

func TestStageName(t *testing.T) {
	assert.Equal(t, "setup", stageName(status.Stage{Phase: status.PhaseSetup}))
	assert.Equal(t, "scenario:search", stageName(status.Stage{Phase: status.PhaseScenario, Scenario: "search"}))
}

func TestNewApp(t *testing.T) {
	assert.Nil(t, newApp(&config.Config{UseLocal: false}, false, nil))
	assert.NotNil(t, newApp(&config.Config{UseLocal: true, StartCommand: "true"}, false, nil))
}

func TestOrchestratorConfig(t *testing.T) {
	t.Setenv(config.EnvUseLocal, "true")
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	oc := orchestratorConfig(cfg, false)
	assert.Equal(t, cwd, oc.BaseDir, "relative app dirs resolve against the suite root")
	assert.Equal(t, "../backend", oc.BackendDir)
	assert.Equal(t, "../frontend", oc.FrontendDir)
	assert.Equal(t, cfg.AppURL, oc.ReadyURL)
	assert.Nil(t, oc.Output)
	assert.Equal(t, os.Stdout, orchestratorConfig(cfg, true).Output)
}
