package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	prev := os.Args
	os.Args = append([]string{"storefront"}, args...)
	t.Cleanup(func() { os.Args = prev })
}

func unsetConfigEnv(t *testing.T) {
	t.Helper()
	prev, ok := os.LookupEnv(configFileEnvName)
	require.NoError(t, os.Unsetenv(configFileEnvName))
	t.Cleanup(func() {
		if ok {
			os.Setenv(configFileEnvName, prev)
		}
	})
}

func TestGetConfigFilepath(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		unsetConfigEnv(t)
		setArgs(t)

		assert.Equal(t, "/config.yaml", getConfigFilepath())
	})

	t.Run("ConfigFlag", func(t *testing.T) {
		unsetConfigEnv(t)
		setArgs(t, "--config", "custom.yaml")

		assert.Equal(t, "custom.yaml", getConfigFilepath())
	})

	t.Run("EnvOverridesFlag", func(t *testing.T) {
		setArgs(t, "--config", "custom.yaml")
		t.Setenv(configFileEnvName, "env.yaml")

		assert.Equal(t, "env.yaml", getConfigFilepath())
	})

	t.Run("ToleratesEntrypointFlags", func(t *testing.T) {
		unsetConfigEnv(t)
		setArgs(t,
			"--migrations-path", "migrations",
			"--config", "custom.yaml",
		)

		assert.Equal(t, "custom.yaml", getConfigFilepath())
	})
}
