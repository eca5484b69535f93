package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerNeverNilBeforeInitialize(t *testing.T) {
	// The package-level no-op logger must be usable before Initialize().
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Logger.Infow("pre-init message", FieldComponent, "test")
	})
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	assert.False(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	assert.True(t, JSONOutput)
}

func TestComponentLogger(t *testing.T) {
	require.NoError(t, Initialize(false))
	log := ComponentLogger("extract")
	require.NotNil(t, log)
	assert.NotPanics(t, func() {
		log.Debugw("component message", FieldCount, 1)
	})
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("SIMWIRE_LOG_LEVEL", "debug")
	assert.Equal(t, "debug", levelFromEnv().String())

	t.Setenv("SIMWIRE_LOG_LEVEL", "not-a-level")
	assert.Equal(t, "info", levelFromEnv().String())

	t.Setenv("SIMWIRE_LOG_LEVEL", "")
	assert.Equal(t, "info", levelFromEnv().String())
}
