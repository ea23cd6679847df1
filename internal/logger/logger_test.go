package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, Level("debug"))
	assert.Equal(t, zerolog.WarnLevel, Level("WARN"))
	assert.Equal(t, zerolog.InfoLevel, Level(""))
	assert.Equal(t, zerolog.InfoLevel, Level("verbose"))
}

func TestInitSetsGlobalLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Init("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Init("")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
