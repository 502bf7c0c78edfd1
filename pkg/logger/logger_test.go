package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Component loggers are handed out at package init time, before the CLI
// parses -log-level. Raising the level afterwards must still reach them.
func TestSetLevelAppliesToExistingComponents(t *testing.T) {
	defer SetLevel("info")

	var buf bytes.Buffer
	child := Component("loader").Output(&buf)

	child.Debug().Msg("before raise")
	assert.Empty(t, buf.String(), "debug must stay gated at the default level")

	SetLevel("debug")
	child.Debug().Msg("after raise")
	assert.Contains(t, buf.String(), `"message":"after raise"`)
	assert.Contains(t, buf.String(), `"component":"loader"`)
}

func TestSetLevelFallsBackToInfo(t *testing.T) {
	defer SetLevel("info")

	var buf bytes.Buffer
	child := Component("loader").Output(&buf)

	SetLevel("chatty")
	child.Debug().Msg("hidden")
	child.Info().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}
