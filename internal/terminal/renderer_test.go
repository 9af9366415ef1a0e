package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	renderer, err := NewRenderer(80)
	require.NoError(t, err)

	rendered := renderer.Render("# Commands\n\n- `/help` shows this help\n")

	assert.NotEmpty(t, rendered)
	assert.Contains(t, rendered, "help")
}
