package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_Columns(t *testing.T) {
	var out, logs bytes.Buffer
	cli := NewCLI(Options{Output: &out, Logs: &logs})
	cli.SetArgs([]string{"columns"})

	require.NoError(t, cli.Execute())

	assert.Contains(t, out.String(), "Taxa de conversão (Pedido pago)")
}

func TestCLI_BadConfig(t *testing.T) {
	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, Logs: &out})
	cli.SetArgs([]string{"--config", "/nonexistent/atlas.yaml", "columns"})

	assert.ErrorContains(t, cli.Execute(), "failed to read config file")
}
