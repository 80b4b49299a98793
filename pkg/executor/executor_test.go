package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteReturnsStdout(t *testing.T) {
	out, err := New().Execute(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestExecuteCarriesStderr(t *testing.T) {
	_, err := New().Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command 'sh' failed")
	assert.Contains(t, err.Error(), "stderr: broken")
}

func TestExecuteHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Execute(ctx, "sh", "-c", "sleep 5")
	assert.Error(t, err)
}

func TestLookPath(t *testing.T) {
	path, err := New().LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = New().LookPath("definitely-not-a-real-binary-xyz")
	assert.Error(t, err)
}
