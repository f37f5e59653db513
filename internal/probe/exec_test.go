package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubCommand returns a commandContext that prints stdout, writes stderr and exits with code.
func stubCommand(stdout, stderr string, exitCode int) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c",
			fmt.Sprintf("printf '%%s' '%s'; printf '%%s' '%s' >&2; exit %d", stdout, stderr, exitCode))
	}
}

func TestExecOutput_Success(t *testing.T) {
	e := NewExec(testLogger())
	e.commandContext = stubCommand("6.9.1-arch1-1", "", 0)

	out, err := e.Output(context.Background(), "uname", "-r")
	require.NoError(t, err)
	assert.Equal(t, "6.9.1-arch1-1", out)
}

func TestExecOutput_NonZeroExitIncludesStderr(t *testing.T) {
	e := NewExec(testLogger())
	e.commandContext = stubCommand("partial", "boom", 2)

	out, err := e.Output(context.Background(), "lspci")
	require.Error(t, err)
	assert.Equal(t, "partial", out)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "lspci")
}

func TestExecOutput_MissingBinary(t *testing.T) {
	e := NewExec(testLogger())

	_, err := e.Output(context.Background(), "nephyra-definitely-not-a-real-tool")
	require.Error(t, err)
}

func TestOutputOrEmpty(t *testing.T) {
	r := NewFakeRunner(map[string]string{"lsmod": "nvidia 1 0"})

	assert.Equal(t, "nvidia 1 0", OutputOrEmpty(context.Background(), r, "lsmod"))
	assert.Empty(t, OutputOrEmpty(context.Background(), r, "lspci"))
}

func TestPathResolver(t *testing.T) {
	r := &PathResolver{lookPath: func(file string) (string, error) {
		if file == "gcc" {
			return "/usr/bin/gcc", nil
		}
		return "", errors.New("not found")
	}}

	assert.True(t, r.Has("gcc"))
	assert.False(t, r.Has("steam"))
}

func TestFakeRunner_ErrorsAndCalls(t *testing.T) {
	r := NewFakeRunner(map[string]string{"pacman -Si linux": "Name : linux"})
	r.Errors["pacman -Qs linux-headers"] = errors.New("exit status 1")

	_, err := r.Output(context.Background(), "pacman", "-Qs", "linux-headers")
	require.Error(t, err)

	out, err := r.Output(context.Background(), "pacman", "-Si", "linux")
	require.NoError(t, err)
	assert.Equal(t, "Name : linux", out)
	assert.Equal(t, 1, r.CallCount("pacman -Si linux"))
}
