package clipboard

import (
	stderrors "errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/pocket-kdp/internal/errors"
)

func fakeClipboard(t *testing.T, available bool, writeErr error) *string {
	t.Helper()
	var copied string
	prevWrite, prevUnsupported := writeAll, unsupported
	writeAll = func(text string) error {
		if writeErr != nil {
			return writeErr
		}
		copied = text
		return nil
	}
	unsupported = func() bool { return !available }
	t.Cleanup(func() {
		writeAll = prevWrite
		unsupported = prevUnsupported
	})
	return &copied
}

func TestCopyWithFallback(t *testing.T) {
	copied := fakeClipboard(t, true, nil)

	msg, err := CopyWithFallback("# BOOK WRITING PROMPT")
	require.NoError(t, err)
	assert.Equal(t, "Copied to clipboard!", msg)
	assert.Equal(t, "# BOOK WRITING PROMPT", *copied)
	assert.True(t, IsClipboardAvailable())
}

func TestCopyUnavailable(t *testing.T) {
	copied := fakeClipboard(t, false, nil)

	err := Copy("text")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeClipboardUnavailable))
	assert.Equal(t, GetInstallInstructions(), errors.GetAppError(err).Details)
	assert.Empty(t, *copied)
	assert.False(t, IsClipboardAvailable())
}

func TestCopyWriteFailure(t *testing.T) {
	cause := stderrors.New("exit status 1")
	fakeClipboard(t, true, cause)

	_, err := CopyWithFallback("text")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeClipboardUnavailable))
	assert.ErrorIs(t, err, cause)
}

func TestGetInstallInstructions(t *testing.T) {
	instructions := GetInstallInstructions()
	require.NotEmpty(t, instructions)

	switch runtime.GOOS {
	case "linux":
		assert.Contains(t, instructions, "xclip")
	case "darwin":
		assert.Contains(t, instructions, "pbcopy")
	case "windows":
		assert.Contains(t, instructions, "clip")
	}
}
