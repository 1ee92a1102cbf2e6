// Package clipboard copies rendered prompts to the system clipboard
package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/dpshade/pocket-kdp/internal/errors"
)

// writeAll is the platform clipboard; tests replace it
var writeAll = clipboard.WriteAll

// unsupported reports whether no clipboard utility was found at startup
var unsupported = func() bool { return clipboard.Unsupported }

// Copy copies text to the system clipboard. When the platform has no
// clipboard utility the error carries CLIPBOARD_UNAVAILABLE and install
// instructions in its details.
func Copy(text string) error {
	if unsupported() {
		return errors.ClipboardUnavailableError(nil).WithDetails(GetInstallInstructions())
	}
	if err := writeAll(text); err != nil {
		return errors.ClipboardUnavailableError(err).
			WithDetails(fmt.Sprintf("failed to copy to clipboard: %v", err))
	}
	return nil
}

// CopyWithFallback copies text and returns a status line for the UI
func CopyWithFallback(text string) (string, error) {
	if err := Copy(text); err != nil {
		return "", err
	}
	return "Copied to clipboard!", nil
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	return !unsupported()
}

// GetInstallInstructions returns installation instructions for clipboard utilities
func GetInstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return "Install a clipboard utility:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("Clipboard not supported on %s", runtime.GOOS)
	}
}
