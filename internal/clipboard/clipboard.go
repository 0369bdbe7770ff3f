// Package clipboard copies stopwatch readings to the system clipboard.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Copier copies text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// System copies through OSC 52 over SSH or screen, and through native tools otherwise.
type System struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// TTY opens the terminal for OSC 52 writes. Defaults to /dev/tty.
	TTY func() (io.WriteCloser, error)

	// Command builds the native copy command. Defaults to pbcopy or xclip.
	Command func() *exec.Cmd
}

// Copy copies text, choosing the transport from the environment.
func (s System) Copy(text string) error {
	if s.useOSC52() {
		return s.copyViaOSC52(text)
	}
	return s.copyViaNative(text)
}

func (s System) getenv(k string) string {
	if s.Getenv != nil {
		return s.Getenv(k)
	}
	return os.Getenv(k)
}

func (s System) remote() bool {
	return s.getenv("SSH_TTY") != "" ||
		s.getenv("SSH_CLIENT") != "" ||
		s.getenv("SSH_CONNECTION") != ""
}

// useOSC52 is true for remote sessions and GNU screen. Local tmux uses native tools.
func (s System) useOSC52() bool {
	return s.remote() || s.getenv("STY") != ""
}

// OSC52 returns the escape sequence that sets the clipboard to text.
// Inside tmux the sequence is wrapped in a DCS passthrough.
func OSC52(text string, tmux bool) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if tmux {
		return fmt.Sprintf("\x1bPtmux;\x1b\x1b]52;c;%s\x07\x1b\\", encoded)
	}
	return fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
}

func (s System) copyViaOSC52(text string) (err error) {
	open := s.TTY
	if open == nil {
		open = openTTY
	}
	// The TUI owns stdout in alt-screen mode, so write to the terminal directly.
	tty, err := open()
	if err != nil {
		return fmt.Errorf("opening tty: %w", err)
	}
	defer func() {
		if closeErr := tty.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.WriteString(tty, OSC52(text, s.getenv("TMUX") != ""))
	return err
}

func openTTY() (io.WriteCloser, error) {
	return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
}

func nativeCommand() *exec.Cmd {
	if runtime.GOOS == "darwin" {
		return exec.Command("pbcopy")
	}
	return exec.Command("xclip", "-selection", "clipboard")
}

func (s System) copyViaNative(text string) error {
	build := s.Command
	if build == nil {
		build = nativeCommand
	}
	cmd := build()
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}
