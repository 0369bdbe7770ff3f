package sound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/zjrosen/tickwatch/internal/log"
)

// ErrUnavailable indicates no audio facility could be found or audio is disabled.
var ErrUnavailable = errors.New("audio unavailable")

// Player plays a single tone. Beep blocks until playback finishes.
type Player interface {
	Beep(ctx context.Context, freqHz int, d time.Duration) error
}

// Backend names accepted by Select.
const (
	BackendAuto    = "auto"
	BackendCommand = "command"
	BackendBell    = "bell"
	BackendNone    = "none"
)

type inputMode int

const (
	inputStdin inputMode = iota // WAV piped to stdin
	inputFile                   // WAV written to a temp file passed as last arg
	inputArgs                   // frequency and milliseconds substituted into args
)

// runFunc executes an external command, optionally feeding stdin.
type runFunc func(ctx context.Context, name string, args []string, stdin []byte) error

func runCommand(ctx context.Context, name string, args []string, stdin []byte) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// candidate describes one OS audio command.
type candidate struct {
	name string
	args []string
	mode inputMode
}

var candidates = map[string][]candidate{
	"darwin": {
		{name: "afplay", mode: inputFile},
	},
	"linux": {
		{name: "aplay", args: []string{"-q", "-"}, mode: inputStdin},
		{name: "paplay", mode: inputFile},
		{name: "pw-play", mode: inputFile},
	},
	"windows": {
		{
			name: "powershell",
			args: []string{"-NoProfile", "-NonInteractive", "-Command", "[console]::beep({freq},{ms})"},
			mode: inputArgs,
		},
	},
}

// CommandPlayer plays tones through an OS-native audio command.
type CommandPlayer struct {
	cand candidate
	path string
	run  runFunc
}

// Detect finds the first available audio command for goos.
// Returns ErrUnavailable if none is installed.
func Detect(goos string, lookPath func(string) (string, error)) (*CommandPlayer, error) {
	for _, c := range candidates[goos] {
		path, err := lookPath(c.name)
		if err != nil {
			continue
		}
		log.Debug(log.CatSound, "found audio command", "name", c.name, "path", path)
		return &CommandPlayer{cand: c, path: path, run: runCommand}, nil
	}
	return nil, fmt.Errorf("no audio command for %s: %w", goos, ErrUnavailable)
}

// Name returns the command used for playback.
func (p *CommandPlayer) Name() string {
	return p.cand.name
}

// Beep plays a tone at freqHz for d.
func (p *CommandPlayer) Beep(ctx context.Context, freqHz int, d time.Duration) error {
	switch p.cand.mode {
	case inputStdin:
		data, err := ToneWAV(freqHz, d)
		if err != nil {
			return err
		}
		return p.run(ctx, p.path, p.cand.args, data)

	case inputFile:
		data, err := ToneWAV(freqHz, d)
		if err != nil {
			return err
		}
		f, err := os.CreateTemp("", "tickwatch-*.wav")
		if err != nil {
			return fmt.Errorf("creating tone file: %w", err)
		}
		defer func() { _ = os.Remove(f.Name()) }()

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing tone file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing tone file: %w", err)
		}
		args := append(append([]string(nil), p.cand.args...), f.Name())
		return p.run(ctx, p.path, args, nil)

	default:
		args := make([]string, len(p.cand.args))
		for i, a := range p.cand.args {
			args[i] = expandTone(a, freqHz, d)
		}
		return p.run(ctx, p.path, args, nil)
	}
}

func expandTone(arg string, freqHz int, d time.Duration) string {
	out := []byte(arg)
	out = bytes.ReplaceAll(out, []byte("{freq}"), []byte(strconv.Itoa(freqHz)))
	out = bytes.ReplaceAll(out, []byte("{ms}"), []byte(strconv.FormatInt(d.Milliseconds(), 10)))
	return string(out)
}

// BellPlayer rings the terminal bell. Frequency is ignored.
type BellPlayer struct {
	W io.Writer
}

// Beep writes BEL to the terminal.
func (p BellPlayer) Beep(_ context.Context, _ int, _ time.Duration) error {
	_, err := io.WriteString(p.W, "\a")
	return err
}

// Select returns the player for the named backend.
// "auto" prefers an audio command and falls back to the terminal bell.
func Select(backend string) (Player, error) {
	switch backend {
	case BackendNone:
		return nil, fmt.Errorf("backend %q: %w", backend, ErrUnavailable)
	case BackendBell:
		return BellPlayer{W: os.Stderr}, nil
	case BackendCommand:
		p, err := Detect(runtime.GOOS, exec.LookPath)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendAuto, "":
		p, err := Detect(runtime.GOOS, exec.LookPath)
		if err != nil {
			log.Debug(log.CatSound, "falling back to terminal bell", "error", err)
			return BellPlayer{W: os.Stderr}, nil
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}
