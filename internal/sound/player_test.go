package sound

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRun struct {
	name  string
	args  []string
	stdin []byte
}

func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func recordingRunner(runs *[]recordedRun) runFunc {
	return func(_ context.Context, name string, args []string, stdin []byte) error {
		rec := recordedRun{name: name, args: args, stdin: stdin}
		// Temp files are removed after the run; check existence while running.
		for _, a := range args {
			if _, err := os.Stat(a); err == nil {
				rec.stdin = []byte("file-exists")
			}
		}
		*runs = append(*runs, rec)
		return nil
	}
}

func TestDetect_PicksFirstInstalled(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      string
	}{
		{"linux aplay preferred", "linux", []string{"paplay", "aplay"}, "aplay"},
		{"linux paplay fallback", "linux", []string{"paplay"}, "paplay"},
		{"linux pipewire", "linux", []string{"pw-play"}, "pw-play"},
		{"darwin afplay", "darwin", []string{"afplay"}, "afplay"},
		{"windows powershell", "windows", []string{"powershell"}, "powershell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Detect(tt.goos, fakeLookPath(tt.installed...))
			require.NoError(t, err)
			require.Equal(t, tt.want, p.Name())
		})
	}
}

func TestDetect_NothingInstalled(t *testing.T) {
	_, err := Detect("linux", fakeLookPath())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = Detect("plan9", fakeLookPath("aplay"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCommandPlayer_Stdin(t *testing.T) {
	var runs []recordedRun
	p, err := Detect("linux", fakeLookPath("aplay"))
	require.NoError(t, err)
	p.run = recordingRunner(&runs)

	require.NoError(t, p.Beep(context.Background(), 1000, 150*time.Millisecond))

	require.Len(t, runs, 1)
	assert.Equal(t, "/usr/bin/aplay", runs[0].name)
	assert.Equal(t, []string{"-q", "-"}, runs[0].args)
	want, err := ToneWAV(1000, 150*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, want, runs[0].stdin)
}

func TestCommandPlayer_BadFrequency(t *testing.T) {
	var runs []recordedRun
	p, err := Detect("linux", fakeLookPath("aplay"))
	require.NoError(t, err)
	p.run = recordingRunner(&runs)

	require.Error(t, p.Beep(context.Background(), 0, 150*time.Millisecond))
	require.Empty(t, runs)
}

func TestCommandPlayer_TempFile(t *testing.T) {
	var runs []recordedRun
	p, err := Detect("darwin", fakeLookPath("afplay"))
	require.NoError(t, err)
	p.run = recordingRunner(&runs)

	require.NoError(t, p.Beep(context.Background(), 500, 150*time.Millisecond))

	require.Len(t, runs, 1)
	require.Len(t, runs[0].args, 1)
	assert.Equal(t, []byte("file-exists"), runs[0].stdin, "tone file should exist during playback")

	_, statErr := os.Stat(runs[0].args[0])
	assert.True(t, os.IsNotExist(statErr), "tone file should be removed after playback")
}

func TestCommandPlayer_Args(t *testing.T) {
	var runs []recordedRun
	p, err := Detect("windows", fakeLookPath("powershell"))
	require.NoError(t, err)
	p.run = recordingRunner(&runs)

	require.NoError(t, p.Beep(context.Background(), 500, 150*time.Millisecond))

	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].args, "[console]::beep(500,150)")
}

func TestCommandPlayer_RunErrorReturned(t *testing.T) {
	p, err := Detect("linux", fakeLookPath("aplay"))
	require.NoError(t, err)
	p.run = func(context.Context, string, []string, []byte) error {
		return errors.New("device busy")
	}

	require.EqualError(t, p.Beep(context.Background(), 500, 10*time.Millisecond), "device busy")
}

func TestBellPlayer_WritesBEL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BellPlayer{W: &buf}.Beep(context.Background(), 1000, time.Second))
	require.Equal(t, "\a", buf.String())
}

func TestSelect(t *testing.T) {
	_, err := Select(BackendNone)
	require.ErrorIs(t, err, ErrUnavailable)

	p, err := Select(BackendBell)
	require.NoError(t, err)
	require.IsType(t, BellPlayer{}, p)

	p, err = Select(BackendAuto)
	require.NoError(t, err, "auto always degrades to the bell")
	require.NotNil(t, p)

	_, err = Select("trumpet")
	require.Error(t, err)
}
