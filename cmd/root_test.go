package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tickwatch/internal/config"
	"github.com/zjrosen/tickwatch/internal/cue"
	"github.com/zjrosen/tickwatch/internal/sound"
)

// execute runs the root command with args in an isolated environment and
// returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so tests do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigCmd_Defaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)

	require.Contains(t, out, "# source: defaults")
	require.Contains(t, out, "interval: 1ms")
	require.Contains(t, out, "precision: 9")
	require.Contains(t, out, "backend: auto")
}

func TestConfigCmd_FileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, "display:\n  precision: 3\ncue:\n  high_hz: 1200\n")
	t.Setenv("TICKWATCH_CUE_LOW_HZ", "440")

	out, err := execute(t, "config", "--config", path, "--poll-interval", "4ms")
	require.NoError(t, err)

	require.Contains(t, out, "# source: "+path)
	require.Contains(t, out, "precision: 3")
	require.Contains(t, out, "high_hz: 1200")
	require.Contains(t, out, "low_hz: 440")
	require.Contains(t, out, "interval: 4ms")
}

func TestConfigCmd_PrecisionFlagOverridesFile(t *testing.T) {
	path := writeConfig(t, "display:\n  precision: 3\n")

	out, err := execute(t, "config", "--config", path, "--precision", "6")
	require.NoError(t, err)
	require.Contains(t, out, "precision: 6")
}

func TestConfigCmd_MuteFlag(t *testing.T) {
	out, err := execute(t, "config", "--mute")
	require.NoError(t, err)
	require.Contains(t, out, "enabled: false")
}

func TestConfigCmd_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "display:\n  precision: 12\n")

	_, err := execute(t, "config", "--config", path)
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestConfigCmd_MissingExplicitFile(t *testing.T) {
	_, err := execute(t, "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveConfigFile_LocalBeforeUser(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	path, err := resolveConfigFile("")
	require.NoError(t, err)
	require.Equal(t, "", path, "no config anywhere")

	userPath, err := config.DefaultConfigPath()
	require.NoError(t, err)
	require.NoError(t, config.WriteDefaultConfig(userPath))

	path, err = resolveConfigFile("")
	require.NoError(t, err)
	require.Equal(t, userPath, path)

	require.NoError(t, os.WriteFile(localConfigName, []byte("{}\n"), 0644))
	path, err = resolveConfigFile("")
	require.NoError(t, err)
	require.Equal(t, localConfigName, path)
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tw", "config.yaml")

	out, err := execute(t, "init", "--path", path)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))

	_, err = execute(t, "init", "--path", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "--force")

	_, err = execute(t, "init", "--path", path, "--force")
	require.NoError(t, err)
}

func TestRunCmd_Headless(t *testing.T) {
	out, err := execute(t, "run", "--mute", "--for", "60ms", "--report", "20ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)

	final := lines[len(lines)-1]
	require.Regexp(t, regexp.MustCompile(`^final \d+\.\d{9} s$`), final)

	for _, l := range lines[:len(lines)-1] {
		require.Regexp(t, regexp.MustCompile(`^\d+\.\d{9} s$`), l)
	}
}

func TestRunCmd_Precision(t *testing.T) {
	out, err := execute(t, "run", "--mute", "--for", "10ms", "--report", "0", "--precision", "3")
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^final \d+\.\d{3} s\n$`), out)
}

func TestKeysCmd(t *testing.T) {
	out, err := execute(t, "keys", "--no-color")
	require.NoError(t, err)
	require.Contains(t, out, "go/stop")
	require.Contains(t, out, "clear")
}

func TestBeepCmd_UnknownTone(t *testing.T) {
	_, err := execute(t, "beep", "--mute", "medium")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown tone")
}

func TestBeepCmd_AudioDisabled(t *testing.T) {
	_, err := execute(t, "beep", "--mute", "low")
	require.ErrorIs(t, err, sound.ErrUnavailable)
}

func TestDebugFlag_WritesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "tickwatch.log")
	path := writeConfig(t, "log:\n  file: "+logPath+"\n")

	_, err := execute(t, "config", "--config", path, "--debug")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "config loaded")
}

func TestSetup_BindsRootFlagsForSubcommands(t *testing.T) {
	_, err := execute(t, "run", "--mute", "--for", "5ms", "--report", "0", "--poll-interval", "2ms", "--precision", "2")
	require.NoError(t, err)
	require.Equal(t, 2*time.Millisecond, cfg.Poll.Interval)
	require.Equal(t, 2, cfg.Display.Precision)
	require.False(t, cfg.Cue.Enabled)
}

func TestNewCues_DisabledStartsMuted(t *testing.T) {
	c := config.Defaults()
	c.Cue.Backend = config.BackendBell
	c.Cue.Enabled = false

	dispatcher, worker := newCues(c)
	require.NotNil(t, worker, "a disabled but available backend still gets a worker")
	defer worker.Close()
	require.Same(t, worker, dispatcher)
	require.True(t, worker.Muted())

	c.Cue.Enabled = true
	_, enabled := newCues(c)
	require.NotNil(t, enabled)
	defer enabled.Close()
	require.False(t, enabled.Muted())
}

func TestNewCues_NoneBackendIsNop(t *testing.T) {
	c := config.Defaults()
	c.Cue.Backend = config.BackendNone

	dispatcher, worker := newCues(c)
	require.Nil(t, worker)
	require.Equal(t, cue.Nop{}, dispatcher)
}
