// Package cmd implements the tickwatch command line.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/tickwatch/internal/clipboard"
	"github.com/zjrosen/tickwatch/internal/config"
	"github.com/zjrosen/tickwatch/internal/cue"
	"github.com/zjrosen/tickwatch/internal/log"
	"github.com/zjrosen/tickwatch/internal/sound"
	"github.com/zjrosen/tickwatch/internal/stopwatch"
	"github.com/zjrosen/tickwatch/internal/ui/watch"
)

// localConfigName is checked in the working directory before the user config.
const localConfigName = ".tickwatch.yaml"

var (
	cfgFile string
	debug   bool
	noColor bool

	v        *viper.Viper
	cfg      config.Config
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "tickwatch",
	Short: "A precision stopwatch for the terminal",
	Long: `tickwatch is a nanosecond-resolution stopwatch with audio cues.

A low tone marks start, stop and clear. A high tone marks every whole
second while the clock runs.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: runTUI,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default ./"+localConfigName+" or the user config dir)")
	flags.BoolVarP(&debug, "debug", "d", false, "write debug logs (to log.file or the temp dir)")
	flags.BoolVar(&noColor, "no-color", false, "disable colors")
	flags.Int("precision", config.Defaults().Display.Precision, "decimal places of seconds to display (0-9)")
	flags.Duration("poll-interval", config.Defaults().Poll.Interval, "time between polls")
	flags.Bool("mute", false, "disable audio cues")
}

// setup loads configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	v = viper.New()
	config.SetDefaults(v)
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("display.precision", flags.Lookup("precision")); err != nil {
		return fmt.Errorf("binding precision flag: %w", err)
	}
	if err := v.BindPFlag("poll.interval", flags.Lookup("poll-interval")); err != nil {
		return fmt.Errorf("binding poll-interval flag: %w", err)
	}

	v.SetEnvPrefix("TICKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolveConfigFile(cfgFile)
	if err != nil {
		return err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	if mute, _ := cmd.Flags().GetBool("mute"); mute {
		loaded.Cue.Enabled = false
	}
	if debug {
		loaded.Log.Debug = true
		if loaded.Log.File == "" {
			loaded.Log.File = filepath.Join(os.TempDir(), "tickwatch.log")
		}
	}
	cfg = loaded

	closeLog, err = log.Init(log.Options{Path: cfg.Log.File, Debug: cfg.Log.Debug})
	if err != nil {
		return err
	}
	log.Debug(log.CatConfig, "config loaded", "path", path)

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return nil
}

// resolveConfigFile returns the config file to read, or "" to run on defaults.
// An explicit path must exist; the implicit locations are optional.
func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	candidates := []string{localConfigName}
	if userPath, err := config.DefaultConfigPath(); err == nil {
		candidates = append(candidates, userPath)
	}
	for _, c := range candidates {
		_, err := os.Stat(c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking config %s: %w", c, err)
		}
	}
	return "", nil
}

// newCues builds the cue dispatcher for cfg. The worker is nil when the
// backend is unavailable, in which case cues are silently dropped. With
// cue.enabled off the worker still exists but starts muted, so a reload
// or the mute key can turn cues back on.
func newCues(c config.Config) (cue.Dispatcher, *cue.Worker) {
	player, err := sound.Select(c.Cue.Backend)
	if err != nil {
		log.Debug(log.CatCue, "audio cues disabled", "error", err)
		return cue.Nop{}, nil
	}

	worker := cue.NewWorker(cue.WorkerConfig{
		Player:      player,
		Frequencies: cue.Frequencies{LowHz: c.Cue.LowHz, HighHz: c.Cue.HighHz},
		QueueSize:   c.Cue.QueueSize,
		Muted:       !c.Cue.Enabled,
	})
	return worker, worker
}

func runTUI(cmd *cobra.Command, args []string) error {
	dispatcher, worker := newCues(cfg)
	if worker != nil {
		defer worker.Close()
	}

	engine := stopwatch.New(stopwatch.Config{
		Cues:        dispatcher,
		CueDuration: cfg.Cue.Duration,
	})

	opts := watch.Options{
		Engine:       engine,
		PollInterval: cfg.Poll.Interval,
		Precision:    cfg.Display.Precision,
		CuesEnabled:  cfg.Cue.Enabled,
		Clipboard:    clipboard.System{},
	}
	if worker != nil {
		opts.Cues = worker
	}

	p := tea.NewProgram(watch.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	watchConfig(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running stopwatch: %w", err)
	}
	return nil
}

// watchConfig forwards valid edits of the config file to the running program.
func watchConfig(p *tea.Program) {
	if v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Debug(log.CatConfig, "config file changed", "path", e.Name, "op", e.Op.String())
		updated, err := config.Load(v)
		if err != nil {
			log.ErrorErr(log.CatConfig, "ignoring invalid config", err, "path", e.Name)
			return
		}
		p.Send(watch.ConfigChangedMsg{Config: updated})
	})
	v.WatchConfig()
}
