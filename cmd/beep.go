package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tickwatch/internal/cue"
	"github.com/zjrosen/tickwatch/internal/sound"
)

var beepCmd = &cobra.Command{
	Use:       "beep [low|high]",
	Short:     "Play one cue to check the audio backend",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"low", "high"},
	RunE:      runBeep,
}

func init() {
	rootCmd.AddCommand(beepCmd)
}

func runBeep(cmd *cobra.Command, args []string) error {
	tone := cue.High
	if len(args) == 1 {
		var ok bool
		if tone, ok = cue.ParseTone(args[0]); !ok {
			return fmt.Errorf("unknown tone %q (want low or high)", args[0])
		}
	}

	player, err := sound.Select(cfg.AudioBackend())
	if err != nil {
		return fmt.Errorf("selecting audio backend: %w", err)
	}

	freqs := cue.Frequencies{LowHz: cfg.Cue.LowHz, HighHz: cfg.Cue.HighHz}
	if err := player.Beep(cmd.Context(), freqs.Hz(tone), cfg.Cue.Duration); err != nil {
		return fmt.Errorf("playing %s cue: %w", tone, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Played %s cue (%d Hz, %s)\n", tone, freqs.Hz(tone), cfg.Cue.Duration)
	return nil
}
