package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"outloud/internal/tts"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List voices offered by the speech service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client := tts.NewClient(cfg.TTS.ServiceURL, cfg.TTS.Timeout())
			voices, err := client.Voices(cmd.Context())
			if err != nil {
				return err
			}
			if len(voices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The speech service reported no voices")
				return nil
			}
			rows := make([][]string, 0, len(voices))
			for _, voice := range voices {
				name := voice.Name
				if name == "" {
					name = voice.ID
				}
				marker := ""
				if voice.ID == cfg.TTS.DefaultVoice {
					marker = "default"
				}
				rows = append(rows, []string{voice.ID, name, voice.Language, voice.Gender, marker})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Language", "Gender", ""},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
