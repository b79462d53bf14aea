package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"outloud/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, ffmpeg, and service reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			required := 0
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "failed"
					if result.Optional {
						state = "degraded"
					} else {
						required++
					}
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if required > 0 {
				return fmt.Errorf("%d required check(s) failed", required)
			}
			return nil
		},
	}
}
