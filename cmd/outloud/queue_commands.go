package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"outloud/internal/queue"
)

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func requireItem(cmd *cobra.Command, ctx *commandContext, arg string) (*queue.Item, error) {
	id, err := parseItemID(arg)
	if err != nil {
		return nil, err
	}
	store, err := ctx.ensureStore()
	if err != nil {
		return nil, err
	}
	item, err := store.GetByID(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d not found", id)
	}
	return item, nil
}

// requireSettledItem rejects resets while the worker may be mid-stage.
func requireSettledItem(cmd *cobra.Command, ctx *commandContext, arg string) (*queue.Item, error) {
	item, err := requireItem(cmd, ctx, arg)
	if err != nil {
		return nil, err
	}
	if queue.IsProcessingStage(item.Stage) {
		return nil, fmt.Errorf("item %d is still processing (stage %s); wait for it to settle", item.ID, item.Stage)
	}
	return item, nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var stageFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			var stages []queue.Stage
			if stageFilter != "" {
				parsed, ok := queue.ParseStage(stageFilter)
				if !ok {
					return fmt.Errorf("unknown stage %q", stageFilter)
				}
				stages = append(stages, parsed)
			}
			items, err := store.List(cmd.Context(), stages...)
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items tracked")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				detail := item.Progress
				if item.Stage == queue.StageError {
					detail = item.ErrorMessage
				}
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					displayTitle(item),
					string(item.SourceKind),
					string(item.Stage),
					item.Voice,
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Source", "Stage", "Voice", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&stageFilter, "stage", "", "Only show items in this stage")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			summary, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}
			rows := [][]string{
				{"queued", strconv.Itoa(summary.Queued)},
				{"processing", strconv.Itoa(summary.Processing)},
				{"ready", strconv.Itoa(summary.Ready)},
				{"completed", strconv.Itoa(summary.Completed)},
				{"errored", strconv.Itoa(summary.Errored)},
				{"total", strconv.Itoa(summary.Total)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"State", "Items"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item and its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			item, err := requireSettledItem(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			for _, path := range []string{
				filepath.Join(cfg.Paths.TextsDir, item.RawTextName()),
				filepath.Join(cfg.Paths.TextsDir, item.CleanedTextName()),
				filepath.Join(cfg.Paths.AudioDir, item.AudioName()),
				filepath.Join(cfg.Paths.AudioDir, item.TimestampsName()),
			} {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove artifact %s: %w", path, err)
				}
			}

			removed, err := store.Remove(cmd.Context(), item.ID)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("item %d not found", item.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d removed\n", item.ID)
			return nil
		},
	}
}

func newClearCompletedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove all completed items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			count, err := store.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed items\n", count)
			return nil
		},
	}
}

func newMarkCompletedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-completed <id>",
		Short: "Acknowledge a ready item as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := requireItem(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			if item.Stage != queue.StageReady {
				return fmt.Errorf("item %d is %s, not ready", item.ID, item.Stage)
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			marked, err := store.MarkCompleted(cmd.Context(), item.ID)
			if err != nil {
				return err
			}
			if !marked {
				return fmt.Errorf("item %d not found", item.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d marked completed\n", item.ID)
			return nil
		},
	}
}

func newReprocessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess <id>",
		Short: "Re-run the full pipeline for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := requireSettledItem(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if err := store.ResetForReprocessing(cmd.Context(), item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d queued for reprocessing\n", item.ID)
			return nil
		},
	}
}

func newRecleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reclean <id>",
		Short: "Redo cleanup and everything after it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			item, err := requireSettledItem(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if err := removeArtifacts(cfg.Paths.TextsDir, item.CleanedTextName()); err != nil {
				return err
			}
			if err := removeArtifacts(cfg.Paths.AudioDir, item.AudioName(), item.TimestampsName()); err != nil {
				return err
			}
			if err := store.ResetForCleaning(cmd.Context(), item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d queued for cleanup redo\n", item.ID)
			return nil
		},
	}
}

func newRevoiceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revoice <id> <voice>",
		Short: "Regenerate audio with a different voice",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := requireSettledItem(cmd, ctx, args[0])
			if err != nil {
				return err
			}
			voice := strings.TrimSpace(args[1])
			if voice == "" {
				return fmt.Errorf("voice is required")
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			// The old voice's audio stays on disk; the new voice gets its
			// own artifact name, so only the references need clearing.
			if err := store.ResetForAudio(cmd.Context(), item.ID, voice); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d queued for regeneration with voice %s\n", item.ID, voice)
			return nil
		},
	}
}

func removeArtifacts(dir string, names ...string) error {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove artifact %s: %w", path, err)
		}
	}
	return nil
}
