package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"outloud/internal/contentid"
	"outloud/internal/extract"
	"outloud/internal/queue"
	"outloud/internal/stage"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title string
		voice string
		speed float64
		text  string
	)

	cmd := &cobra.Command{
		Use:   "add [pdf-path | url | -]",
		Short: "Queue a document for narration",
		Long: `Queue a PDF file, a web URL, or pasted text for narration.
Pass "-" (or --text) to read pasted text; "-" reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if voice == "" {
				voice = cfg.TTS.DefaultVoice
			}
			if speed == 0 {
				speed = cfg.TTS.DefaultSpeed
			}

			source := ""
			if len(args) == 1 {
				source = strings.TrimSpace(args[0])
			}

			var item *queue.Item
			switch {
			case text != "" || source == "-":
				pasted := text
				if pasted == "" {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
					pasted = string(data)
				}
				item, err = addText(cmd, ctx, pasted, title, voice, speed)
			case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
				item, err = store.NewItem(cmd.Context(), queue.NewItemParams{
					Title:      title,
					SourceKind: queue.SourceURL,
					SourceRef:  source,
					Voice:      voice,
					Speed:      speed,
				})
			case source != "":
				item, err = addPDF(cmd, ctx, source, title, voice, speed)
			default:
				return fmt.Errorf("nothing to add: pass a PDF path, a URL, or \"-\" for pasted text")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Queued item %d (%s)\n", item.ID, displayTitle(item))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Override the document title")
	cmd.Flags().StringVar(&voice, "voice", "", "Synthesis voice (defaults to the configured voice)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Speech speed multiplier (defaults to the configured speed)")
	cmd.Flags().StringVar(&text, "text", "", "Pasted text to narrate")
	return cmd
}

func addPDF(cmd *cobra.Command, ctx *commandContext, source, title, voice string, speed float64) (*queue.Item, error) {
	store, err := ctx.ensureStore()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source path %q is a directory", absPath)
	}
	if !strings.EqualFold(filepath.Ext(absPath), ".pdf") {
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(absPath))
	}

	hash, err := contentid.HashFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("fingerprint source file: %w", err)
	}
	if existing, err := store.GetByHash(cmd.Context(), hash); err != nil {
		return nil, err
	} else if existing != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Already tracked as item %d\n", existing.ID)
		return existing, nil
	}

	if title == "" {
		title = extract.TitleFromFilename(filepath.Base(absPath))
	}
	return store.NewItem(cmd.Context(), queue.NewItemParams{
		Title:       title,
		SourceKind:  queue.SourcePDF,
		SourceRef:   absPath,
		ContentHash: hash,
		Voice:       voice,
		Speed:       speed,
	})
}

func addText(cmd *cobra.Command, ctx *commandContext, pasted, title, voice string, speed float64) (*queue.Item, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := ctx.ensureStore()
	if err != nil {
		return nil, err
	}

	result, err := extract.New(cfg).FromText(pasted, title)
	if err != nil {
		return nil, err
	}

	hash := contentid.HashText(result.Text)
	if existing, err := store.GetByHash(cmd.Context(), hash); err != nil {
		return nil, err
	} else if existing != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Already tracked as item %d\n", existing.ID)
		return existing, nil
	}

	item, err := store.NewItem(cmd.Context(), queue.NewItemParams{
		Title:       result.Title,
		SourceKind:  queue.SourceText,
		ContentHash: hash,
		Voice:       voice,
		Speed:       speed,
	})
	if err != nil {
		return nil, err
	}

	// The raw artifact is written at ingest so the extraction stage only has
	// to record the transition.
	name, err := stage.WriteArtifact(cfg.Paths.TextsDir, item.RawTextName(), result.Text)
	if err != nil {
		return nil, err
	}
	if err := store.UpdateStage(cmd.Context(), item.ID, queue.StageQueued, &queue.StageUpdates{RawTextRef: &name}); err != nil {
		return nil, err
	}
	item.RawTextRef = name
	return item, nil
}

func displayTitle(item *queue.Item) string {
	if strings.TrimSpace(item.Title) != "" {
		return item.Title
	}
	if item.SourceRef != "" {
		return item.SourceRef
	}
	return string(item.SourceKind)
}
