package queue

import (
	"strings"
	"time"
)

// Stage represents an item's position in the processing pipeline.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageExtracting Stage = "extracting"
	StageExtracted  Stage = "extracted"
	StageCleaning   Stage = "cleaning"
	StageCleaned    Stage = "cleaned"
	StageGenerating Stage = "generating"
	StageReady      Stage = "ready"
	StageCompleted  Stage = "completed"
	StageError      Stage = "error"
)

var allStages = []Stage{
	StageQueued,
	StageExtracting,
	StageExtracted,
	StageCleaning,
	StageCleaned,
	StageGenerating,
	StageReady,
	StageCompleted,
	StageError,
}

var stageSet = func() map[Stage]struct{} {
	set := make(map[Stage]struct{}, len(allStages))
	for _, stage := range allStages {
		set[stage] = struct{}{}
	}
	return set
}()

// processingStages are the in-flight stages a crashed worker can leave behind.
var processingStages = map[Stage]struct{}{
	StageExtracting: {},
	StageCleaning:   {},
	StageGenerating: {},
}

// terminalStages are stages the worker never picks up on its own.
var terminalStages = map[Stage]struct{}{
	StageReady:     {},
	StageCompleted: {},
	StageError:     {},
}

// SourceKind identifies how an item's text enters the pipeline.
type SourceKind string

const (
	SourcePDF  SourceKind = "pdf"
	SourceURL  SourceKind = "url"
	SourceText SourceKind = "text"
)

var sourceKinds = map[SourceKind]struct{}{
	SourcePDF:  {},
	SourceURL:  {},
	SourceText: {},
}

// ParseSourceKind converts a string into a known SourceKind.
func ParseSourceKind(value string) (SourceKind, bool) {
	normalized := SourceKind(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := sourceKinds[normalized]
	return normalized, ok
}

// Item represents a tracked document persisted in SQLite.
type Item struct {
	ID             int64
	Title          string
	SourceKind     SourceKind
	SourceRef      string
	ContentHash    string
	Voice          string
	Speed          float64
	Stage          Stage
	RawTextRef     string
	CleanedTextRef string
	AudioRef       string
	TimestampsRef  string
	ErrorMessage   string
	Progress       string
	WasCleaned     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// HealthSummary describes aggregated item counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Queued     int
	Processing int
	Ready      int
	Completed  int
	Errored    int
}

// AllStages returns the ordered list of known stages.
func AllStages() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// ParseStage converts a string into a known Stage.
func ParseStage(value string) (Stage, bool) {
	normalized := Stage(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stageSet[normalized]
	return normalized, ok
}

// IsProcessingStage reports whether a stage reflects an in-flight operation.
func IsProcessingStage(stage Stage) bool {
	_, ok := processingStages[stage]
	return ok
}

// IsTerminalStage reports whether a stage takes the item out of the
// worker's pending set.
func IsTerminalStage(stage Stage) bool {
	_, ok := terminalStages[stage]
	return ok
}

// IsProcessing returns true when the item is mid-stage.
func (i Item) IsProcessing() bool {
	return IsProcessingStage(i.Stage)
}

// IsTerminal returns true when the worker has nothing left to do for the item.
func (i Item) IsTerminal() bool {
	return IsTerminalStage(i.Stage)
}
