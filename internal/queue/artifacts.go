package queue

import "fmt"

// ArtifactKey returns the key artifact filenames are derived from. Hashed
// sources use the content hash; URL items, which carry no hash, fall back to
// a key derived from the item id so names stay deterministic across re-entry.
func (i Item) ArtifactKey() string {
	if i.ContentHash != "" {
		return i.ContentHash
	}
	return fmt.Sprintf("item-%d", i.ID)
}

// RawTextName returns the filename for the item's raw extracted text.
func (i Item) RawTextName() string {
	return i.ArtifactKey() + "_raw.txt"
}

// CleanedTextName returns the filename for the item's cleaned text.
func (i Item) CleanedTextName() string {
	return i.ArtifactKey() + "_cleaned.txt"
}

// AudioName returns the filename for the item's narrated audio, which
// includes the voice so a regeneration with a different voice never
// collides with an existing file.
func (i Item) AudioName() string {
	return fmt.Sprintf("%s_%s.mp3", i.ArtifactKey(), i.Voice)
}

// TimestampsName returns the filename for the item's word timing data.
func (i Item) TimestampsName() string {
	return fmt.Sprintf("%s_%s_timestamps.json", i.ArtifactKey(), i.Voice)
}
