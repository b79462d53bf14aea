// Package generation synthesizes narration audio for an item.
//
// The narration source (cleaned text when available, raw otherwise) is split
// into bounded chunks, each chunk is synthesized with overflow-halving retry,
// word timing is aligned best effort, and the combined samples are encoded
// to MP3. Progress is recorded per chunk so long documents stay observable.
package generation
