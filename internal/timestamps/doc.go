// Package timestamps reconstructs word-level timing for narrated audio from
// the duration model's frame predictions. Predicted times are linearly
// rescaled to the measured audio length, then grouped by sentence for
// player consumption. Alignment is strictly best-effort: any failure maps
// to ErrUnavailable and the narration ships without timing.
package timestamps
