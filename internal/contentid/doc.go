// Package contentid fingerprints ingested source content so the same
// document is only ever tracked once. Fingerprints double as the key for
// on-disk artifact names, which is what makes stage re-entry idempotent.
package contentid
