// Package cleanup rewrites extracted document text into narration-ready
// prose using a local Ollama model. Cleanup is best effort: when the service
// is unreachable the pipeline skips this stage and narrates the raw text.
package cleanup
