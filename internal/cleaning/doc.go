// Package cleaning runs the optional LLM cleanup stage.
//
// When Ollama is reachable the raw text is rewritten in paragraph groups and
// persisted as the cleaned artifact; when it is not, the item moves on with
// raw text and was_cleaned stays false. A failure in any group fails the
// item rather than persisting a partially cleaned document.
package cleaning
