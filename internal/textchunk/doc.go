// Package textchunk splits arbitrary text into bounded chunks sized for one
// synthesis call each. Splitting prefers sentence boundaries, falls back to
// clause punctuation for oversized sentences, and hard-cuts as a last
// resort, so a chunk never exceeds the configured bound by construction.
package textchunk
