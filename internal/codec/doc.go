// Package codec implements the primitive value decoders shared by every
// schema generation: integers stored as recombined nibbles, day and
// tenth-of-minute based dates and times, unit-scaled durations, code page and
// UTF-16 text, GUIDs, and the byte-level stream obfuscation.
//
// Decoders take a buffer and an offset and trust the caller regarding
// bounds, exactly as slice indexing does. Callers parsing tag streams of
// unknown shape must check offsets with Within before decoding.
package codec
