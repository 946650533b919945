// Package content provides the standard content model encoded by payloads:
// typed parameters, fixed-size sequences of parameters and watched files.
//
// Every content type is a Field. Fields report their own changes through
// Subscribe, which makes them usable as reactive payload content:
//
//	counter := content.NewParameter("counter", content.Int, 0)
//	status := content.NewParameter("status", content.String, "ok")
//	seq := content.NewSequence("housekeeping", 12, counter, status)
//	p, _ := payload.New[*content.Sequence](content.EncodeSequence, seq)
//
//	counter.Set(42) // loops over p re-encode the sequence
//
// Standard scalar types are String (UTF-8), Int (32-bit big-endian),
// Long (64-bit big-endian), Double (IEEE-754 big-endian), Bool (one byte) and
// Hex (raw bytes written as a hex literal).
package content
