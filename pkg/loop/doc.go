// Package loop produces repeating, chunked byte streams.
//
// A Loop is an immutable description of a stream; each call to Iterator
// returns an independent, pull-based Iterator that owns at most one resource
// (an open file or a payload subscription) and must be closed by the caller.
//
// # Loop on a file
//
// FileLoop cuts a file into fixed-size chunks and replays it repeat times:
//
//	fl, err := loop.NewFileLoop("/data/telemetry.bin", 200, 2)
//	if err != nil {
//	    return err
//	}
//	it := fl.Iterator(ctx)
//	defer it.Close()
//	for it.HasNext() {
//	    chunk, err := it.Next()
//	    if err != nil {
//	        return err
//	    }
//	    // ship chunk...
//	}
//
// If the file size is not a multiple of the chunk size, the file is reopened
// to complete the chunk spanning its end, so a 5 byte file "ABCDE" read in
// chunks of 2 yields "AB", "CD", "EA", "BC", "DE", ...
//
// # Loop on a payload
//
// PayloadLoop returns the encoding of a payload on every pull. Computed
// payloads are re-encoded each time; reactive payloads are re-encoded only
// when their content signals a change.
//
// # Repeat
//
// Infinite (-1) loops until the iterator's context is cancelled. Zero, and
// any other negative value, produce no chunk and perform no I/O.
//
// # Version
//
// Current version: 1.0.0. The Version constant exposes it programmatically.
package loop
