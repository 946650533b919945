// Package log provides the logging abstraction shared by loopship packages.
//
// Loops, payload watchers and the streamer log through the Logger interface
// so that library users are not forced onto a particular logging backend.
// A zerolog adapter and a no-op logger are provided.
//
// # Usage
//
//	logger := log.NewConsoleAdapter(os.Stderr, zerolog.DebugLevel)
//	fl, err := loop.NewFileLoop(path, 200, -1, loop.WithLogger(logger))
//
// Or discard everything:
//
//	logger := log.NewNoopLogger()
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package log
