// Package ports defines the interfaces that connect the application layer
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [ChunkSender]: ships chunks produced by loops to their destination
//   - [HTTPClient]: HTTP transport used by the http adapter
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them with UDP sockets, files and
// HTTP requests.
package ports
