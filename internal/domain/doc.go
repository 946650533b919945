// Package domain contains the entities shared by the loopship application
// layer.
//
// It has no dependencies on infrastructure concerns (sockets, file system,
// logging) and holds only configuration data and its invariants.
//
// # Entities
//
//   - [Frame]: packet metadata (label, destination, sending rate) attached
//     to every chunk a loop produces
package domain
