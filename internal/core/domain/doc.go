// Package domain defines the core business entities for FinQA.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Message: One committed conversation entry (user or assistant)
//   - Source: A retrieved passage supporting an answer
//   - Exchange: The transient state of one in-flight question
//   - Settings: User configuration for the client
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
