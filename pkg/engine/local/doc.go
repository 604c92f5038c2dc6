// Package local is the default host implementation of the engine capability
// contracts, backed by the local file system and arrow decoders.
//
// It exists so the protocol core and its conformance oracle can be exercised
// end to end without an external connector: the CLI runs conformance suites
// through it, and the package tests double as the contract's reference
// behavior. Connectors targeting object stores or custom decoders implement
// the same interfaces in pkg/engine instead of using this package.
package local
