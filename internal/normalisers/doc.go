// Package normalisers provides implementations of the Normaliser interface
// for the document formats ContextGuard can import. Each normaliser turns
// one family of MIME types into plain text with one paragraph per line.
//
// Normalisers are registered with a Registry at startup; DefaultRegistry
// returns one with every built-in format.
package normalisers
