// Package substitution implements a character substitution codec.
//
// Every character of an alphabet is mapped to a unique two-rune token. A Mapping
// (the "language") holds the association in both directions, and a Codec uses it to
// encrypt text token by token and to decrypt it chunk by chunk.
// Two parties can exchange messages only when they share the same Mapping.
//
// The codec is an obfuscation scheme, not a cryptographic cipher.
package substitution
