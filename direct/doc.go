// Package direct implements the degenerate transport for engines that can
// call the host directly: the read/write contract with no buffering state
// in between.
//
// It covers the import-style and function-pointer strategies that predate
// the shared-buffer channel. Both reduce to a pair of caller-supplied
// functions, so the package models them as one Transport over plain Go
// funcs. It is interchangeable with channel.Stream at every engine call
// site.
package direct
