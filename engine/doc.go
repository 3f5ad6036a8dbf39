// Package engine provides a small reference engine that exercises a
// transport end to end, standing in for the query engine that normally sits
// behind the read/write contract.
//
// It pulls a request through Transport.Read exactly as a real engine would
// call a socket recv, computes a response, and pushes framed messages back
// through Transport.Write/Flush. The two entry points mirror the protocol
// shapes a database engine produces: a single tagged response (Echo) and a
// batch of data rows (Rows).
package engine
