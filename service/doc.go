// Package service orchestrates the core components of the matching
// engine — the book, sequencing, and the fill event ring.
//
// It provides a clean API for submitting instructions and querying
// depth, decoupled from transports like the console or HTTP.
package service
