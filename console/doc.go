// Package console implements the interactive text front end: a line
// parser for BUY/SELL/EXIT instructions, a read loop that drives the
// order service, and a ladder renderer for the book snapshot.
//
// Parse errors are reported per instruction and never abort the loop.
package console
