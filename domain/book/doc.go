// Package book implements the in-memory matching core: a single
// instrument's bid and ask sides held in red-black trees of price
// levels, each level a FIFO queue of resting orders.
//
// Matching follows strict price-then-time priority. The four public
// operations on Book (market buy/sell, limit buy/sell) run to
// completion synchronously; the package holds no locks and must be
// driven from a single writer.
package book
