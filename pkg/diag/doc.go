// Package diag carries build-time diagnostics.
//
// Every stage of the compiler appends to a List instead of returning at the
// first problem, so authors see every violation in one pass. A List is
// sorted by source position (declaration order breaks ties) before it is
// reported, which keeps output reproducible across runs.
package diag
