// Package model holds the immutable, typed representation of the optimizer's
// input and output documents: dates, rooms, reservations, the problem itself,
// and the restriction/result records derived from solving it.
//
// Nothing in this package touches a database, an HTTP request, or the MIP
// backend — it is pure data plus the parsing and validation needed to turn a
// JSON problem document into a Problem, and a Result back into JSON.
package model
