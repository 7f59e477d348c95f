// Package views derives display data from a rankings snapshot: round tables,
// the totals table for a round, the positions series, first places and the
// prize pool. Every function is pure and leaves its input untouched.
package views
