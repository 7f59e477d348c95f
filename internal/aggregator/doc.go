// Package aggregator builds the complete round-indexed rankings for a season.
//
// A fetch cycle scrapes the season standings once, takes the team names from it,
// then fetches every round in sequential batches whose rounds run concurrently.
// Progress moves from 0 to 100 and never decreases. The Aggregator is the only
// writer of its State; readers take deep-copied snapshots.
package aggregator
