// Package rounds fetches a single round's standings from the league's per-team search endpoint.
//
// The endpoint answers one team at a time, so a round is assembled from one request
// per team issued in parallel. Failed team requests are logged and left out. Because
// the per-team answers are not ranked against each other, the merged round is
// re-ranked client-side into a dense 1..N sequence.
package rounds
