// Package team provides the record types shared by the league ranking pipeline.
//
// A Record is one team's line in a round's standings. Rankings maps a round
// identifier ("0" for season totals, "1".."N" for individual rounds) to the
// ordered records of that round. Within a round, positions always form a dense
// 1-based sequence once Rerank has been applied.
package team
