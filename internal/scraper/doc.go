// Package scraper provides HTTP fetching and HTML parsing for the league's season standings.
//
// The scraper package fetches the public standings page from liga.record.pt and extracts
// one team record per standings row: position, team name, manager username and points.
// Parsing never fails; rows with missing fields produce empty strings and unparsable
// points produce zero.
package scraper
