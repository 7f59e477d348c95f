// Package cli implements the command-line interface for liga-rankings.
//
// The cli package provides the Cobra-based CLI: serve runs the dashboard with
// periodic fetch cycles, fetch runs one cycle and prints a round table (text or
// JSON), and notify posts round digests from the saved snapshot. It wires the
// config, scraper, rounds, aggregator, storage, web and notifier packages.
package cli
