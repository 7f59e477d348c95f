// Package web serves the rankings dashboard.
//
// HTML pages show a round table with its totals table and the analytics
// (positions series, first places and prize pool). The same data is exposed as
// JSON under /api and as MCP tools under /mcp. Prometheus metrics are served at
// /metrics.
package web
