// Package migrations embeds the marketplace schema migrations so the server
// bootstrap and the integration tests run the exact same SQL.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.NewProvider instead of relying on a filesystem path at
// runtime; the gear, itinerary, and companion-request tables all come from
// these files.
//
//go:embed *.sql
var FS embed.FS
