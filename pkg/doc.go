// Package pkg provides the core libraries for badgepress badge generation.
//
// # Overview
//
// Badgepress turns an event roster into printable name badges. Each roster
// row selects a template image by category and ticket type; up to four text
// fields are drawn onto a copy of the template, centred on fixed rows. The
// rendered badges are then laid out two by two on PDF pages and zipped.
//
// # Architecture
//
// The typical data flow through badgepress:
//
//	Roster CSV
//	     ↓
//	[roster] package (parse rows, keep malformed rows as skips)
//	     ↓
//	[assets] package (category + ticket type → template image)
//	     ↓
//	[layout] package (draw text fields onto the template)
//	     ↓
//	[batch] package (one PNG per row, per-row outcomes)
//	     ↓
//	[sheet] package (PNG files → paginated PDF)
//	     ↓
//	[archive] package (output directory → zip)
//
// [pipeline] runs these stages for both the CLI and the HTTP server.
//
// # Main Packages
//
// [roster] - CSV decoding into records with line numbers.
//
// [assets] - The TOML template table and the resolver built from it.
//
// [fonts] - TrueType loading with the bundled Go Regular fallback.
//
// [layout] - Field table, font sizing rule and the text rendering engine.
//
// [batch] - Sequential batch rendering, output naming and summaries.
//
// [sheet] - Page planning and PDF assembly.
//
// [archive] - Deterministic zip archives and output directory cleaning.
//
// [cache] - Report store backends (null, file, Redis).
//
// [config] - Settings from the environment and .env files.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
// Run tests:
//
//	go test ./...
//
// [roster]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/roster
// [assets]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/assets
// [fonts]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/fonts
// [layout]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/layout
// [batch]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/batch
// [sheet]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/sheet
// [archive]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/archive
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/badgepress/pkg/observability
package pkg
