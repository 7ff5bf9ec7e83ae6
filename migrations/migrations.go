// Package migrations embeds the goose SQL migrations so both binaries can
// apply them without shipping the files alongside the container image.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
