// Package migrations contains embedded SQL migrations for the receipt journal.
package migrations

import "embed"

//go:embed receipts/*.sql
var ReceiptsFS embed.FS
