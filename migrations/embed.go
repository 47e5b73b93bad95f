// Package migrations embeds the goose migrations of both stores.
package migrations

import "embed"

//go:embed authors/*.sql
var Authors embed.FS

//go:embed books/*.sql
var Books embed.FS
