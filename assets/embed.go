// Package assets embeds the default character pool and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed characters.json sql/*.sql
var FS embed.FS

// CharactersJSON returns the bundled default pool as raw JSON.
func CharactersJSON() ([]byte, error) {
	return FS.ReadFile("characters.json")
}

// Migrations returns the sql/ directory as its own filesystem root.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded at build time; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
