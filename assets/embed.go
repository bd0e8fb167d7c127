// Package assets holds files compiled into the server binary:
// the board page, the offline trivia deck, and SQL migrations.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed index.html deck.json sql/*.sql
var FS embed.FS

// IndexHTML returns the single-page board UI.
func IndexHTML() ([]byte, error) {
	return FS.ReadFile("index.html")
}

// DeckJSON returns the embedded offline trivia deck.
func DeckJSON() ([]byte, error) {
	return FS.ReadFile("deck.json")
}

// Migration is one embedded SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded sql/*.sql scripts in lexical order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(FS, "sql")
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			continue
		}
		b, err := FS.ReadFile(path.Join("sql", e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
