package catalog

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// LoadSQLite replaces the catalog with rows from the videos table of the SQLite
// database at path. The database is opened read-only:
//
//	CREATE TABLE videos (id TEXT PRIMARY KEY, size_mb INTEGER NOT NULL, title TEXT)
func (c *Catalog) LoadSQLite(path string) error {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("catalog sqlite open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, size_mb, COALESCE(title, '') FROM videos ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("catalog sqlite query %s: %w", path, err)
	}
	defer rows.Close()
	var videos []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SizeMB, &e.Title); err != nil {
			return fmt.Errorf("catalog sqlite scan: %w", err)
		}
		videos = append(videos, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("catalog sqlite rows: %w", err)
	}
	if err := validate(videos); err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	c.Replace(videos)
	return nil
}
