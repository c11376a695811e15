// ABOUTME: Resolves user-typed ids, accepting either a full id or its short suffix.
package storage

import (
	"context"
	"fmt"
	"strings"
)

var resolvableTables = map[string]bool{
	"sessions":          true,
	"session_exercises": true,
	"set_entries":       true,
	"exercises":         true,
}

// ResolveID finds the full id in table matching idOrSuffix exactly or by
// trailing characters, as printed by models.ShortID. Matching ignores case.
func (t *Tx) ResolveID(table, idOrSuffix string) (string, error) {
	if !resolvableTables[table] {
		return "", fmt.Errorf("resolve id: unknown table %s", table)
	}
	idOrSuffix = strings.TrimSpace(idOrSuffix)
	if idOrSuffix == "" {
		return "", fmt.Errorf("resolve id: empty id")
	}

	ids, err := t.queryIDs(`SELECT id FROM `+table+` WHERE id = ? OR id LIKE '%' || ?`, idOrSuffix, idOrSuffix)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	for _, id := range ids {
		if strings.EqualFold(id, idOrSuffix) {
			return id, nil
		}
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("%s: %w", idOrSuffix, ErrNotFound)
	}
	if len(ids) > 1 {
		return "", fmt.Errorf("ambiguous id %s: matches %d records", idOrSuffix, len(ids))
	}
	return ids[0], nil
}

// ResolveID runs Tx.ResolveID in its own read transaction.
func (d *DB) ResolveID(ctx context.Context, table, idOrSuffix string) (string, error) {
	var id string
	err := d.View(ctx, func(tx *Tx) error {
		var err error
		id, err = tx.ResolveID(table, idOrSuffix)
		return err
	})
	return id, err
}
