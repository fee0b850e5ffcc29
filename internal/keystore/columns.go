package keystore

import (
	"strings"

	"prism/internal/fields"
	"prism/internal/keys"
)

// keyColumns lists the keys table columns in catalog order.
var keyColumns = func() []string {
	catalogKeys := fields.Default().Keys()
	out := make([]string, len(catalogKeys))
	for i, key := range catalogKeys {
		out[i] = `"` + strings.ToLower(key) + `"`
	}
	return out
}()

var (
	selectKeysSQL = "SELECT " + strings.Join(keyColumns, ", ") + " FROM keys"
	insertKeySQL  = "INSERT INTO keys (import_id, " + strings.Join(keyColumns, ", ") +
		") VALUES (?" + strings.Repeat(", ?", len(keyColumns)) + ")"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (keys.Record, error) {
	values := make([]string, len(keyColumns))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := row.Scan(dest...); err != nil {
		return keys.Record{}, err
	}
	return keys.ParseValues(values)
}
