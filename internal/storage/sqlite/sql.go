package sqlite

import (
	"fmt"
	"strings"

	"github.com/chrissnell/thermocline/internal/storage"
	"github.com/chrissnell/thermocline/internal/thermocline"
)

const tableName = "thermocline_features"

var featureColumns = func() []string {
	keys := thermocline.Keys()
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = storage.Column(k)
	}
	return cols
}()

func createTableSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", tableName)
	b.WriteString("    id TEXT PRIMARY KEY,\n")
	b.WriteString("    profile TEXT NOT NULL,\n")
	b.WriteString("    created_at TEXT NOT NULL")
	for _, c := range featureColumns {
		fmt.Fprintf(&b, ",\n    %s REAL NULL", c)
	}
	b.WriteString("\n);")
	return b.String()
}

const createProfileIndexSQL = `CREATE INDEX IF NOT EXISTS idx_thermocline_features_profile ON thermocline_features (profile);`

func insertSQL() string {
	cols := append([]string{"id", "profile", "created_at"}, featureColumns...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(cols, ", "), marks)
}

func selectByIDSQL() string {
	cols := append([]string{"id", "profile", "created_at"}, featureColumns...)
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(cols, ", "), tableName)
}
