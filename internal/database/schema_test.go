package database

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"interior-design-backend/internal/models"
)

var createTable = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

var columnLine = regexp.MustCompile(`(?m)^\s+([a-z_]+) `)

// Models and the SQL migrations are maintained separately; every mapped column must exist in both.
func TestModelColumnsMatchMigrations(t *testing.T) {
	raw, err := migrationsFS.ReadFile("migrations/001_initial_schema.sql")
	require.NoError(t, err)

	tables := map[string]map[string]bool{}
	for _, m := range createTable.FindAllStringSubmatch(string(raw), -1) {
		cols := map[string]bool{}
		for _, c := range columnLine.FindAllStringSubmatch(m[2], -1) {
			cols[c[1]] = true
		}
		tables[m[1]] = cols
	}

	cache := &sync.Map{}
	for _, model := range []interface{}{&models.Project{}, &models.Room{}, &models.Design{}, &models.Upload{}} {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		cols, ok := tables[s.Table]
		require.True(t, ok, "no CREATE TABLE for %s", s.Table)
		for _, f := range s.Fields {
			if f.DBName == "" {
				continue
			}
			assert.True(t, cols[f.DBName], "%s.%s is not in the migration", s.Table, f.DBName)
		}
	}
}
