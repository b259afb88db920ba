package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedMigrations(t *testing.T) {
	migrations, err := Load()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_image_blobs", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS image_blobs")
	assert.Equal(t, 2, migrations[1].Version)
	assert.Contains(t, migrations[1].SQL, "CREATE TABLE IF NOT EXISTS analyses")
}

func TestReadMigrationFiles_SortsAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.sql":    {Data: []byte("SELECT 10;")},
		"002_second.sql":   {Data: []byte("SELECT 2;")},
		"README.md":        {Data: []byte("docs")},
		"notes_bad.sql":    {Data: []byte("SELECT 0;")},
		"nested/003_x.sql": {Data: []byte("SELECT 3;")},
	}
	migrations, err := readMigrationFiles(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, "second", migrations[0].Name)
	assert.Equal(t, 10, migrations[1].Version)
}

func TestReadMigrationFiles_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := readMigrationFiles(fsys)
	assert.Error(t, err)
}
