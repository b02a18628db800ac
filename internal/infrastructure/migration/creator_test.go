package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Farm Sensors", "sensor readings table")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_farm_sensors.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_farm_sensors.down.sql"))

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "Add Farm Sensors")
	assert.Contains(t, string(upContent), "sensor readings table")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_users_table", sanitizeName("Add Users Table"))
	assert.Equal(t, "fix_cashout_index", sanitizeName("fix-cashout-index"))
	assert.Equal(t, "v2_schema", sanitizeName("  V2  Schema  "))
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty directory", func(t *testing.T) {
		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(dir, "nope"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("pairs counted once", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init.up.sql"), []byte("--"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init.down.sql"), []byte("--"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0644))

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, migrations)
	})
}
