package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-planner/internal/models"
)

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	config, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, AppDirName, SQLiteDBFileName), config.DatabasePath)
	assert.Nil(t, config.Solver)

	info, err := os.Stat(filepath.Join(home, AppDirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	saved := &AppConfig{
		DatabasePath: "/tmp/tours.db",
		Solver:       &models.RunOverrides{Generations: intPtr(250), PopulationSize: intPtr(80)},
	}
	require.NoError(t, SaveConfig(saved))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func intPtr(v int) *int { return &v }

func TestLoadConfig_PartialSolver(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path, err := GetConfigFilePath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(`{"solver":{"generations":50}}`), 0600))

	loaded, err := LoadConfig()

	require.NoError(t, err)
	require.NotNil(t, loaded.Solver)
	require.NotNil(t, loaded.Solver.Generations)
	assert.Equal(t, 50, *loaded.Solver.Generations)
	assert.Nil(t, loaded.Solver.PopulationSize, "absent fields stay unset")
	assert.Nil(t, loaded.Solver.TournamentSize)
}

func TestLoadConfig_EmptyDatabasePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, SaveConfig(&AppConfig{}))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, AppDirName, SQLiteDBFileName), loaded.DatabasePath)
}

func TestLoadConfig_Corrupt(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path, err := GetConfigFilePath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err = LoadConfig()

	assert.Error(t, err)
}
