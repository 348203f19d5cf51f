package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"rallytimesbot/pkg/config"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func seedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rally_data.json")
	m := records.NewManager(records.NewFileBackend(path), records.Policy{}, nil)
	for _, r := range []model.StageRecord{
		{Driver: "Carlos Sainz", Car: "Toyota Celica", ElapsedSeconds: 312.3, Stage: "SS2"},
		{Driver: "Colin McRae", Car: "Subaru Impreza", ElapsedSeconds: 95.5, Stage: "SS1"},
	} {
		_, err := m.Insert(context.Background(), r)
		require.NoError(t, err)
	}
	return path
}

func TestCLI_List(t *testing.T) {
	path := seedFile(t)

	out := runCLI(t, "list", "--data-file", path)
	assert.Contains(t, out, "Carlos Sainz")
	assert.Contains(t, out, "Colin McRae")

	out = runCLI(t, "list", "--data-file", path, "--tramo", "SS2")
	assert.Contains(t, out, "Carlos Sainz")
	assert.NotContains(t, out, "Colin McRae")
}

func TestCLI_StatsAndReset(t *testing.T) {
	path := seedFile(t)
	t.Setenv(config.KeyDataFile, path)

	out := runCLI(t, "stats")
	assert.Contains(t, out, "Líder: Colin McRae")

	out = runCLI(t, "reset")
	assert.Contains(t, out, "Base de datos reiniciada.")
	assert.NoFileExists(t, path)

	out = runCLI(t, "stats")
	assert.Contains(t, out, "Sin datos para analizar.")
}

func TestCLI_SQLiteBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rally.db")

	out := runCLI(t, "list", "--store-backend", "sqlite", "--sqlite-path", dbPath)
	assert.Contains(t, out, "No hay tiempos registrados")
}

func TestCLI_UnknownBackend(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"list", "--store-backend", "postgres"})
	assert.Error(t, cmd.Execute())
}
