package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"strings"
	"testing"
)

const session = "test_session"

func TestReadConfig(t *testing.T) {
	paths, err := setupConfigDirIn(t.TempDir())
	if err != nil {
		t.Fatal("Failed to set up temporary config directories")
	}

	config, err := ReadConfig(paths)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}

	if !strings.Contains(config.Server, "http") {
		t.Fatal("Invalid config server")
	}

	assert.Equal(t, defaultPageSize, config.PageSize)

	gitignore, err := os.ReadFile(paths.gitignore)
	require.Nil(t, err)
	assert.Contains(t, string(gitignore), sessionName)
}

func TestWriteConfig(t *testing.T) {
	paths, err := setupConfigDirIn(t.TempDir())
	require.Nil(t, err)

	err = WriteConfig(paths, Config{Server: "https://satchel.example.com/", PageSize: 10})
	require.Nil(t, err)

	config, err := ReadConfig(paths)
	require.Nil(t, err)
	assert.Equal(t, "https://satchel.example.com", config.Server)
	assert.Equal(t, 10, config.PageSize)

	require.Nil(t, os.WriteFile(paths.config, []byte("server: ''\n"), 0600))
	_, err = ReadConfig(paths)
	assert.NotNil(t, err)
}

func TestReadSession(t *testing.T) {
	paths, err := setupConfigDirIn(t.TempDir())
	if err != nil {
		t.Fatal("Failed to set up temporary config directories")
	}

	assert.Empty(t, paths.ReadSession())

	err = paths.SetSession(session)
	if err != nil {
		t.Fatal("Failed to set user session")
	}

	readSession := paths.ReadSession()
	if readSession != session {
		t.Fatalf("Unexpected session value\n"+
			"(expected %s, got %s)", session, readSession)
	}

	require.Nil(t, paths.Reset())
	assert.Empty(t, paths.ReadSession())
	require.Nil(t, paths.Reset())
}
