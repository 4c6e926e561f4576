package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapbridge/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"leapbridge.yaml"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapbridge.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapbridge.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"leapbridge.yaml"},
		},
		{
			name:      "init into new subdirectory",
			args:      []string{"project"},
			wantFiles: []string{"project/leapbridge.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp directory and change to it
			tmpDir := t.TempDir()
			oldWd, _ := os.Getwd()
			require.NoError(t, os.Chdir(tmpDir))
			defer func() { _ = os.Chdir(oldWd) }()

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			_, _, err := execute(t, NewInitCommand(), textConfig(), "", tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(tmpDir, f))
			}
		})
	}
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	out, _, err := execute(t, NewInitCommand(), textConfig(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "LeapBridge configured!")

	content, err := os.ReadFile("leapbridge.yaml")
	require.NoError(t, err, "failed to read leapbridge.yaml")

	expectedContents := []string{
		"store:",
		"statement: SELECT id, symbol, label FROM coin",
		"model: llama3:latest",
		"shutdown_timeout: 5s",
	}
	for _, expected := range expectedContents {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultStoreURI, cfg.Store.URI)
}
