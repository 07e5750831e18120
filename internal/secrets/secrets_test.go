// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, SemanticScholarKey, "  sk_xyz789  \n")
				writeFile(t, dir, OpenAlexEmail, "user@example.com\n")
				return dir
			},
			want: Secrets{
				SemanticScholarKey: "sk_xyz789",
				OpenAlexEmail:      "user@example.com",
			},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty and whitespace-only files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAlexEmail, "me@example.org")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Secrets{OpenAlexEmail: "me@example.org"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, SemanticScholarKey, "sk_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{SemanticScholarKey: "sk_real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, OpenAlexEmail, "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var log bytes.Buffer
	got, err := Load(dir, &log)
	require.NoError(t, err)
	assert.Equal(t, Secrets{OpenAlexEmail: "value123"}, got)
	assert.Contains(t, log.String(), "warning: could not read secret bad-key")
}

func TestKeys(t *testing.T) {
	s := Secrets{OpenAlexEmail: "a", SemanticScholarKey: "b"}
	assert.Equal(t, []string{OpenAlexEmail, SemanticScholarKey}, s.Keys())
	assert.Empty(t, Secrets{}.Keys())
}

func TestApply(t *testing.T) {
	s := Secrets{SemanticScholarKey: "from-file", OpenAlexEmail: "file@example.com"}

	var empty types.SearchConfig
	s.Apply(&empty)
	assert.Equal(t, "from-file", empty.SemanticScholarAPIKey)
	assert.Equal(t, "file@example.com", empty.OpenAlexEmail)

	explicit := types.SearchConfig{SemanticScholarAPIKey: "from-config"}
	s.Apply(&explicit)
	assert.Equal(t, "from-config", explicit.SemanticScholarAPIKey)
	assert.Equal(t, "file@example.com", explicit.OpenAlexEmail)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
