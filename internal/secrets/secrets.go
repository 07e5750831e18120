// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads API credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key and the
// trimmed contents are the value.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/research-analyzer/pkg/types"
)

// Key files understood by Apply.
const (
	SemanticScholarKey = "semantic-scholar-api-key"
	OpenAlexEmail      = "openalex-email"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets"

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable files are reported on w and skipped.
func Load(dir string, w io.Writer) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			s[name] = v
		}
	}
	return s, nil
}

// Keys returns the loaded key names in sorted order.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply fills credentials in cfg that configuration left empty. Explicit
// configuration always wins.
func (s Secrets) Apply(cfg *types.SearchConfig) {
	if cfg.SemanticScholarAPIKey == "" {
		cfg.SemanticScholarAPIKey = s[SemanticScholarKey]
	}
	if cfg.OpenAlexEmail == "" {
		cfg.OpenAlexEmail = s[OpenAlexEmail]
	}
}
