//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs a search for query, printing the ranked table.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "search", "--query", query)
}

// Sessions lists the stored sessions.
func Sessions() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "session", "list")
}

// Analyze builds the CLI and analyzes a frozen session, recording an experiment.
func Analyze(sessionID string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "analyze", "--session", sessionID)
}
