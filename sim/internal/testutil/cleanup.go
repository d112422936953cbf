// Package testutil provides shared test infrastructure for the rtlsim runtime.
// It has no dependency on sim/ so in-package tests of sim can import it.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ReleaseLog records the order in which tracked objects are released.
type ReleaseLog struct {
	Order  []string
	Counts map[string]int
}

// NewReleaseLog creates an empty log.
func NewReleaseLog() *ReleaseLog {
	return &ReleaseLog{Counts: make(map[string]int)}
}

// Tracked is an instrumented deferred-cleanup object. It satisfies sim.Releaser.
type Tracked struct {
	Name string
	log  *ReleaseLog
}

// Track creates a Tracked object that reports to log when released.
func (l *ReleaseLog) Track(name string) *Tracked {
	return &Tracked{Name: name, log: l}
}

// Release records the release.
func (o *Tracked) Release() {
	o.log.Order = append(o.log.Order, o.Name)
	o.log.Counts[o.Name]++
}

// Total returns the number of releases recorded.
func (l *ReleaseLog) Total() int {
	return len(l.Order)
}

// WriteTempYAML writes content to a temp file and returns its path.
func WriteTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp YAML: %v", err)
	}
	return path
}
