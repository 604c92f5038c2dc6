package acceptance

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
)

// TestCase identifies one conformance fixture: a directory holding a table
// under delta/ and its reference dataset under expected/.
type TestCase struct {
	// RootDir is the absolute path of the fixture directory.
	RootDir string
	// SkipReason is non-empty when a skip entry matched during discovery.
	SkipReason string
}

// Name returns the fixture's short name.
func (tc TestCase) Name() string { return filepath.Base(tc.RootDir) }

// RootURL returns the fixture root as a file URL.
func (tc TestCase) RootURL() *url.URL {
	return &url.URL{Scheme: "file", Path: tc.RootDir}
}

// TableRoot returns the table root the scan planner should open.
func (tc TestCase) TableRoot() *url.URL {
	return &url.URL{Scheme: "file", Path: filepath.Join(tc.RootDir, "delta")}
}

// DiscoverTestCases lists the conformance fixtures under dir: every
// subdirectory containing a delta table directory, sorted by name.
func DiscoverTestCases(dir string) ([]TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite directory %s: %w", dir, err)
	}
	var cases []TestCase
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		root, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(filepath.Join(root, "delta")); err != nil || !info.IsDir() {
			continue
		}
		cases = append(cases, TestCase{RootDir: root})
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].RootDir < cases[j].RootDir })
	return cases, nil
}
