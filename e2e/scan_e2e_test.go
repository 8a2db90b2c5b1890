package e2e

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

// TestScanE2EFindsCopies scans a submissions tree for renamed copies
func TestScanE2EFindsCopies(t *testing.T) {
	binaryPath := buildPysimBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "alice/solution.py", addSource)
	createTestPythonFile(t, testDir, "bob/solution.py", renamedAddSource)
	createTestPythonFile(t, testDir, "carol/solution.py", `
class Stack:
    def __init__(self):
        self.items = []

    def push(self, item):
        self.items.append(item)
`)
	createTestPythonFile(t, testDir, "venv/lib/site.py", addSource)

	stdout, stderr, err := runBinary(t, binaryPath, testDir, "", "scan", ".", "--json", "--no-progress", "--max-coefficient", "0")
	if err != nil {
		t.Fatalf("Command failed: %v\n%s", err, stderr)
	}

	var response struct {
		Matches []struct {
			First       string  `json:"first"`
			Second      string  `json:"second"`
			Coefficient float64 `json:"coefficient"`
		} `json:"matches"`
		FilesScanned int `json:"files_scanned"`
	}
	if err := json.Unmarshal([]byte(stdout), &response); err != nil {
		t.Fatalf("Output should be JSON: %v\n%s", err, stdout)
	}

	if response.FilesScanned != 3 {
		t.Errorf("Expected venv to be excluded and 3 files scanned, got %d", response.FilesScanned)
	}
	if len(response.Matches) != 1 {
		t.Fatalf("Expected one copied pair, got %+v", response.Matches)
	}
	match := response.Matches[0]
	if filepath.Dir(match.First) != "alice" || filepath.Dir(match.Second) != "bob" {
		t.Errorf("Unexpected pair %s <-> %s", match.First, match.Second)
	}
}

// TestScanE2ETextReport checks the text report layout
func TestScanE2ETextReport(t *testing.T) {
	binaryPath := buildPysimBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "one.py", addSource)
	createTestPythonFile(t, testDir, "two.py", "print('hello')\n")

	stdout, stderr, err := runBinary(t, binaryPath, testDir, "", "scan", testDir, "--no-progress", "--max-coefficient", "0")
	if err != nil {
		t.Fatalf("Command failed: %v\n%s", err, stderr)
	}

	for _, want := range []string{"Similarity Scan Report", "No similar pairs found.", "SUMMARY"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Text report should contain %q:\n%s", want, stdout)
		}
	}
}
