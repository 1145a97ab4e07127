package modelfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempLabels(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp label file: %v", err)
	}
	return path
}

func TestLoadLabels(t *testing.T) {
	path := writeTempLabels(t, "rice\nwheat\n\n  maize  \n")

	labels, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("LoadLabels failed: %v", err)
	}
	expected := []string{"rice", "wheat", "maize"}
	if len(labels) != len(expected) {
		t.Fatalf("Expected %d labels, got %d", len(expected), len(labels))
	}
	for i, want := range expected {
		if labels[i] != want {
			t.Errorf("Label %d: expected %q, got %q", i, want, labels[i])
		}
	}
}

func TestLoadLabelsEmptyFile(t *testing.T) {
	path := writeTempLabels(t, "\n\n")

	if _, err := LoadLabels(path); err == nil {
		t.Error("Expected error for label file with no labels")
	}
}

func TestLoadLabelsMissingFile(t *testing.T) {
	if _, err := LoadLabels(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("Expected error for missing label file")
	}
}
