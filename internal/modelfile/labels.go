// Package modelfile loads auxiliary model artifacts shared by the
// inference adapters.
package modelfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads a label file with one class label per line, in model
// output order. Blank lines and surrounding whitespace are ignored.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file %s: %w", path, err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label file %s: %w", path, err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label file %s contains no labels", path)
	}
	return labels, nil
}
