package universe

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Parse builds the symbol universe from a comma-separated list: uppercased,
// trimmed, deduplicated preserving first-seen order.
func Parse(list string) []string {
	return dedupe(strings.Split(list, ","))
}

// LoadFromFile reads the universe from a file. Supported formats: .json
// (array of strings) and .txt (one symbol per line, # comments).
func LoadFromFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read symbols file %s: %w", path, err)
	}

	var symbols []string
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(content, &symbols); err != nil {
			return nil, fmt.Errorf("cannot parse symbols file %s: %w", path, err)
		}
	} else {
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "#") {
				symbols = append(symbols, line)
			}
		}
	}

	return dedupe(symbols), nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
