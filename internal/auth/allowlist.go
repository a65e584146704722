package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Allowlist is the set of publish tokens permitted to update the registry.
// It is loaded once at startup and never mutated afterwards.
type Allowlist struct {
	tokens map[string]struct{}
}

// LoadAllowlist reads a newline-delimited token file. Blank lines and lines
// starting with '#' are skipped.
func LoadAllowlist(path string) (*Allowlist, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer file.Close()

	tokens := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	return &Allowlist{tokens: tokens}, nil
}

// Contains reports whether token is authorized to publish.
func (a *Allowlist) Contains(token string) bool {
	_, ok := a.tokens[token]
	return ok
}

// Len returns the number of authorized tokens.
func (a *Allowlist) Len() int {
	return len(a.tokens)
}
