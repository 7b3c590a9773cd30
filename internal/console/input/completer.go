package input

import (
	"sort"
	"strings"
)

// Completer completes the first word of a line against a fixed vocabulary.
type Completer struct {
	words []string
}

// NewCompleter returns a completer over words. Duplicates are dropped.
func NewCompleter(words []string) *Completer {
	seen := make(map[string]bool, len(words))
	c := &Completer{words: make([]string, 0, len(words))}
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		c.words = append(c.words, w)
	}
	sort.Strings(c.words)
	return c
}

// Matches returns the words that start with prefix, sorted.
func (c *Completer) Matches(prefix string) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, w := range c.words {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out
}

// Complete returns the text that turns line into the only word it
// prefixes. It reports false when there are zero or several candidates
// or when line already holds more than one word.
func (c *Completer) Complete(line string) (string, bool) {
	if strings.ContainsAny(line, " \t") {
		return "", false
	}
	matches := c.Matches(line)
	if len(matches) != 1 {
		return "", false
	}
	return matches[0][len(line):], true
}
