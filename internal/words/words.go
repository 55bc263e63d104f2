// Package words holds the list secret words are drawn from.
package words

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed terms.yaml
var embeddedTerms []byte

var ErrEmptyPool = errors.New("words: no playable words after filtering")

// Pool is an immutable list of upper-case words with uniform random
// selection. Safe for concurrent use.
type Pool struct {
	words []string
	src   Source
}

// Load reads a YAML list of words from path, or the embedded default list
// when path is empty, and keeps the words at least minLen characters long.
//
// Postcondition: Returns a non-empty Pool or a non-nil error.
func Load(path string, minLen int, src Source) (*Pool, error) {
	data := embeddedTerms
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading word list: %w", err)
		}
		data = b
	}
	list, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewPool(list, minLen, src)
}

// Parse decodes a YAML sequence of strings.
func Parse(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing word list: %w", err)
	}
	return list, nil
}

// NewPool normalizes list: trimmed, upper-cased, deduplicated, at least
// minLen characters, and holding at least one letter or digit to guess.
func NewPool(list []string, minLen int, src Source) (*Pool, error) {
	seen := make(map[string]struct{}, len(list))
	var out []string
	for _, w := range list {
		w = strings.ToUpper(strings.TrimSpace(w))
		if utf8.RuneCountInString(w) < minLen || !hasGuessable(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, ErrEmptyPool
	}
	return &Pool{words: out, src: src}, nil
}

// Pick returns a uniformly random word.
func (p *Pool) Pick() string {
	return p.words[p.src.Intn(len(p.words))]
}

func (p *Pool) Len() int { return len(p.words) }

// Words returns a copy of the list.
func (p *Pool) Words() []string {
	return append([]string(nil), p.words...)
}

func hasGuessable(w string) bool {
	for _, r := range w {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return true
		}
	}
	return false
}
