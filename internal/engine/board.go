package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const Placeholder = "_"

// Board is the masked view of the round's word. Only ASCII letters and
// digits are hidden; every other character is shown from the start.
type Board struct {
	word     []rune
	revealed []bool
}

func NewBoard(word string) Board {
	w := []rune(strings.ToUpper(word))
	revealed := make([]bool, len(w))
	for i, r := range w {
		revealed[i] = !guessable(r)
	}
	return Board{word: w, revealed: revealed}
}

func (b Board) Len() int { return len(b.word) }

// Word returns the secret. It never leaves the server.
func (b Board) Word() string { return string(b.word) }

// Cells renders one entry per letter, the letter itself once revealed.
func (b Board) Cells() []string {
	cells := make([]string, len(b.word))
	for i, r := range b.word {
		if b.revealed[i] {
			cells[i] = string(r)
		} else {
			cells[i] = Placeholder
		}
	}
	return cells
}

func (b Board) Complete() bool {
	for _, ok := range b.revealed {
		if !ok {
			return false
		}
	}
	return true
}

// Revealed reports whether letter is already showing on the board.
func (b Board) Revealed(letter rune) bool {
	for i, r := range b.word {
		if r == letter && b.revealed[i] {
			return true
		}
	}
	return false
}

// Reveal uncovers every hidden cell holding letter and returns how many
// were uncovered. A letter already showing, or absent from the word,
// uncovers nothing.
func (b *Board) Reveal(letter rune) int {
	if b.Revealed(letter) {
		return 0
	}
	n := 0
	for i, r := range b.word {
		if r == letter && !b.revealed[i] {
			b.revealed[i] = true
			n++
		}
	}
	return n
}

func (b Board) Clone() Board {
	return Board{
		word:     append([]rune(nil), b.word...),
		revealed: append([]bool(nil), b.revealed...),
	}
}

// NormalizeGuess accepts exactly one ASCII letter or digit and returns it
// upper-cased.
func NormalizeGuess(letter string) (rune, bool) {
	if utf8.RuneCountInString(letter) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(letter)
	if !guessable(r) {
		return 0, false
	}
	return unicode.ToUpper(r), true
}

func guessable(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
