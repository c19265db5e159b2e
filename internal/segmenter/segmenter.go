// Package segmenter provides a rule-based sentence boundary splitter for
// narrative prose. It is deliberately simple: terminator punctuation
// followed by whitespace and an upper-case or quote character closes a
// sentence. Common English abbreviations do not.
package segmenter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fabulist-labs/descry/internal/core/ports/driven"
)

// Ensure Segmenter implements the interface.
var _ driven.SentenceSplitter = (*Segmenter)(nil)

// abbreviations that end with a period but do not close a sentence.
var abbreviations = map[string]bool{
	"mr":   true,
	"mrs":  true,
	"ms":   true,
	"dr":   true,
	"prof": true,
	"st":   true,
	"jr":   true,
	"sr":   true,
	"vs":   true,
	"etc":  true,
	"e.g":  true,
	"i.e":  true,
}

// Segmenter splits text into sentences by terminator punctuation.
type Segmenter struct{}

// New creates a sentence segmenter.
func New() *Segmenter {
	return &Segmenter{}
}

// Split returns the sentences of text in document order with their byte
// ranges. Whitespace between sentences belongs to neither.
func (s *Segmenter) Split(text string) []driven.Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sentences []driven.Sentence
	start := -1

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		if start == -1 && !unicode.IsSpace(r) {
			start = i
		}

		if start != -1 && isTerminator(r) && !isAbbreviation(text, i) {
			end := i + size
			// Swallow trailing closers: quotes, ellipsis dots,
			// stacked ?! marks.
			for end < len(text) {
				nr, nsize := utf8.DecodeRuneInString(text[end:])
				if !isTerminator(nr) && !isCloser(nr) {
					break
				}
				end += nsize
			}
			if boundaryFollows(text, end) {
				sentences = append(sentences, driven.Sentence{
					Start: start,
					End:   end,
					Text:  text[start:end],
				})
				start = -1
			}
			i = end
			continue
		}

		i += size
	}

	// Unterminated trailing text is its own sentence.
	if start != -1 {
		end := len(text)
		for end > start {
			r, size := utf8.DecodeLastRuneInString(text[start:end])
			if !unicode.IsSpace(r) {
				break
			}
			end -= size
		}
		if end > start {
			sentences = append(sentences, driven.Sentence{
				Start: start,
				End:   end,
				Text:  text[start:end],
			})
		}
	}

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// isCloser reports runes allowed to trail a terminator inside the same
// sentence, such as closing quotes and brackets.
func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '»':
		return true
	default:
		return false
	}
}

// boundaryFollows reports whether the text after end looks like the start
// of a new sentence: end of input, or whitespace followed by an
// upper-case letter, digit or opening quote.
func boundaryFollows(text string, end int) bool {
	i := end
	sawSpace := false
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			sawSpace = true
			i += size
			continue
		}
		if !sawSpace {
			return false
		}
		return unicode.IsUpper(r) || unicode.IsDigit(r) || isOpener(r)
	}
	return true
}

// isOpener reports runes that commonly open a sentence besides letters.
func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '(', '“', '‘', '«':
		return true
	default:
		return false
	}
}

// isAbbreviation reports whether the period at byte offset i closes a
// known abbreviation rather than a sentence.
func isAbbreviation(text string, i int) bool {
	if i >= len(text) || text[i] != '.' {
		return false
	}
	wordStart := i
	for wordStart > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:wordStart])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		wordStart -= size
	}
	word := strings.ToLower(strings.TrimSuffix(text[wordStart:i], "."))
	word = strings.TrimPrefix(word, ".")
	return abbreviations[word]
}
