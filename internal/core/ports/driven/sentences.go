package driven

// Sentence is one sentence with its byte range in the source text.
type Sentence struct {
	Start int
	End   int
	Text  string
}

// SentenceSplitter segments text into sentences. Context enrichment uses
// it to attach the sentences surrounding an accepted description.
type SentenceSplitter interface {
	// Split returns the sentences of text in document order. Ranges
	// are non-overlapping and ascending; gaps (whitespace between
	// sentences) are permitted.
	Split(text string) []Sentence
}
