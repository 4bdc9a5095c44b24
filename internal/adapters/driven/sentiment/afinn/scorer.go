// Package afinn scores text against the embedded AFINN-165 valence lexicon.
package afinn

import (
	"bufio"
	_ "embed"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.SentimentScorer = (*Scorer)(nil)

//go:embed lexicon.txt
var lexiconData string

var (
	defaultOnce    sync.Once
	defaultLexicon map[string]int
)

// negators flip the valence of the token that follows them.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nor": {}, "without": {},
	"dont": {}, "don't": {}, "doesnt": {}, "doesn't": {}, "didnt": {}, "didn't": {},
	"isnt": {}, "isn't": {}, "wasnt": {}, "wasn't": {}, "arent": {}, "aren't": {},
	"cant": {}, "can't": {}, "cannot": {}, "wont": {}, "won't": {},
}

// Scorer is a lexicon-based sentiment scorer. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	lexicon map[string]int
}

// New returns a scorer backed by the embedded lexicon.
func New() *Scorer {
	defaultOnce.Do(func() {
		defaultLexicon = ParseLexicon(lexiconData)
	})
	return &Scorer{lexicon: defaultLexicon}
}

// NewWithLexicon returns a scorer backed by a caller-supplied lexicon.
// Keys must be lowercase.
func NewWithLexicon(lexicon map[string]int) *Scorer {
	return &Scorer{lexicon: lexicon}
}

// Score returns the summed valence of text. A lexicon word directly after a
// negator contributes its inverted valence.
func (s *Scorer) Score(text string) domain.Sentiment {
	tokens := Tokenize(text)
	result := domain.Sentiment{Tokens: tokens}

	var score int
	for i, tok := range tokens {
		v, ok := s.lexicon[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if _, neg := negators[tokens[i-1]]; neg {
				v = -v
			}
		}
		score += v
		switch {
		case v > 0:
			result.Positive = append(result.Positive, tok)
		case v < 0:
			result.Negative = append(result.Negative, tok)
		}
	}

	result.Score = float64(score)
	if len(tokens) > 0 {
		result.Comparative = result.Score / float64(len(tokens))
	}
	return result
}

// Tokenize lowercases text and splits it into runs of letters, digits and
// apostrophes. Leading and trailing apostrophes are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, "’", "'")
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ParseLexicon reads "word<TAB>valence" lines. Blank lines, comments and
// lines that do not parse are skipped.
func ParseLexicon(data string) map[string]int {
	lexicon := make(map[string]int)
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, val, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			continue
		}
		lexicon[strings.ToLower(strings.TrimSpace(word))] = n
	}
	return lexicon
}
