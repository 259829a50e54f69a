package taxonomy

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Matcher is the title fallback carried by a category.
//
// All comparisons are case-insensitive:
//   - Keywords fire when they occur anywhere in the title ("auth" matches "Authentication")
//   - Words fire only on whole-word boundaries; a multi-word entry matches a run of words
//   - Patterns are regular expressions compiled with the (?i) flag
//
// A Matcher with no triggers never matches.
type Matcher struct {
	Keywords []string `json:"keywords,omitempty"`
	Words    []string `json:"words,omitempty"`
	Patterns []string `json:"patterns,omitempty"`
}

// Empty reports whether the matcher has no triggers at all.
func (m Matcher) Empty() bool {
	return len(m.Keywords) == 0 && len(m.Words) == 0 && len(m.Patterns) == 0
}

// CompilePattern compiles a trigger pattern the way the engine does.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return re, nil
}

// folder case-folds strings for comparison.
// A cases.Caser is stateful, so each classification run owns its own folder.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.caser.String(norm.NFC.String(s))
}

// compiledMatcher is a Matcher with folded triggers and compiled patterns.
type compiledMatcher struct {
	keywords []trigger
	words    []wordTrigger
	patterns []patternTrigger
}

type trigger struct {
	raw    string
	folded string
}

type wordTrigger struct {
	raw   string
	words []string
}

type patternTrigger struct {
	raw string
	re  *regexp.Regexp
}

func (m Matcher) compile(f *folder) (compiledMatcher, error) {
	var cm compiledMatcher
	for _, kw := range m.Keywords {
		folded := f.fold(kw)
		if folded == "" {
			continue
		}
		cm.keywords = append(cm.keywords, trigger{raw: kw, folded: folded})
	}
	for _, w := range m.Words {
		words := splitWords(f.fold(w))
		if len(words) == 0 {
			continue
		}
		cm.words = append(cm.words, wordTrigger{raw: w, words: words})
	}
	for _, p := range m.Patterns {
		re, err := CompilePattern(p)
		if err != nil {
			return compiledMatcher{}, err
		}
		cm.patterns = append(cm.patterns, patternTrigger{raw: p, re: re})
	}
	return cm, nil
}

// match returns the first trigger that fires for the title.
func (cm compiledMatcher) match(f *folder, title string) (string, bool) {
	folded := f.fold(title)
	for _, kw := range cm.keywords {
		if strings.Contains(folded, kw.folded) {
			return kw.raw, true
		}
	}
	if len(cm.words) > 0 {
		titleWords := splitWords(folded)
		for _, w := range cm.words {
			if containsRun(titleWords, w.words) {
				return w.raw, true
			}
		}
	}
	if len(cm.patterns) > 0 {
		normalized := norm.NFC.String(title)
		for _, p := range cm.patterns {
			if p.re.MatchString(normalized) {
				return p.raw, true
			}
		}
	}
	return "", false
}

// splitWords breaks s on anything that is not a letter or digit.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsRun reports whether needle occurs as a contiguous run in haystack.
func containsRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, w := range needle {
			if haystack[i+j] != w {
				continue outer
			}
		}
		return true
	}
	return false
}
