package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		title   string
		trigger string
		match   bool
	}{
		{"keyword substring", Matcher{Keywords: []string{"auth"}}, "Authentication at Scale", "auth", true},
		{"keyword case insensitive", Matcher{Keywords: []string{"TLS"}}, "Intro to tls", "TLS", true},
		{"keyword inside word", Matcher{Keywords: []string{"key"}}, "Monkey Patching", "key", true},
		{"keyword miss", Matcher{Keywords: []string{"crypto"}}, "Databases", "", false},
		{"keyword full case folding", Matcher{Keywords: []string{"straße"}}, "STRASSE Maps", "straße", true},
		{"first keyword reported", Matcher{Keywords: []string{"security", "crypto"}}, "Crypto Security", "security", true},
		{"word whole", Matcher{Words: []string{"key"}}, "Key Rotation", "key", true},
		{"word not inside word", Matcher{Words: []string{"key"}}, "Monkey Patching", "", false},
		{"word phrase", Matcher{Words: []string{"hash table"}}, "The Hash-Table Chapter", "hash table", true},
		{"word phrase needs every word", Matcher{Words: []string{"hash table"}}, "Hash Tables", "", false},
		{"pattern case insensitive", Matcher{Patterns: []string{`^intro\b`}}, "INTRO to Go", `^intro\b`, true},
		{"pattern miss", Matcher{Patterns: []string{`^intro\b`}}, "Introspection", "", false},
		{"keywords before patterns", Matcher{Keywords: []string{"go"}, Patterns: []string{"intro"}}, "Intro to Go", "go", true},
		{"empty matcher", Matcher{}, "Anything", "", false},
		{"blank keyword ignored", Matcher{Keywords: []string{""}}, "Anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFolder()
			cm, err := tt.matcher.compile(f)
			require.NoError(t, err)

			trigger, ok := cm.match(f, tt.title)
			assert.Equal(t, tt.match, ok)
			assert.Equal(t, tt.trigger, trigger)
		})
	}
}

func TestMatcherEmpty(t *testing.T) {
	assert.True(t, Matcher{}.Empty())
	assert.False(t, Matcher{Words: []string{"x"}}.Empty())
}

func TestCompilePattern(t *testing.T) {
	re, err := CompilePattern("crypto|auth")
	require.NoError(t, err)
	assert.True(t, re.MatchString("AUTH"))

	_, err = CompilePattern("[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"["`)
}

func TestContainsRun(t *testing.T) {
	assert.True(t, containsRun([]string{"a", "b", "c"}, []string{"b", "c"}))
	assert.False(t, containsRun([]string{"a", "b", "c"}, []string{"a", "c"}))
	assert.False(t, containsRun([]string{"a"}, []string{"a", "b"}))
	assert.False(t, containsRun([]string{"a"}, nil))
}
