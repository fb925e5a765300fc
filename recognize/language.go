package recognize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)*`)

var noiseWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "to": {}, "for": {},
	"with": {}, "in": {}, "on": {}, "at": {}, "by": {}, "as": {}, "i": {}, "i'd": {},
	"i'm": {}, "me": {}, "my": {}, "we": {}, "want": {}, "would": {}, "like": {},
	"please": {}, "some": {}, "is": {}, "it": {}, "be": {}, "just": {}, "also": {},
	"but": {}, "so": {}, "then": {}, "that": {}, "this": {}, "get": {}, "have": {},
	"can": {}, "could": {}, "think": {}, "maybe": {}, "um": {}, "uh": {},
}

// WordBreak splits input into words, dropping punctuation.
func WordBreak(input string) []string {
	return wordPattern.FindAllString(input, -1)
}

func wordSpans(input string) [][]int {
	return wordPattern.FindAllStringIndex(input, -1)
}

func IsNoise(word string) bool {
	_, ok := noiseWords[strings.ToLower(word)]
	return ok
}

// NonNoiseWords filters out stopwords.
func NonNoiseWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if !IsNoise(word) {
			out = append(out, word)
		}
	}
	return out
}

// Normalize lowercases s and turns identifier separators into spaces so that
// "sweet-potato" and "Sweet Potato" compare equal.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(WordBreak(strings.NewReplacer("-", " ", "_", " ").Replace(s)), " "))
}

// Humanize turns an identifier such as "sweet-potato" into "Sweet Potato".
func Humanize(s string) string {
	words := WordBreak(strings.NewReplacer("-", " ", "_", " ").Replace(s))
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}
