package recognize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordBreak(t *testing.T) {
	assert.Equal(t, []string{"I'd", "like", "sweet", "potato", "2"}, WordBreak("I'd like sweet-potato, 2!"))
	assert.Empty(t, WordBreak("  ... "))
}

func TestNonNoiseWords(t *testing.T) {
	assert.Equal(t, []string{"onion", "pepper"}, NonNoiseWords(WordBreak("I would like the onion and pepper please")))
}

func TestNormalizeAndHumanize(t *testing.T) {
	assert.Equal(t, "sweet potato", Normalize("Sweet_Potato"))
	assert.Equal(t, "Sweet Potato", Humanize("sweet-potato"))
	assert.Equal(t, "Bread", Humanize("bread"))
}
