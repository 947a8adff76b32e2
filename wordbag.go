package main

import (
	"math/rand"
	"slices"
)

// wordBag holds a room's per-category pools of not-yet-played words.
// Words are drawn without replacement; an empty pool is refilled from the
// canonical corpus list at draw time, which may reintroduce words seen
// earlier in the same game.
type wordBag struct {
	corpus   Corpus
	language string
	pools    map[string][]string
}

func newWordBag(corpus Corpus, language string) *wordBag {
	b := &wordBag{corpus: corpus}
	b.reset(language)
	return b
}

// reset discards all pools and refills them from the given language's
// canonical lists. Used at room creation and on game reset (which may
// switch languages).
func (b *wordBag) reset(language string) {
	b.language = language
	b.pools = make(map[string][]string, len(categories))
	for category, words := range b.corpus[language] {
		b.pools[category] = slices.Clone(words)
	}
}

// drawRound removes one word per fixed category, refilling exhausted pools
// first, and returns the round's target words in randomized display order.
// Categories absent from the language's corpus are skipped.
func (b *wordBag) drawRound() []string {
	words := make([]string, 0, len(categories))

	for _, category := range categories {
		pool := b.pools[category]
		if len(pool) == 0 {
			canonical := b.corpus[b.language][category]
			if len(canonical) == 0 {
				continue
			}
			pool = slices.Clone(canonical)
		}

		idx := rand.Intn(len(pool))
		words = append(words, pool[idx])
		b.pools[category] = slices.Delete(pool, idx, idx+1)
	}

	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})

	return words
}
