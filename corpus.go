package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Corpus is the read-only word database, keyed by language code, then by
// category name. Loaded once at startup and shared by every room.
type Corpus map[string]map[string][]string

// The five fixed categories drawn from each round. Languages missing a
// category simply contribute fewer words per round.
var categories = []string{"easy", "hard", "people", "places", "culture"}

// loadCorpus reads a corpus file. A language entry may be either a
// category→words mapping or a list of {category, words} objects; both
// shapes occur in the wild. YAML files are detected by extension,
// everything else is parsed as JSON.
func loadCorpus(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, err
	}

	corpus := make(Corpus, len(raw))
	for lang, entry := range raw {
		byCategory, err := normalizeLanguage(entry)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", lang, err)
		}
		corpus[lang] = byCategory
	}

	if len(corpus) == 0 {
		return nil, errors.New("corpus contains no languages")
	}

	return corpus, nil
}

func normalizeLanguage(entry any) (map[string][]string, error) {
	out := make(map[string][]string)

	switch v := entry.(type) {
	case map[string]any:
		for category, words := range v {
			list, err := toWordList(words)
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", category, err)
			}
			out[category] = list
		}
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expected a category object, got %T", item)
			}
			category, _ := obj["category"].(string)
			if category == "" {
				return nil, errors.New("category object is missing a category name")
			}
			list, err := toWordList(obj["words"])
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", category, err)
			}
			out[category] = list
		}
	default:
		return nil, fmt.Errorf("unsupported language entry of type %T", entry)
	}

	return out, nil
}

func toWordList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a word list, got %T", v)
	}

	words := make([]string, 0, len(items))
	for _, item := range items {
		word, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a word, got %T", item)
		}
		if word = strings.TrimSpace(word); word != "" {
			words = append(words, word)
		}
	}
	return words, nil
}

// builtinCorpus is the startup fallback when no corpus file is usable.
// Deliberately small; real deployments pass --words.
func builtinCorpus() Corpus {
	return Corpus{
		"en": {
			"easy":    {"Apple", "Chair", "Bread", "River", "Clock"},
			"hard":    {"Logic", "Irony", "Quorum", "Zenith", "Paradox"},
			"people":  {"Elvis", "Cleopatra", "Einstein", "Mozart", "Frida"},
			"places":  {"Rome", "Sahara", "Everest", "Venice", "Cairo"},
			"culture": {"Music", "Carnival", "Origami", "Ballet", "Haiku"},
		},
		"fr": {
			"easy":    {"Pomme", "Chaise", "Pain"},
			"hard":    {"Logique", "Ironie", "Paradoxe"},
			"people":  {"Elvis", "Molière", "Curie"},
			"places":  {"Rome", "Paris", "Marseille"},
			"culture": {"Musique", "Carnaval", "Ballet"},
		},
		"ar": {
			"easy":    {"تفاحة", "كرسي", "خبز"},
			"hard":    {"منطق", "سخرية", "مفارقة"},
			"people":  {"الفيس", "كليوباترا", "الخوارزمي"},
			"places":  {"روما", "القاهرة", "دمشق"},
			"culture": {"موسيقى", "خط عربي", "شعر"},
		},
	}
}
