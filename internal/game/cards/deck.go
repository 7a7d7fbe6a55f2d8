package cards

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/magefree/mage-rules-go/internal/game"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Deck is a named list of card templates, top card first.
type Deck struct {
	Name  string
	Cards []*game.CardTemplate
}

// LoadDecks reads a YAML deck file.
func LoadDecks(path string) ([]Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDecks(data)
}

// ParseDecks builds decks from YAML. Every card name must be registered.
func ParseDecks(data []byte) ([]Deck, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	if len(df.Decks) == 0 {
		return nil, errors.New("deck file has no decks")
	}

	decks := make([]Deck, 0, len(df.Decks))
	for _, entry := range df.Decks {
		deck := Deck{Name: entry.Name}
		for _, ce := range entry.Cards {
			if ce.Count < 0 {
				return nil, fmt.Errorf("deck %q: negative count for %q", entry.Name, ce.Name)
			}
			for i := 0; i < ce.Count; i++ {
				t, err := Lookup(ce.Name)
				if err != nil {
					return nil, fmt.Errorf("deck %q: %w", entry.Name, err)
				}
				deck.Cards = append(deck.Cards, t)
			}
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

// DeckByName returns the deck with the given name.
func DeckByName(decks []Deck, name string) (Deck, error) {
	for _, d := range decks {
		if d.Name == name {
			return d, nil
		}
	}
	return Deck{}, fmt.Errorf("deck %q not found (have %d decks)", name, len(decks))
}
