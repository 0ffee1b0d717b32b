package tarot

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/warlock9600/tarobot/internal/domain"
)

// Card is one arcana with its meaning and per-gender prediction texts.
type Card struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Predictions struct {
		Male   string `yaml:"male"`
		Female string `yaml:"female"`
	} `yaml:"predictions"`
}

// Prediction returns the fixed text for this card and gender. The
// mapping is deterministic: same card + gender, same text.
func (c *Card) Prediction(g domain.Gender) string {
	if g == domain.GenderFemale {
		return c.Predictions.Female
	}
	return c.Predictions.Male
}

// Deck holds the card table and a random source for draws. Draws are
// safe for concurrent use; rand.Rand itself is not.
type Deck struct {
	cards []Card

	mu  sync.Mutex
	rnd *rand.Rand
}

type deckFile struct {
	Cards []Card `yaml:"cards"`
}

// Load parses a YAML deck definition. Every card must carry a name and
// both prediction texts; a deck that could produce an empty reading is
// rejected up front.
func Load(data []byte, rnd *rand.Rand) (*Deck, error) {
	var f deckFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if len(f.Cards) == 0 {
		return nil, errors.New("deck is empty")
	}
	for i, c := range f.Cards {
		if c.Name == "" || c.Predictions.Male == "" || c.Predictions.Female == "" {
			return nil, fmt.Errorf("card %d (%q): missing name or prediction", i, c.Name)
		}
	}
	return &Deck{cards: f.Cards, rnd: rnd}, nil
}

// Size returns the number of cards in the deck.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Draw picks a card uniformly at random and returns it with the
// prediction text for the given gender. Draws are independent;
// repeats across a user's history are expected.
func (d *Deck) Draw(g domain.Gender) (Card, string) {
	d.mu.Lock()
	i := d.rnd.Intn(len(d.cards))
	d.mu.Unlock()
	c := d.cards[i]
	return c, c.Prediction(g)
}
