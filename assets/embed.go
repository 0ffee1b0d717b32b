package assets

import _ "embed"

//go:embed cards.yaml
var cardsYAML []byte

// CardsYAML returns the embedded tarot deck definition.
func CardsYAML() []byte {
	return cardsYAML
}
