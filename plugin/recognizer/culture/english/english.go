// Package english provides the en-us culture.
package english

import (
	_ "embed"

	"github.com/hrygo/recognizers/plugin/recognizer/culture"
)

// Code identifies the culture.
const Code = "en-us"

//go:embed lexicon.yaml
var lexicon []byte

// New builds the English culture.
func New() (*culture.Culture, error) {
	return culture.Load(lexicon)
}
