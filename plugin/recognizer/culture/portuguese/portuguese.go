// Package portuguese provides the pt-br culture.
package portuguese

import (
	_ "embed"

	"github.com/hrygo/recognizers/plugin/recognizer/culture"
)

// Code identifies the culture.
const Code = "pt-br"

//go:embed lexicon.yaml
var lexicon []byte

// New builds the Portuguese culture.
func New() (*culture.Culture, error) {
	return culture.Load(lexicon)
}
