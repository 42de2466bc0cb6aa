package recognizer

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/culture"
	"github.com/hrygo/recognizers/plugin/recognizer/culture/english"
	"github.com/hrygo/recognizers/plugin/recognizer/culture/portuguese"
)

// builders maps culture codes to their constructors.
var builders = map[string]func() (*culture.Culture, error){
	english.Code:    english.New,
	portuguese.Code: portuguese.New,
}

// SupportedCultures returns every culture code that can be loaded, sorted.
func SupportedCultures() []string {
	codes := make([]string, 0, len(builders))
	for code := range builders {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LoadModels builds the models of the given cultures, or of every supported
// culture when codes is empty.
func LoadModels(codes []string) (map[string]*Model, error) {
	if len(codes) == 0 {
		codes = SupportedCultures()
	}
	models := make(map[string]*Model, len(codes))
	for _, code := range codes {
		code = NormalizeCulture(code)
		build, ok := builders[code]
		if !ok {
			return nil, errors.Wrapf(ErrUnsupportedCulture, "%q", code)
		}
		c, err := build()
		if err != nil {
			return nil, errors.Wrapf(err, "load culture %s", code)
		}
		m, err := NewModel(c)
		if err != nil {
			return nil, errors.Wrapf(err, "build model %s", code)
		}
		models[code] = m
	}
	return models, nil
}

// NormalizeCulture lowercases a culture code and accepts "_" as separator.
func NormalizeCulture(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}
