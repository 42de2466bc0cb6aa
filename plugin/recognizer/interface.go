// Package recognizer runs the duration, relative date-time and currency
// recognizers of a culture over free text and Markdown documents.
package recognizer

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

var (
	// ErrUnsupportedCulture is returned for a culture with no loaded model.
	ErrUnsupportedCulture = errors.New("unsupported culture")
	// ErrInvalidRequest is returned for requests that cannot be served.
	ErrInvalidRequest = errors.New("invalid request")
)

// Recognizer is the recognition service consumed by the API and the CLI.
type Recognizer interface {
	// Recognize returns every outcome of req.Text ordered by start offset.
	Recognize(ctx context.Context, req Request) ([]model.ParseOutcome, error)

	// RecognizeBatch recognizes several documents concurrently. Results are
	// in request order.
	RecognizeBatch(ctx context.Context, reqs []Request) ([][]model.ParseOutcome, error)

	// RecognizeMarkdown treats req.Text as Markdown: only prose is read and
	// offsets refer to the Markdown source.
	RecognizeMarkdown(ctx context.Context, req Request) ([]model.ParseOutcome, error)

	// Cultures lists the loaded cultures.
	Cultures() []CultureInfo

	// DefaultCulture is the culture of requests that name none.
	DefaultCulture() string
}

// Request is one document to recognize.
type Request struct {
	// Culture is a culture code such as "en-us". Empty selects the default.
	Culture string
	Text    string
	// Reference anchors relative expressions. Zero means now.
	Reference time.Time
	// Filter is an optional CEL expression over each outcome.
	Filter string
}

// CultureInfo describes a loaded culture.
type CultureInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
}
