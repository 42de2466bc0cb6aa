package v1

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RecognizeRequest is the body of POST /api/v1/recognize and
// POST /api/v1/recognize/markdown.
type RecognizeRequest struct {
	Culture string `json:"culture" validate:"omitempty,max=16"`
	Text    string `json:"text" validate:"required"`
	// Reference is RFC 3339 or a local date-time read in Timezone.
	Reference string `json:"reference" validate:"omitempty"`
	Timezone  string `json:"timezone" validate:"omitempty,timezone"`
	Filter    string `json:"filter" validate:"omitempty,max=1024"`
}

// BatchRecognizeRequest is the body of POST /api/v1/recognize/batch.
type BatchRecognizeRequest struct {
	Documents []RecognizeRequest `json:"documents" validate:"required,min=1,max=100,dive"`
}

type RecognizeResponse struct {
	RequestID string               `json:"request_id"`
	Culture   string               `json:"culture"`
	Reference time.Time            `json:"reference"`
	Outcomes  []model.ParseOutcome `json:"outcomes"`
}

type BatchRecognizeResponse struct {
	RequestID string              `json:"request_id"`
	Results   []RecognizeResponse `json:"results"`
}

// ListRecognitionsRequest holds the query of GET /api/v1/recognitions.
type ListRecognitionsRequest struct {
	Culture   string `query:"culture" validate:"omitempty,max=16"`
	Category  string `query:"category" validate:"omitempty,oneof=duration datetime currency"`
	RequestID string `query:"request_id" validate:"omitempty,max=64"`
	// Since is a unix second.
	Since  int64 `query:"since" validate:"gte=0"`
	Limit  int   `query:"limit" validate:"gte=0,lte=500"`
	Offset int   `query:"offset" validate:"gte=0"`
}

type Recognition struct {
	UID       string  `json:"uid"`
	RequestID string  `json:"request_id"`
	Culture   string  `json:"culture"`
	Category  string  `json:"category"`
	Text      string  `json:"text"`
	Start     int     `json:"start"`
	Length    int     `json:"length"`
	Timex     string  `json:"timex"`
	Value     float64 `json:"value"`
	Resolved  bool    `json:"resolved"`
	Modifier  string  `json:"modifier,omitempty"`
	CreatedTs int64   `json:"created_ts"`
}

type ListRecognitionsResponse struct {
	Recognitions []Recognition `json:"recognitions"`
}

type RecognitionStatsResponse struct {
	Total      int64            `json:"total"`
	LastDay    int64            `json:"last_day"`
	LastWeek   int64            `json:"last_week"`
	ByCategory map[string]int64 `json:"by_category"`
	ByCulture  map[string]int64 `json:"by_culture"`
	// LastRecognitionTs is zero when the history is empty.
	LastRecognitionTs int64 `json:"last_recognition_ts"`
	UpdatedTs         int64 `json:"updated_ts"`
}

type ListCulturesResponse struct {
	Cultures []CultureResponse `json:"cultures"`
}

type CultureResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

func convertRecognitionFromStore(r *store.Recognition) Recognition {
	return Recognition{
		UID:       r.UID,
		RequestID: r.RequestID,
		Culture:   r.Culture,
		Category:  r.Category,
		Text:      r.Text,
		Start:     r.Start,
		Length:    r.Length,
		Timex:     r.Timex,
		Value:     r.Value,
		Resolved:  r.Resolved,
		Modifier:  r.Modifier,
		CreatedTs: r.CreatedTs,
	}
}
