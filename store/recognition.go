package store

import "github.com/hrygo/recognizers/plugin/recognizer/model"

// Recognition is one persisted recognition outcome.
type Recognition struct {
	ID  int32
	UID string

	// RequestID groups the outcomes produced by a single API call.
	RequestID string
	Culture   string
	Category  string
	Text      string
	Start     int
	Length    int
	Timex     string
	Value     float64
	Resolved  bool
	Modifier  string
	CreatedTs int64
}

type FindRecognition struct {
	ID        *int32
	UID       *string
	RequestID *string
	Culture   *string
	Category  *string
	// CreatedTsAfter keeps rows created at or after the given unix second.
	CreatedTsAfter *int64

	Limit  *int
	Offset *int
}

// RecognitionCount aggregates history rows per culture and category.
type RecognitionCount struct {
	Culture       string
	Category      string
	Count         int64
	LastCreatedTs int64
}

type DeleteRecognition struct {
	// CreatedTsBefore removes rows created strictly before the given unix second.
	CreatedTsBefore int64
}

// NewRecognitions flattens the outcomes of one request into history rows.
func NewRecognitions(requestID, culture string, outcomes []model.ParseOutcome) []*Recognition {
	list := make([]*Recognition, 0, len(outcomes))
	for _, o := range outcomes {
		r := &Recognition{
			RequestID: requestID,
			Culture:   culture,
			Category:  string(o.Category),
			Text:      o.Text,
			Start:     o.Start,
			Length:    o.Length,
			Timex:     o.TimexStr,
			Resolved:  o.Resolved(),
		}
		if o.Resolved() {
			r.Value = o.Value.FutureValue
			r.Modifier = o.Value.FutureResolution[model.ResolutionMod]
		}
		list = append(list, r)
	}
	return list
}
