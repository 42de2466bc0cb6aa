package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

func outcomes() []model.ParseOutcome {
	hour := model.NewResolvedValue("PT5H", 18000, 18000, nil)
	euro := model.NewResolvedValue("5 Euro", 5, 5, nil)
	return []model.ParseOutcome{
		{CandidateSpan: model.CandidateSpan{Start: 0, Length: 7, Text: "5 hours", Category: model.CategoryDuration}, Value: &hour, TimexStr: "PT5H"},
		{CandidateSpan: model.CandidateSpan{Start: 12, Length: 9, Text: "1500years", Category: model.CategoryDuration}},
		{CandidateSpan: model.CandidateSpan{Start: 30, Length: 7, Text: "5 euros", Category: model.CategoryCurrency}, Value: &euro, TimexStr: "5 Euro"},
	}
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{`category == "duration"`, []string{"5 hours", "1500years"}},
		{`success && value >= 3600.0`, []string{"5 hours"}},
		{`!success`, []string{"1500years"}},
		{`timex.startsWith("PT")`, []string{"5 hours"}},
		{`start > 10 && length < 9`, []string{"5 euros"}},
		{`text.contains("euro")`, []string{"5 euros"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, f.String())

			kept, err := f.Apply(outcomes())
			require.NoError(t, err)
			var got []string
			for _, o := range kept {
				got = append(got, o.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	for _, expr := range []string{`category ==`, `unknown_var == 1`, `start + 1`, `text + 1 > 0`} {
		t.Run(expr, func(t *testing.T) {
			_, err := Compile(expr)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
