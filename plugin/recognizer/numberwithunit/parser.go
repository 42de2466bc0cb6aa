package numberwithunit

import (
	"strings"
	"time"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

// Parser resolves amount spans into a value and a canonical unit name.
type Parser struct {
	cfg      Config
	units    *units
	category model.Category
}

// NewCurrencyParser builds a parser of currency amounts.
func NewCurrencyParser(cfg Config) (*Parser, error) {
	u, err := newUnits(cfg)
	if err != nil {
		return nil, err
	}
	return &Parser{cfg: cfg, units: u, category: model.CategoryCurrency}, nil
}

// Parse resolves an amount span. The reference instant is unused.
func (p *Parser) Parse(span model.CandidateSpan, _ time.Time) model.ParseOutcome {
	out := model.ParseOutcome{CandidateSpan: span}
	if span.Category != p.category {
		return out
	}
	if v := p.Resolve(span.Text); v.Success {
		out.Value = &v
		out.TimexStr = v.Timex
	}
	return out
}

// Resolve reads text as exactly one numeral and one unit form on either side
// of it. The encoding is "<value> <Unit>", e.g. "5 Euro".
func (p *Parser) Resolve(text string) model.ResolvedValue {
	nums := p.cfg.Numbers.Extract(text)
	if len(nums) != 1 {
		return model.ResolvedValue{}
	}
	num := nums[0]
	value, err := p.cfg.Numbers.Parse(num.Text)
	if err != nil {
		return model.ResolvedValue{}
	}

	before := strings.TrimSpace(text[:num.Start])
	after := strings.TrimSpace(text[num.End():])
	var (
		name string
		ok   bool
		form string
	)
	switch {
	case before == "" && after != "":
		form = after
		name, ok = p.units.suffix.lookup(after)
	case after == "" && before != "":
		form = before
		name, ok = p.units.prefix.lookup(before)
	}
	if !ok || !p.units.accept(form, num.Text) {
		return model.ResolvedValue{}
	}

	amount := model.FormatNumber(value)
	return model.NewResolvedValue(amount+" "+name, value, value, map[string]string{
		model.ResolutionValue: amount,
		model.ResolutionUnit:  name,
	})
}
