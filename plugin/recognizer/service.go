package recognizer

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/recognizers/plugin/filter"
	"github.com/hrygo/recognizers/plugin/recognizer/culture/english"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/plugin/textextract"
)

// Options configures a Service.
type Options struct {
	// Cultures to load. Empty loads every supported culture.
	Cultures []string
	// DefaultCulture serves requests that name none.
	DefaultCulture string
	// Location is used for the reference instant when a request has none.
	Location *time.Location
	// CacheSize and CacheTTL bound the outcome cache.
	CacheSize int
	CacheTTL  time.Duration
	// Concurrency bounds RecognizeBatch workers.
	Concurrency int
	// MaxTextBytes rejects larger documents. Zero means no limit.
	MaxTextBytes int
}

// Service implements Recognizer over a set of culture models.
type Service struct {
	models         map[string]*Model
	defaultCulture string
	location       *time.Location
	concurrency    int
	maxTextBytes   int
	cache          *outcomeCache
	markdown       *textextract.Markdown
	now            func() time.Time
}

var _ Recognizer = (*Service)(nil)

// NewService loads the configured cultures.
func NewService(opts Options) (*Service, error) {
	models, err := LoadModels(opts.Cultures)
	if err != nil {
		return nil, err
	}

	def := NormalizeCulture(opts.DefaultCulture)
	if def == "" {
		def = english.Code
		if _, ok := models[def]; !ok {
			def = sortedKeys(models)[0]
		}
	}
	if _, ok := models[def]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedCulture, "default culture %q is not loaded", def)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Service{
		models:         models,
		defaultCulture: def,
		location:       loc,
		concurrency:    concurrency,
		maxTextBytes:   opts.MaxTextBytes,
		cache:          newOutcomeCache(opts.CacheSize, opts.CacheTTL),
		markdown:       textextract.NewMarkdown(),
		now:            time.Now,
	}, nil
}

// Recognize implements Recognizer.
func (s *Service) Recognize(ctx context.Context, req Request) ([]model.ParseOutcome, error) {
	m, ref, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.finish(req, s.recognize(m, req.Text, ref))
}

// RecognizeBatch implements Recognizer. The first failing document cancels
// the rest.
func (s *Service) RecognizeBatch(ctx context.Context, reqs []Request) ([][]model.ParseOutcome, error) {
	results := make([][]model.ParseOutcome, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			out, err := s.Recognize(gctx, req)
			if err != nil {
				return errors.Wrapf(err, "document %d", i)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("batch recognition failed", "documents", len(reqs), "error", err)
		return nil, err
	}
	return results, nil
}

// RecognizeMarkdown implements Recognizer.
func (s *Service) RecognizeMarkdown(ctx context.Context, req Request) ([]model.ParseOutcome, error) {
	m, ref, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	segments, err := s.markdown.Segments([]byte(req.Text))
	if err != nil {
		return nil, errors.Wrap(err, "parse markdown")
	}

	var out []model.ParseOutcome
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, o := range s.recognize(m, seg.Text, ref) {
			out = append(out, o.Shift(seg.Start))
		}
	}
	return s.finish(req, out)
}

// Cultures implements Recognizer.
func (s *Service) Cultures() []CultureInfo {
	infos := make([]CultureInfo, 0, len(s.models))
	for _, code := range sortedKeys(s.models) {
		infos = append(infos, CultureInfo{
			Code:    code,
			Name:    s.models[code].Culture().Name,
			Default: code == s.defaultCulture,
		})
	}
	return infos
}

// DefaultCulture implements Recognizer.
func (s *Service) DefaultCulture() string {
	return s.defaultCulture
}

// prepare resolves the model and reference instant of req.
func (s *Service) prepare(ctx context.Context, req Request) (*Model, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}
	if s.maxTextBytes > 0 && len(req.Text) > s.maxTextBytes {
		return nil, time.Time{}, errors.Wrapf(ErrInvalidRequest, "text is %d bytes, limit is %d", len(req.Text), s.maxTextBytes)
	}
	code := NormalizeCulture(req.Culture)
	if code == "" {
		code = s.defaultCulture
	}
	m, ok := s.models[code]
	if !ok {
		return nil, time.Time{}, errors.Wrapf(ErrUnsupportedCulture, "%q", req.Culture)
	}
	ref := req.Reference
	if ref.IsZero() {
		ref = s.now().In(s.location)
	}
	return m, ref, nil
}

// recognize consults the cache before running the model.
func (s *Service) recognize(m *Model, text string, ref time.Time) []model.ParseOutcome {
	key := cacheKey(m.Culture().Code, ref, text)
	if out, ok := s.cache.get(key); ok {
		return out
	}
	out := m.Recognize(text, ref)
	s.cache.set(key, out)
	return out
}

// finish applies the request filter and returns outcomes the caller owns,
// values included. Cached outcomes are never handed out directly.
func (s *Service) finish(req Request, outcomes []model.ParseOutcome) ([]model.ParseOutcome, error) {
	if req.Filter != "" {
		f, err := filter.Compile(req.Filter)
		if err != nil {
			return nil, err
		}
		if outcomes, err = f.Apply(outcomes); err != nil {
			return nil, err
		}
	}
	var owned []model.ParseOutcome
	for _, o := range outcomes {
		owned = append(owned, o.Clone())
	}
	return owned, nil
}

func sortedKeys(models map[string]*Model) []string {
	keys := make([]string, 0, len(models))
	for k := range models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
