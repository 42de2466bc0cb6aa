package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/recognizers/plugin/recognizer"
	"github.com/hrygo/recognizers/plugin/recognizer/model"
	apierrors "github.com/hrygo/recognizers/server/internal/errors"
	"github.com/hrygo/recognizers/server/internal/observability"
	"github.com/hrygo/recognizers/server/timezone"
	"github.com/hrygo/recognizers/store"
)

// Recognize runs every recognizer over a plain text document.
// POST /api/v1/recognize
func (s *APIV1Service) Recognize(c echo.Context) error {
	return s.recognizeOne(c, s.Recognizer.Recognize)
}

// RecognizeMarkdown reads only the prose of a Markdown document.
// POST /api/v1/recognize/markdown
func (s *APIV1Service) RecognizeMarkdown(c echo.Context) error {
	return s.recognizeOne(c, s.Recognizer.RecognizeMarkdown)
}

type recognizeFunc func(ctx context.Context, req recognizer.Request) ([]model.ParseOutcome, error)

func (s *APIV1Service) recognizeOne(c echo.Context, recognize recognizeFunc) error {
	var body RecognizeRequest
	if err := c.Bind(&body); err != nil {
		return apierrors.InvalidArgument("malformed request body", err)
	}
	if err := validate.Struct(&body); err != nil {
		return apierrors.InvalidArgument("invalid request", err)
	}
	req, err := s.convertRequest(body)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	outcomes, err := recognize(ctx, req)
	if err != nil {
		return err
	}
	reqCtx := requestContext(ctx)
	s.observeOutcomes(req.Culture, outcomes)
	s.saveHistory(ctx, reqCtx, req.Culture, outcomes)
	reqCtx.Info("recognized",
		slog.String(observability.LogFieldCulture, req.Culture),
		slog.Int(observability.LogFieldTextLen, len(req.Text)),
		slog.Int(observability.LogFieldOutcomes, len(outcomes)))

	return c.JSON(http.StatusOK, RecognizeResponse{
		RequestID: reqCtx.RequestID,
		Culture:   req.Culture,
		Reference: req.Reference,
		Outcomes:  nonNil(outcomes),
	})
}

// RecognizeBatch recognizes several documents concurrently.
// POST /api/v1/recognize/batch
func (s *APIV1Service) RecognizeBatch(c echo.Context) error {
	var body BatchRecognizeRequest
	if err := c.Bind(&body); err != nil {
		return apierrors.InvalidArgument("malformed request body", err)
	}
	if err := validate.Struct(&body); err != nil {
		return apierrors.InvalidArgument("invalid request", err)
	}
	reqs := make([]recognizer.Request, 0, len(body.Documents))
	for _, doc := range body.Documents {
		req, err := s.convertRequest(doc)
		if err != nil {
			return err
		}
		reqs = append(reqs, req)
	}

	ctx := c.Request().Context()
	results, err := s.Recognizer.RecognizeBatch(ctx, reqs)
	if err != nil {
		return err
	}
	reqCtx := requestContext(ctx)
	response := BatchRecognizeResponse{
		RequestID: reqCtx.RequestID,
		Results:   make([]RecognizeResponse, 0, len(results)),
	}
	total := 0
	for i, outcomes := range results {
		s.observeOutcomes(reqs[i].Culture, outcomes)
		s.saveHistory(ctx, reqCtx, reqs[i].Culture, outcomes)
		total += len(outcomes)
		response.Results = append(response.Results, RecognizeResponse{
			RequestID: reqCtx.RequestID,
			Culture:   reqs[i].Culture,
			Reference: reqs[i].Reference,
			Outcomes:  nonNil(outcomes),
		})
	}
	reqCtx.Info("recognized batch",
		slog.Int("documents", len(reqs)),
		slog.Int(observability.LogFieldOutcomes, total))
	return c.JSON(http.StatusOK, response)
}

// convertRequest resolves the culture and the reference instant of body so
// that responses and history report what was actually used.
func (s *APIV1Service) convertRequest(body RecognizeRequest) (recognizer.Request, error) {
	culture := recognizer.NormalizeCulture(body.Culture)
	if culture == "" {
		culture = s.Recognizer.DefaultCulture()
	}

	tz := body.Timezone
	if tz == "" {
		tz = s.Profile.Timezone
	}
	loc, err := timezone.ParseTimezone(tz)
	if err != nil {
		return recognizer.Request{}, apierrors.InvalidArgument("invalid timezone", err)
	}
	ref, err := timezone.ParseReference(body.Reference, loc)
	if err != nil {
		return recognizer.Request{}, apierrors.InvalidArgument("invalid reference", err)
	}
	if ref.IsZero() {
		ref = s.now().In(loc)
	}

	return recognizer.Request{
		Culture:   culture,
		Text:      body.Text,
		Reference: ref,
		Filter:    body.Filter,
	}, nil
}

func (s *APIV1Service) observeOutcomes(culture string, outcomes []model.ParseOutcome) {
	if s.Metrics == nil {
		return
	}
	for _, o := range outcomes {
		s.Metrics.ObserveOutcome(culture, string(o.Category), o.Resolved())
	}
}

// saveHistory persists outcomes when history is enabled. Failures are logged
// and counted; the recognition result is still returned.
func (s *APIV1Service) saveHistory(ctx context.Context, reqCtx *observability.RequestContext, culture string, outcomes []model.ParseOutcome) {
	if s.Store == nil || len(outcomes) == 0 {
		return
	}
	if _, err := s.Store.CreateRecognitions(ctx, store.NewRecognitions(reqCtx.RequestID, culture, outcomes)); err != nil {
		if s.Metrics != nil {
			s.Metrics.ObserveStoreError()
		}
		reqCtx.Error("failed to save recognition history", err)
	}
}

func requestContext(ctx context.Context) *observability.RequestContext {
	if reqCtx, ok := observability.FromContext(ctx); ok {
		return reqCtx
	}
	return observability.NewRequestContext(nil, "", "")
}

func nonNil(outcomes []model.ParseOutcome) []model.ParseOutcome {
	if outcomes == nil {
		return []model.ParseOutcome{}
	}
	return outcomes
}
