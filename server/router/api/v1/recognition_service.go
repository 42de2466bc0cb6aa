package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/hrygo/recognizers/server/internal/errors"
	"github.com/hrygo/recognizers/store"
)

const (
	defaultListLimit = 50
	statsMaxAge      = 30 * time.Second
)

// ListRecognitions returns the recognition history, newest first.
// GET /api/v1/recognitions
func (s *APIV1Service) ListRecognitions(c echo.Context) error {
	if s.Store == nil {
		return apierrors.Unavailable("recognition history is disabled")
	}
	var query ListRecognitionsRequest
	if err := c.Bind(&query); err != nil {
		return apierrors.InvalidArgument("malformed query", err)
	}
	if err := validate.Struct(&query); err != nil {
		return apierrors.InvalidArgument("invalid query", err)
	}

	find := &store.FindRecognition{}
	if query.Culture != "" {
		find.Culture = &query.Culture
	}
	if query.Category != "" {
		find.Category = &query.Category
	}
	if query.RequestID != "" {
		find.RequestID = &query.RequestID
	}
	if query.Since > 0 {
		find.CreatedTsAfter = &query.Since
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	find.Limit = &limit
	find.Offset = &query.Offset

	list, err := s.Store.ListRecognitions(c.Request().Context(), find)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.ObserveStoreError()
		}
		return apierrors.StoreFailed("failed to list recognitions", err)
	}
	response := ListRecognitionsResponse{Recognitions: make([]Recognition, 0, len(list))}
	for _, r := range list {
		response.Recognitions = append(response.Recognitions, convertRecognitionFromStore(r))
	}
	return c.JSON(http.StatusOK, response)
}

// GetRecognitionStats summarizes the recognition history.
// GET /api/v1/recognitions/stats
func (s *APIV1Service) GetRecognitionStats(c echo.Context) error {
	if s.Stats == nil {
		return apierrors.Unavailable("recognition history is disabled")
	}
	snapshot, err := s.Stats.Refresh(c.Request().Context(), statsMaxAge)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.ObserveStoreError()
		}
		return apierrors.StoreFailed("failed to collect recognition stats", err)
	}
	response := RecognitionStatsResponse{
		Total:      snapshot.Total,
		LastDay:    snapshot.LastDay,
		LastWeek:   snapshot.LastWeek,
		ByCategory: snapshot.ByCategory,
		ByCulture:  snapshot.ByCulture,
		UpdatedTs:  snapshot.LastUpdated.Unix(),
	}
	if !snapshot.LastRecognitionTime.IsZero() {
		response.LastRecognitionTs = snapshot.LastRecognitionTime.Unix()
	}
	return c.JSON(http.StatusOK, response)
}

// ListCultures returns the loaded cultures.
// GET /api/v1/cultures
func (s *APIV1Service) ListCultures(c echo.Context) error {
	infos := s.Recognizer.Cultures()
	response := ListCulturesResponse{Cultures: make([]CultureResponse, 0, len(infos))}
	for _, info := range infos {
		response.Cultures = append(response.Cultures, CultureResponse{
			Code:    info.Code,
			Name:    info.Name,
			Default: info.Default,
		})
	}
	return c.JSON(http.StatusOK, response)
}
