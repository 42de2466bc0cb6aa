// Package rss publishes the recognition history as an RSS feed.
package rss

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
	"github.com/hrygo/recognizers/store"
)

const (
	maxRSSItemCount = 100
	contentType     = "application/rss+xml; charset=utf-8"
)

type RSSService struct {
	// Store is nil when history is disabled.
	Store *store.Store
}

func NewRSSService(store *store.Store) *RSSService {
	return &RSSService{
		Store: store,
	}
}

func (s *RSSService) RegisterRoutes(g *echo.Group) {
	g.GET("/history/rss.xml", s.GetHistoryRSS)
}

// GetHistoryRSS serves the newest recognitions, optionally narrowed by the
// culture and category query parameters.
func (s *RSSService) GetHistoryRSS(c echo.Context) error {
	if s.Store == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "recognition history is disabled")
	}
	limit := maxRSSItemCount
	find := &store.FindRecognition{Limit: &limit}
	if v := c.QueryParam("culture"); v != "" {
		find.Culture = &v
	}
	if v := c.QueryParam("category"); v != "" {
		find.Category = &v
	}
	list, err := s.Store.ListRecognitions(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to find recognitions").SetInternal(err)
	}

	baseURL := c.Scheme() + "://" + c.Request().Host
	rss, err := s.generateRSS(list, baseURL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate rss").SetInternal(err)
	}
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	return c.String(http.StatusOK, rss)
}

func (s *RSSService) generateRSS(list []*store.Recognition, baseURL string) (string, error) {
	feed := &feeds.Feed{
		Title:       "Recognizers",
		Link:        &feeds.Link{Href: baseURL},
		Description: "Recently recognized durations, date-times and amounts.",
		Created:     time.Now(),
	}
	feed.Items = make([]*feeds.Item, 0, len(list))
	for _, r := range list {
		created := time.Unix(r.CreatedTs, 0)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          r.UID,
			Title:       fmt.Sprintf("%s: %s", r.Category, r.Text),
			Link:        &feeds.Link{Href: baseURL + "/api/v1/recognitions?request_id=" + url.QueryEscape(r.RequestID)},
			Description: describe(r),
			Created:     created,
		})
	}
	if len(list) > 0 {
		feed.Updated = time.Unix(list[0].CreatedTs, 0)
	}
	rss, err := feed.ToRss()
	if err != nil {
		return "", errors.Wrap(err, "failed to render rss")
	}
	return rss, nil
}

func describe(r *store.Recognition) string {
	if !r.Resolved {
		return fmt.Sprintf("%q (%s) could not be resolved.", r.Text, r.Culture)
	}
	desc := fmt.Sprintf("%q (%s) resolved to %s, value %s", r.Text, r.Culture, r.Timex, model.FormatNumber(r.Value))
	if r.Modifier != "" {
		desc += ", " + r.Modifier
	}
	return desc + "."
}
