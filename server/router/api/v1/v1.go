package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/recognizers/internal/profile"
	"github.com/hrygo/recognizers/plugin/recognizer"
	"github.com/hrygo/recognizers/server/internal/observability"
	ratelimit "github.com/hrygo/recognizers/server/middleware"
	"github.com/hrygo/recognizers/server/stats"
	"github.com/hrygo/recognizers/store"
)

// maxBodySize bounds request bodies; batch requests carry several documents.
const maxBodySize = "16M"

type APIV1Service struct {
	Profile    *profile.Profile
	Recognizer recognizer.Recognizer
	// Store is nil when history is disabled.
	Store *store.Store
	// Stats is nil when history is disabled.
	Stats   *stats.Collector
	Metrics *observability.Metrics
	Logger  *slog.Logger

	limiter *ratelimit.RateLimiter
	now     func() time.Time
}

func NewAPIV1Service(profile *profile.Profile, rec recognizer.Recognizer, store *store.Store, metrics *observability.Metrics) *APIV1Service {
	s := &APIV1Service{
		Profile:    profile,
		Recognizer: rec,
		Store:      store,
		Metrics:    metrics,
		Logger:     slog.Default(),
		limiter:    ratelimit.NewRateLimiter(profile.RateLimit, profile.RateBurst),
		now:        time.Now,
	}
	if store != nil {
		var observer stats.Observer
		if metrics != nil {
			observer = metrics
		}
		s.Stats = stats.NewCollector(store, observer)
	}
	return s
}

// RegisterRoutes mounts the v1 API under /api/v1.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1")
	group.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	group.Use(middleware.BodyLimit(maxBodySize))
	group.Use(s.limiter.Middleware(s.rejectRateLimited))

	group.POST("/recognize", s.handle(OperationRecognize, s.Recognize))
	group.POST("/recognize/batch", s.handle(OperationRecognizeBatch, s.RecognizeBatch))
	group.POST("/recognize/markdown", s.handle(OperationRecognizeMarkdown, s.RecognizeMarkdown))
	group.GET("/recognitions", s.handle(OperationListRecognitions, s.ListRecognitions))
	group.GET("/recognitions/stats", s.handle(OperationRecognitionStats, s.GetRecognitionStats))
	group.GET("/cultures", s.handle(OperationListCultures, s.ListCultures))
}
