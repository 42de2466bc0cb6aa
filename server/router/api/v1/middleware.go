package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/hrygo/recognizers/server/internal/errors"
	"github.com/hrygo/recognizers/server/internal/observability"
)

// Operation names used in logs and metrics.
const (
	OperationRecognize         = "recognize"
	OperationRecognizeBatch    = "recognize_batch"
	OperationRecognizeMarkdown = "recognize_markdown"
	OperationListRecognitions  = "list_recognitions"
	OperationRecognitionStats  = "recognition_stats"
	OperationListCultures      = "list_cultures"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

const codeOK = "OK"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      apierrors.ErrorCode `json:"code"`
	Message   string              `json:"message"`
	RequestID string              `json:"request_id,omitempty"`
}

// handle wraps h with a request context, structured logging, metrics and
// error rendering.
func (s *APIV1Service) handle(operation string, h echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqCtx := observability.NewRequestContext(s.Logger, c.Request().Header.Get(HeaderRequestID), operation)
		req := c.Request()
		c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))
		c.Response().Header().Set(HeaderRequestID, reqCtx.RequestID)

		err := h(c)
		code := codeOK
		if err != nil {
			apiErr := apierrors.FromError(err)
			code = string(apiErr.Code)
			if apiErr.HTTPStatus() >= http.StatusInternalServerError {
				reqCtx.Error("request failed", err)
			} else {
				reqCtx.Warn("request rejected",
					slog.String(observability.LogFieldErrorCode, string(apiErr.Code)),
					slog.String("error", err.Error()))
			}
			err = c.JSON(apiErr.HTTPStatus(), ErrorResponse{
				Code:      apiErr.Code,
				Message:   apiErr.Error(),
				RequestID: reqCtx.RequestID,
			})
		} else {
			reqCtx.Info("request completed")
		}
		if s.Metrics != nil {
			s.Metrics.ObserveRequest(operation, code, reqCtx.Duration())
		}
		return err
	}
}

func (s *APIV1Service) rejectRateLimited(c echo.Context) error {
	if s.Metrics != nil {
		s.Metrics.ObserveRateLimited()
	}
	apiErr := apierrors.RateLimitExceeded("too many requests from " + c.RealIP())
	return c.JSON(apiErr.HTTPStatus(), ErrorResponse{Code: apiErr.Code, Message: apiErr.Message})
}
