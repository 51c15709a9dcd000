package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Pending []pendingItemJSON `json:"pending,omitempty"`
}

type pendingItemJSON struct {
	ItemID      string `json:"itemId"`
	ProductName string `json:"productName"`
	VariantName string `json:"variantName,omitempty"`
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrBlocked):
		return http.StatusLocked
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var body errorResponse
	var he *echo.HTTPError
	if errors.As(err, &he) {
		body = errorResponse{Code: he.Code, Message: http.StatusText(he.Code)}
		if msg, ok := he.Message.(string); ok {
			body.Message = msg
		}
	} else {
		body = errorResponse{Code: statusOf(err), Message: err.Error()}
	}

	var blocked *errs.BlockedError
	if errors.As(err, &blocked) {
		for _, p := range blocked.Pending {
			body.Pending = append(body.Pending, pendingItemJSON{
				ItemID:      p.ItemID,
				ProductName: p.ProductName,
				VariantName: p.VariantName,
			})
		}
	}

	if body.Code >= http.StatusInternalServerError {
		if body.Code == http.StatusInternalServerError {
			body.Message = "internal error"
		}
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(body.Code)
	} else {
		err = c.JSON(body.Code, body)
	}
	if err != nil {
		s.logger.Error("writing error response", "error", err)
	}
}
