package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const keepAliveInterval = 25 * time.Second

// StreamEvents handles GET /api/v1/events as a server-sent event stream of
// every change relayed from the outbox. Each event's data is the stored
// JSON payload.
func (s *Server) StreamEvents(c echo.Context) error {
	ctx := c.Request().Context()

	stream, err := s.events.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err = fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case payload, ok := <-stream.Messages():
			if !ok {
				return nil
			}
			if _, err = fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
