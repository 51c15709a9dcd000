package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// MatchBarcode handles POST /api/v1/scans. It claims exactly one unscanned
// unit; 404 means no order in logistics is waiting for the code.
func (s *Server) MatchBarcode(c echo.Context) error {
	var req barcodeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewMatchBarcodeCommand(req.Barcode, operatorID(c))
	if err != nil {
		return err
	}

	match, err := s.h.MatchBarcode.Handle(c.Request().Context(), cmd)
	if err != nil {
		switch statusOf(err) {
		case http.StatusNotFound:
			s.metrics.scanned("no_candidate")
		case http.StatusConflict:
			s.metrics.scanned("conflict")
		default:
			s.metrics.scanned("error")
		}
		return err
	}

	s.metrics.scanned("matched")
	return c.JSON(http.StatusOK, scanResponse{OrderID: match.OrderID.String(), ItemID: match.ItemID.String()})
}

// PreCheckBarcode handles POST /api/v1/items/:id/precheck. Nothing is
// claimed or stored.
func (s *Server) PreCheckBarcode(c echo.Context) error {
	itemID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req barcodeRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	query, err := queries.NewPreCheckBarcodeQuery(itemID, req.Barcode)
	if err != nil {
		return err
	}

	res, err := s.h.PreCheckBarcode.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, precheckResponse{
		ItemID:         res.ItemID.String(),
		Matches:        res.Matches,
		AlreadyScanned: res.AlreadyScanned,
	})
}
