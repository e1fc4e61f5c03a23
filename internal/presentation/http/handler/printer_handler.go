package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmabill-api/internal/application/service"
	"github.com/sangkips/pharmabill-api/internal/presentation/http/dto/response"
)

// PrinterHandler exposes the receipt printer attached to this terminal
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus reports the configured printer type, paper width and connectivity
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint prints a sample receipt signed by the calling operator. A printer
// failure still returns the receipt so the layout can be checked on screen.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	var cashier string
	if op, ok := GetOperator(c); ok {
		cashier = op.Name
	}

	receipt, err := h.printerService.TestPrint(c.Request.Context(), cashier)
	if err != nil {
		response.OK(c, "Receipt rendered but not printed", gin.H{
			"receipt": receipt,
			"printed": false,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test receipt printed", gin.H{
		"receipt": receipt,
		"printed": true,
	})
}
