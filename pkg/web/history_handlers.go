package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pricescan/pricescan/pkg/export"
)

// handleGetHistory lists scan history, scoped to the acting user when
// authenticated and global otherwise.
func (s *Server) handleGetHistory(c *gin.Context) {
	history, err := s.Store.GetScanHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) handleClearHistory(c *gin.Context) {
	userID := currentUserID(c)
	if err := s.Store.ClearScanHistory(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	if userID != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Your scan history cleared successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scan history cleared successfully"})
}

// handleExportHistory streams the caller's history as an XLSX workbook.
func (s *Server) handleExportHistory(c *gin.Context) {
	history, err := s.Store.GetScanHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	workbook, err := export.HistoryWorkbook(history)
	if err != nil {
		fail(c, err)
		return
	}

	filename := fmt.Sprintf("scan-history-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook.Bytes())
}
