package ui

import (
	"bytes"
	"net/http"
	"time"

	"tinysteps/internal/reports"

	"github.com/gin-gonic/gin"
)

// handleWeeklyReport streams the weekly workbook as an xlsx download
func (s *Server) handleWeeklyReport(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	sessions, err := s.focus.Sessions(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	us, err := s.focus.Stats(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	f, err := reports.BuildWeekly(sessions, us, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="weekly-report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
