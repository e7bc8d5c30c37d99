package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the organization overview for ?date=, today by default
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	on, ok := referenceDate(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Build(orgID, on)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(*dashboard))
}

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportAllocations downloads the allocation report as CSV
func (h *ExportHandler) ExportAllocations(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	on, ok := referenceDate(c)
	if !ok {
		return
	}

	rows, err := h.exportService.AllocationReport(orgID, on)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteAllocationCSV(&buf, rows); err != nil {
		respondError(c, err)
		return
	}

	filename := services.AllocationReportFilename(h.exportService.ReportDay(on))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// LeaveSyncer is the part of the leave sync service the calendar needs.
type LeaveSyncer interface {
	Calendar() (*services.LeaveCalendar, error)
	Sync(ctx context.Context, trigger services.SyncTrigger) (*services.SyncResult, error)
}

type CalendarHandler struct {
	leave LeaveSyncer
}

func NewCalendarHandler(leave LeaveSyncer) *CalendarHandler {
	return &CalendarHandler{leave: leave}
}

// GetCalendar lists cached approved leave
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	cal, err := h.leave.Calendar()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaveCalendarDTO(*cal))
}

// SyncLeave pulls new leave from the HR system right away. A run that stops
// on a failed page still reports what it stored.
func (h *CalendarHandler) SyncLeave(c *gin.Context) {
	result, err := h.leave.Sync(c.Request.Context(), services.SyncManual)
	if err != nil {
		if errors.Is(err, services.ErrLeaveFetchFailed) && result != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":  err.Error(),
				"result": dto.ToSyncResultDTO(*result),
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncResultDTO(*result))
}
