package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LogHandler serves the operation audit trail
type LogHandler struct {
	logService    *services.OperationLogService
	exportService *services.ExportService
}

func NewLogHandler(logService *services.OperationLogService, exportService *services.ExportService) *LogHandler {
	return &LogHandler{logService: logService, exportService: exportService}
}

// parseLogTime accepts "2006-01-02 15:04:05", RFC3339 or a bare date. A bare
// date used as an end bound covers the whole day.
func parseLogTime(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateTime, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q", value)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// logSearch reads the search filters, writing a 400 on a malformed time
func logSearch(c *gin.Context) (services.LogSearch, bool) {
	start, err := parseLogTime(c.Query("startTime"), false)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return services.LogSearch{}, false
	}
	end, err := parseLogTime(c.Query("endTime"), true)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return services.LogSearch{}, false
	}
	return services.LogSearch{
		Username:  c.Query("username"),
		Module:    c.Query("module"),
		Action:    c.Query("action"),
		StartTime: start,
		EndTime:   end,
		PageNum:   queryInt(c, "pageNum", 1),
		PageSize:  queryInt(c, "pageSize", 20),
	}, true
}

// @Summary Page operation logs
// @Description Newest first
// @Tags Logs
// @Produce json
// @Param pageNum query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} response.Envelope{data=models.Page[models.OperationLogResponse]}
// @Security BearerAuth
// @Router /logs [get]
func (h *LogHandler) Index(c *gin.Context) {
	page, err := h.logService.Page(c.Request.Context(), queryInt(c, "pageNum", 1), queryInt(c, "pageSize", 20))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, page)
}

// @Summary Search operation logs
// @Tags Logs
// @Produce json
// @Param username query string false "Operator name contains"
// @Param module query string false "Module"
// @Param action query string false "Action"
// @Param startTime query string false "From (inclusive)"
// @Param endTime query string false "To (inclusive)"
// @Param pageNum query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} response.Envelope{data=models.Page[models.OperationLogResponse]}
// @Security BearerAuth
// @Router /logs/search [get]
func (h *LogHandler) Search(c *gin.Context) {
	q, ok := logSearch(c)
	if !ok {
		return
	}
	page, err := h.logService.Search(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, page)
}

// @Summary Get operation log
// @Tags Logs
// @Produce json
// @Param id path int true "Log ID"
// @Success 200 {object} response.Envelope{data=models.OperationLogResponse}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /logs/{id} [get]
func (h *LogHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.logService.FindByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, entry)
}

// @Summary Purge old operation logs
// @Tags Logs
// @Produce json
// @Param days query int false "Keep this many days" default(30)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /logs/clean [delete]
func (h *LogHandler) Clean(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "days must be a number")
		return
	}
	n, err := h.logService.PurgeOlderThan(c.Request.Context(), days)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, fmt.Sprintf("deleted %d log entries older than %d days", n, days), gin.H{"deleted": n})
}

// @Summary Purge login logs
// @Tags Logs
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /logs/clean-login [delete]
func (h *LogHandler) CleanLogin(c *gin.Context) {
	n, err := h.logService.PurgeByAction(c.Request.Context(), models.ActionLogin)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, fmt.Sprintf("deleted %d login log entries", n), gin.H{"deleted": n})
}

// @Summary Export operation logs
// @Description Same filters as search, rendered as an xlsx workbook
// @Tags Logs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Router /logs/export [get]
func (h *LogHandler) Export(c *gin.Context) {
	q, ok := logSearch(c)
	if !ok {
		return
	}
	data, filename, err := h.exportService.OperationLogsXLSX(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
