package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
)

// SystemHandler exposes background job and DDNS sync state
type SystemHandler struct {
	jobService  *services.JobService
	ddnsService *services.DDNSService
}

func NewSystemHandler(jobSvc *services.JobService, ddnsSvc *services.DDNSService) *SystemHandler {
	return &SystemHandler{
		jobService:  jobSvc,
		ddnsService: ddnsSvc,
	}
}

// Jobs returns the current worker status
// @Summary Get background job status
// @Description Get statistics about background jobs (active, completed, failed, queue length)
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=map[string]interface{}}
// @Router /system/jobs [get]
func (h *SystemHandler) Jobs(c *gin.Context) {
	response.OK(c, h.jobService.GetStatus())
}

// @Summary DDNS sync status
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=services.DDNSStatus}
// @Router /system/ddns [get]
func (h *SystemHandler) DDNSStatus(c *gin.Context) {
	response.OK(c, h.ddnsService.Status())
}

// @Summary Run DDNS sync now
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=services.DDNSStatus}
// @Failure 400 {object} response.Envelope
// @Router /system/ddns/run [post]
func (h *SystemHandler) DDNSRun(c *gin.Context) {
	status, err := h.ddnsService.Run(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, status.LastAction, status)
}
