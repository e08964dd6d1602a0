package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
	"github.com/sjperalta/backoffice-api/internal/storage"
)

type SampleHandler struct {
	sampleService *services.SampleService
}

func NewSampleHandler(sampleService *services.SampleService) *SampleHandler {
	return &SampleHandler{sampleService: sampleService}
}

// bindSample reads a sample from either a multipart form (a "sample" JSON
// part plus an optional "image" file) or a plain JSON body.
func bindSample(c *gin.Context) (*services.SampleInput, *multipart.FileHeader, error) {
	var input services.SampleInput
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := BindNestedOrFlat(c, "sample", &input); err != nil {
			return nil, nil, err
		}
		return &input, nil, nil
	}

	if err := c.Request.ParseMultipartForm(storage.MaxFileSize()); err != nil {
		return nil, nil, err
	}
	if raw := c.Request.FormValue("sample"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return nil, nil, err
		}
	}
	image, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return &input, nil, nil
		}
		return nil, nil, err
	}
	return &input, image, nil
}

func sampleQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Filters["customer_id"] = c.Query("customerId")
	query.Filters["model"] = c.Query("model")
	return query
}

// @Summary List samples
// @Tags Samples
// @Produce json
// @Param customerId query int false "Customer ID"
// @Param model query string false "Model contains"
// @Success 200 {object} response.Envelope{data=[]models.Sample}
// @Security BearerAuth
// @Router /samples [get]
func (h *SampleHandler) Index(c *gin.Context) {
	query := sampleQuery(c)
	query.PerPage = 0

	samples, _, err := h.sampleService.List(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	if samples == nil {
		samples = []models.Sample{}
	}
	response.OK(c, samples)
}

// @Summary Page samples
// @Tags Samples
// @Produce json
// @Param pageNum query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param customerId query int false "Customer ID"
// @Param model query string false "Model contains"
// @Success 200 {object} response.Envelope{data=models.Page[models.Sample]}
// @Security BearerAuth
// @Router /samples/page [get]
func (h *SampleHandler) Page(c *gin.Context) {
	query := sampleQuery(c)
	query.Page = queryInt(c, "pageNum", 1)
	query.PerPage = queryInt(c, "pageSize", 20)
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = 20
	}

	samples, total, err := h.sampleService.List(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, models.NewPage(samples, total, query.Page, query.PerPage))
}

// @Summary Get sample
// @Tags Samples
// @Produce json
// @Param id path int true "Sample ID"
// @Success 200 {object} response.Envelope{data=models.Sample}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /samples/{id} [get]
func (h *SampleHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sample, err := h.sampleService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, sample)
}

// @Summary Create sample
// @Description Multipart form with a "sample" JSON part and an optional "image" file
// @Tags Samples
// @Accept multipart/form-data
// @Produce json
// @Param sample formData string true "Sample JSON"
// @Param image formData file false "Sample image"
// @Success 200 {object} response.Envelope{data=models.Sample}
// @Security BearerAuth
// @Router /samples [post]
func (h *SampleHandler) Create(c *gin.Context) {
	input, image, err := bindSample(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid sample payload")
		return
	}
	sample, err := h.sampleService.Create(c.Request.Context(), input, image)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "sample created", sample)
}

// @Summary Update sample
// @Description A new "image" replaces the stored one; "image": "" in the sample JSON removes it
// @Tags Samples
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Sample ID"
// @Param sample formData string true "Sample JSON"
// @Param image formData file false "Sample image"
// @Success 200 {object} response.Envelope{data=models.Sample}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /samples/{id} [put]
func (h *SampleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	input, image, err := bindSample(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid sample payload")
		return
	}
	sample, err := h.sampleService.Update(c.Request.Context(), id, input, image)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "sample updated", sample)
}

// @Summary Delete sample
// @Description Deletes the sample, its orders and its image
// @Tags Samples
// @Produce json
// @Param id path int true "Sample ID"
// @Success 200 {object} response.Envelope{data=models.DeleteResult}
// @Security BearerAuth
// @Router /samples/{id} [delete]
func (h *SampleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.sampleService.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, result.Description, result)
}

// @Summary Delete sample image
// @Tags Samples
// @Produce json
// @Param id path int true "Sample ID"
// @Success 200 {object} response.Envelope{data=models.Sample}
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /samples/{id}/image [delete]
func (h *SampleHandler) DeleteImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sample, err := h.sampleService.DeleteImage(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "image deleted", sample)
}

// @Summary Count orders of a sample
// @Tags Samples
// @Produce json
// @Param id path int true "Sample ID"
// @Success 200 {object} response.Envelope{data=int}
// @Security BearerAuth
// @Router /samples/{id}/order-count [get]
func (h *SampleHandler) OrderCount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	count, err := h.sampleService.OrderCount(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, count)
}

// @Summary Assign samples without a customer
// @Tags Samples
// @Produce json
// @Success 200 {object} response.Envelope{data=int}
// @Security BearerAuth
// @Router /samples/fix-null-customers [post]
func (h *SampleHandler) FixNullCustomers(c *gin.Context) {
	count, err := h.sampleService.FixNullCustomers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, count)
}
