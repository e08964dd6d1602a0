package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/middleware"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
	"github.com/sjperalta/backoffice-api/pkg/logger"
)

const systemBusy = "system busy, please try again later"

// handleError maps a service error to its envelope. Unexpected errors are
// logged and hidden behind a generic message.
func handleError(c *gin.Context, err error) {
	var be *services.BusinessError
	switch {
	case errors.As(err, &be):
		response.Fail(c, be.Code, be.Message)
	case errors.Is(err, services.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "record does not exist")
	case errors.Is(err, services.ErrDuplicate):
		response.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		response.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUsernameNotFound), errors.Is(err, services.ErrWrongPassword):
		response.Fail(c, http.StatusBadRequest, err.Error())
	default:
		if code, msg := middleware.AuthFailure(err); code != http.StatusInternalServerError {
			response.Fail(c, code, msg)
			return
		}
		_ = c.Error(err)
		logger.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		response.Fail(c, http.StatusInternalServerError, systemBusy)
	}
}

// pathID parses a positive numeric path parameter, writing a 400 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back to def when absent or malformed
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// listQuery reads the common paging, search and sort parameters
func listQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page = queryInt(c, "page", 1)
	query.PerPage = queryInt(c, "per_page", 20)
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 500 {
		query.PerPage = 20
	}
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_direction")
	return query
}
