// Package restapi implements the JSON API handlers: item and merchant
// search, merchant business-intelligence summaries, and record CRUD.
package restapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/commercekit/salesapi/internal/domain"
	"github.com/commercekit/salesapi/internal/webserver"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// GetDB returns the request-scoped database handle injected by the
// web server middleware.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.DBContextKey).(*gorm.DB)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// respondError maps the domain error taxonomy onto HTTP statuses.
// Invalid queries and missing resources are client errors; everything
// else is a 500 and gets logged.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		zap.L().Error("store unavailable", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "storage unavailable")
	default:
		zap.L().Error("request failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidQuery, "invalid %s %q", name, c.Param(name))
	}
	return id, nil
}
