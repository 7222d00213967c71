package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/odnamestaj/catalog/internal/docstore"
	"github.com/odnamestaj/catalog/internal/domain"
	"github.com/odnamestaj/catalog/internal/importer"
	"github.com/odnamestaj/catalog/internal/webserver"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, webserver.ErrorResponse{Code: code, Message: message, Detail: detail})
}

// failWithError translates store, import and validation errors into responses.
func failWithError(c echo.Context, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", message, err.Error())
	case errors.Is(err, importer.ErrFetch):
		return fail(c, http.StatusBadRequest, "FETCH_FAILED", message, err.Error())
	case errors.Is(err, importer.ErrFormat):
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", message, err.Error())
	case errors.Is(err, docstore.ErrStoreUnavailable):
		return fail(c, http.StatusInternalServerError, "STORE_UNAVAILABLE", message, err.Error())
	case errors.Is(err, docstore.ErrOperationFailed):
		zap.L().Error(message, zap.String("namespace", "api"), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", message, err.Error())
	default:
		zap.L().Error(message, zap.String("namespace", "api"), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, err.Error())
	}
}

// validationError flattens validator output into one ErrValidation.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(domain.ErrValidation, err.Error())
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fe.Field()+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
	}
	return errors.Wrap(domain.ErrValidation, strings.Join(parts, "; "))
}

func bindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				return errors.Wrap(domain.ErrValidation, m)
			}
		}
		return errors.Wrap(domain.ErrValidation, err.Error())
	}
	if err := c.Validate(payload); err != nil {
		return validationError(err)
	}
	return nil
}
