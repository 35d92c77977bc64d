package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quartzlabs/swap-engine/internal/executor"
	"github.com/quartzlabs/swap-engine/internal/quoter"
	"github.com/quartzlabs/swap-engine/internal/registry"
	"github.com/quartzlabs/swap-engine/internal/router"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func BadRequest(c *gin.Context, err string) {
	Error(c, http.StatusBadRequest, err)
}

func InternalError(c *gin.Context, err string) {
	Error(c, http.StatusInternalServerError, err)
}

func NotFound(c *gin.Context, err string) {
	Error(c, http.StatusNotFound, err)
}

// HandleEngineError maps engine failures onto HTTP statuses: caller mistakes
// to 4xx, upstream pricing or confirmation problems to their own codes, and
// everything unexpected to 500.
func HandleEngineError(c *gin.Context, err error) {
	var simErr *executor.SimulationError
	var revertErr *executor.SwapRevertedError

	switch {
	case errors.Is(err, registry.ErrUnknownAsset):
		NotFound(c, err.Error())
	case errors.Is(err, router.ErrSameAsset),
		errors.Is(err, router.ErrInvalidSlippage),
		errors.Is(err, executor.ErrInvalidAmount),
		errors.Is(err, executor.ErrIntentExpired):
		BadRequest(c, err.Error())
	case errors.Is(err, quoter.ErrQuoteUnavailable):
		Error(c, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &simErr):
		Error(c, http.StatusUnprocessableEntity, simErr.Error())
	case errors.As(err, &revertErr):
		Error(c, http.StatusConflict, revertErr.Error())
	case errors.Is(err, executor.ErrConfirmTimeout):
		Error(c, http.StatusGatewayTimeout, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// Aliases for compatibility
func HandleSuccess(c *gin.Context, data interface{}) {
	Success(c, data)
}

func HandleBadRequest(c *gin.Context, err string) {
	BadRequest(c, err)
}

func HandleNotFound(c *gin.Context, err string) {
	NotFound(c, err)
}

func HandleInternalError(c *gin.Context, err string) {
	InternalError(c, err)
}
