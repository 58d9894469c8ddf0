package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/auth"
	"github.com/yourname/sleepsense/internal/response"
	"github.com/yourname/sleepsense/internal/service"
	"github.com/yourname/sleepsense/internal/sleepstats"
	"github.com/yourname/sleepsense/internal/storage"
	"github.com/yourname/sleepsense/internal/wizard"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusNotFound:
		resp = response.NotFound(msg + ": " + err.Error())
	case http.StatusConflict:
		resp = response.Conflict(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	respond(c, logger, http.StatusOK, data, meta)
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	respond(c, logger, http.StatusCreated, data, nil)
}

func respond(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(status, response.Success(data, meta))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrDuplicateDailyInput):
		return http.StatusConflict
	case errors.Is(err, storage.ErrDailyInputNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDateMismatch),
		errors.Is(err, wizard.ErrIncomplete),
		errors.Is(err, wizard.ErrMalformed),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, wizard.ErrNapIndex),
		errors.Is(err, sleepstats.ErrUnknownOutcome),
		errors.Is(err, sleepstats.ErrUnknownFactor):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet(auth.UserKey).(*internal.User)
}
