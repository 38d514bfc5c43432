package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"roadcall/internal/apperr"
)

// fail maps a service-layer error onto an HTTP response. The displayed
// message is always the taxonomy message; raw storage errors only reach
// the log.
func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindEmptyCredentials, apperr.KindValidationFailed:
		status = http.StatusBadRequest
	case apperr.KindInvalidCredentials:
		status = http.StatusUnauthorized
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindAlreadyClaimed, apperr.KindInvalidTransition:
		status = http.StatusConflict
	case apperr.KindTimeout:
		status = http.StatusGatewayTimeout
	}
	if kind == apperr.KindStorageFailure || kind == apperr.KindTimeout {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"error": apperr.DisplayMessage(err), "code": kind.String()})
}
