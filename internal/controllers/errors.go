package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"route_planner/internal/optimizer"
	"route_planner/internal/planner"
	"route_planner/internal/store"
)

// statusFor maps planner errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidInput),
		errors.Is(err, store.ErrOutOfRange),
		errors.Is(err, store.ErrInvalidPermutation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrStopNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrOptimizeInProgress):
		return http.StatusConflict
	case errors.Is(err, optimizer.ErrInsufficientStops),
		errors.Is(err, planner.ErrNothingToExport):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	entry := logrus.WithError(err).WithField("path", c.FullPath())
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	entry.Warn("Request rejected")
	c.JSON(status, gin.H{"error": err.Error()})
}
