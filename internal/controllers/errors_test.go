package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"route_planner/internal/optimizer"
	"route_planner/internal/planner"
	"route_planner/internal/store"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrInvalidInput, http.StatusBadRequest},
		{store.ErrOutOfRange, http.StatusBadRequest},
		{fmt.Errorf("reorder: %w", store.ErrInvalidPermutation), http.StatusBadRequest},
		{fmt.Errorf("%w: abc", store.ErrStopNotFound), http.StatusNotFound},
		{planner.ErrOptimizeInProgress, http.StatusConflict},
		{fmt.Errorf("%w: need at least 2", optimizer.ErrInsufficientStops), http.StatusUnprocessableEntity},
		{planner.ErrNothingToExport, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
