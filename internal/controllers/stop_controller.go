package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"route_planner/internal/planner"
	"route_planner/internal/store"
)

// StopController exposes stop management over HTTP.
type StopController struct {
	planner *planner.Planner
}

func NewStopController(p *planner.Planner) *StopController {
	return &StopController{planner: p}
}

// ListStops returns the stops in route order together with the summary.
func (sc *StopController) ListStops(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stops":   sc.planner.Stops(),
		"summary": toSummaryResponse(sc.planner.Summary()),
	})
}

// AddStop appends a stop; its address is resolved in the background.
func (sc *StopController) AddStop(c *gin.Context) {
	var input struct {
		Name  string `json:"name"`
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stop input: " + err.Error()})
		return
	}

	stop, err := sc.planner.AddStop(input.Name, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stop": stop})
}

func (sc *StopController) RemoveStop(c *gin.Context) {
	sc.planner.RemoveStop(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"stops": sc.planner.Stops()})
}

func (sc *StopController) ClearStops(c *gin.Context) {
	sc.planner.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "All stops cleared"})
}

// RevalidateStop re-submits one stop for address lookup.
func (sc *StopController) RevalidateStop(c *gin.Context) {
	stop, err := sc.planner.RevalidateStop(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"stop": stop})
}

func (sc *StopController) MoveStopUp(c *gin.Context) {
	sc.move(c, sc.planner.MoveStopUp)
}

func (sc *StopController) MoveStopDown(c *gin.Context) {
	sc.move(c, sc.planner.MoveStopDown)
}

func (sc *StopController) move(c *gin.Context, fn func(int) error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, store.ErrOutOfRange)
		return
	}
	if err := fn(index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stops": sc.planner.Stops()})
}

// ReorderStops applies a full order, as sent after a drag on the list.
func (sc *StopController) ReorderStops(c *gin.Context) {
	var input struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order: " + err.Error()})
		return
	}
	if err := sc.planner.ReorderStops(input.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stops": sc.planner.Stops()})
}
