package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nibzard/tasktracker/internal/controller"
	"github.com/nibzard/tasktracker/internal/task"
)

// snapshot is the body returned for list reads and mutations.
type snapshot struct {
	Tasks []task.Task     `json:"tasks"`
	Stats task.Statistics `json:"stats"`
}

func newSnapshot(s task.Store) snapshot {
	return snapshot{Tasks: s.Tasks(), Stats: s.Stats()}
}

type moveRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleList(c *gin.Context) {
	store, err := s.d.Snapshot(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSnapshot(store))
}

func (s *Server) handleStats(c *gin.Context) {
	store, err := s.d.Snapshot(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, store.Stats())
}

func (s *Server) handleAdd(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	in, err := task.DecodeInput(body, s.categories)
	if err != nil {
		s.writeError(c, err)
		return
	}

	store, err := s.d.Dispatch(c.Request.Context(), task.Add{Input: in})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, store.At(store.Len()-1))
}

func (s *Server) handleToggle(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	s.dispatch(c, task.Toggle{ID: id})
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	s.dispatch(c, task.Delete{ID: id})
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be {\"from\": int, \"to\": int}"})
		return
	}
	s.dispatch(c, task.Move{From: *req.From, To: *req.To})
}

func (s *Server) dispatch(c *gin.Context, cmd task.Command) {
	store, err := s.d.Dispatch(c.Request.Context(), cmd)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSnapshot(store))
}

// taskID parses the :id path parameter, writing a 400 when it is not a
// positive integer.
func taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id", "id": c.Param("id")})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		ve *task.ValidationError
		re *task.RangeError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": ve.Field})
	case errors.As(err, &re):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "from": re.From, "to": re.To, "len": re.Len})
	case errors.Is(err, controller.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		s.logger.Error("unexpected error", "err", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
