package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidTaskID = "invalid task id"
	errTaskNotFound  = "task not found"
	errTaskForbidden = "access to task denied"
	errOwnerMissing  = "user not found"
)

// Request DTO for creating and fully replacing a task. PUT is a replacement,
// not a merge: omitted optional fields overwrite stored values with "".
type taskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// writeTaskError maps task domain errors onto status codes.
func (h *Handler) writeTaskError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errTaskForbidden})
	case errors.Is(err, service.ErrOwnerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errOwnerMissing})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", logKey, err, kv...)
	}
}

// taskIDParam parses the :id path segment; writes a 400 and returns false on
// a non-numeric id.
func taskIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidTaskID})
		return 0, false
	}
	return id, true
}

// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      taskRequest  true  "Task fields"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string  "caller no longer resolves to a user"
// @Router       /api/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	var req taskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), identity.ID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeTaskError(c, err, "task_create_failed", "userId", identity.ID)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Param        status    query     string  false  "Exact status match"
// @Param        priority  query     string  false  "Exact priority match"
// @Success      200       {array}   models.Task
// @Failure      401       {object}  map[string]string
// @Router       /api/tasks [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	tasks, err := h.services.Tasks.List(c.Request.Context(), identity.ID, service.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to list tasks", "task_list_failed", err,
			"userId", identity.ID)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// @Summary      Replace a task
// @Description  Full replacement of title/description/status/priority.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Task id"
// @Param        body  body      taskRequest  true  "New task fields"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req taskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	task, err := h.services.Tasks.Update(c.Request.Context(), identity.ID, taskID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeTaskError(c, err, "task_update_failed", "userId", identity.ID, "taskId", taskID)
		return
	}

	c.JSON(http.StatusOK, task)
}

// @Summary      Delete a task
// @Description  Removes the task and detaches it from the owner; returns the deleted task.
// @Tags         tasks
// @Produce      json
// @Param        id  path      int  true  "Task id"
// @Success      200  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.services.Tasks.Delete(c.Request.Context(), identity.ID, taskID)
	if err != nil {
		h.writeTaskError(c, err, "task_delete_failed", "userId", identity.ID, "taskId", taskID)
		return
	}

	c.JSON(http.StatusOK, task)
}
