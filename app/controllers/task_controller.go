package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"taskboard-go/app/logging"
	"taskboard-go/app/models"
	"taskboard-go/app/repository"
	"taskboard-go/app/services"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService) *TaskController {
	return &TaskController{Service: service}
}

// apiResponse is the JSON envelope every endpoint answers with. The status
// field inside the body is the API status; the transport status is always
// 200, a contract kept for client compatibility.
type apiResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeResponse(w http.ResponseWriter, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func failureResponse() apiResponse {
	return apiResponse{Status: 400, Message: "Try again later", Data: []any{}}
}

func notFoundResponse() apiResponse {
	return apiResponse{Status: 404, Message: "Record Not Found", Data: []any{}}
}

func validationResponse(errs models.FieldErrors) apiResponse {
	return apiResponse{Status: 401, Message: "validation errors", Data: errs}
}

// ListTasks handles GET /task.
func (c *TaskController) ListTasks(w http.ResponseWriter, r *http.Request) {
	opts := services.ListOptions{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Filter: r.URL.Query().Get("filter"),
	}

	tasks, err := c.Service.List(r.Context(), opts)
	if err != nil {
		logging.Log(fmt.Sprintf("Listing tasks failed: %v", err), slog.LevelError)
		writeResponse(w, failureResponse())
		return
	}

	writeResponse(w, apiResponse{Status: 200, Message: "success", Data: tasks})
}

// CreateTask handles POST /task.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, failureResponse())
		return
	}

	if errs := req.Validate(); !errs.Empty() {
		writeResponse(w, validationResponse(errs))
		return
	}

	parentID, _ := req.ParentID()
	task, err := c.Service.Create(r.Context(), repository.CreateTask{
		Title:       req.Title,
		DueDate:     req.DueDate,
		Description: req.Description,
		ParentID:    parentID,
	})
	if err != nil {
		logging.Log(fmt.Sprintf("Creating task failed: %v", err), slog.LevelError)
		writeResponse(w, failureResponse())
		return
	}

	writeResponse(w, apiResponse{Status: 200, Message: "Success", Data: task})
}

// DeleteTask handles DELETE /task/{id}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeResponse(w, notFoundResponse())
		return
	}

	if err := c.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeResponse(w, notFoundResponse())
			return
		}
		logging.Log(fmt.Sprintf("Deleting task %d failed: %v", id, err), slog.LevelError)
		writeResponse(w, failureResponse())
		return
	}

	writeResponse(w, apiResponse{Status: 200, Message: "Success", Data: []any{}})
}

// UpdateStatus handles PUT /task/update_status/{id}. The success response
// body is intentionally empty.
func (c *TaskController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, failureResponse())
		return
	}

	if errs := req.Validate(); !errs.Empty() {
		writeResponse(w, validationResponse(errs))
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeResponse(w, notFoundResponse())
		return
	}

	if err := c.Service.UpdateStatus(r.Context(), id, models.Status(req.Status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeResponse(w, notFoundResponse())
			return
		}
		logging.Log(fmt.Sprintf("Updating status of task %d failed: %v", id, err), slog.LevelError)
		writeResponse(w, failureResponse())
		return
	}

	w.WriteHeader(http.StatusOK)
}

// UpdateTask handles PUT /task/{id}. The field-update endpoint is a
// contract stub: it resolves the task but changes nothing.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeResponse(w, notFoundResponse())
		return
	}

	if _, err := c.Service.UpdateFields(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeResponse(w, notFoundResponse())
			return
		}
		logging.Log(fmt.Sprintf("Updating task %d failed: %v", id, err), slog.LevelError)
		writeResponse(w, failureResponse())
		return
	}

	w.WriteHeader(http.StatusOK)
}
