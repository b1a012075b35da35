package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
)

type TaskRouter struct {
	ts *service.TaskService
	ds *service.DirectoryService
}

func NewTaskRouter(ts *service.TaskService, ds *service.DirectoryService) *TaskRouter {
	return &TaskRouter{ts: ts, ds: ds}
}

// HandleCreateTask handles POST /api/tasks requests.
func (tr *TaskRouter) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var createReq model.CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	task, err := tr.ts.CreateTask(r.Context(), &createReq)
	if err != nil {
		writeServiceError(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// HandleListTasks handles GET /api/tasks?projectId={projectId} requests.
// projectId is required.
func (tr *TaskRouter) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("projectId")
	if raw == "" {
		http.Error(w, "missing projectId query parameter", http.StatusBadRequest)
		return
	}
	projectID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid projectId: %v", err), http.StatusBadRequest)
		return
	}
	offset, limit := paginationFromQuery(r)

	tasks, err := tr.ts.ListTasksByProject(r.Context(), projectID, offset, limit)
	if err != nil {
		writeServiceError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// HandleGetTask handles GET /api/tasks/{taskID} requests.
func (tr *TaskRouter) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := tr.ts.GetTask(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, "get task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleGetTaskDetails handles GET /api/tasks/{taskID}/details requests.
// Response: task with template-derived metadata and logged hours attached.
func (tr *TaskRouter) HandleGetTaskDetails(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	details, err := tr.ts.GetTaskDetails(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, "get task details", err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// HandleUpdateTask handles PUT /api/tasks/{taskID} requests.
// Partial update of status, priority, assignment and due date.
func (tr *TaskRouter) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var updateReq model.UpdateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	task, err := tr.ts.UpdateTask(r.Context(), taskID, &updateReq)
	if err != nil {
		writeServiceError(w, "update task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleDeactivateTask handles DELETE /api/tasks/{taskID} requests.
func (tr *TaskRouter) HandleDeactivateTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	if err := tr.ts.DeactivateTask(r.Context(), taskID); err != nil {
		writeServiceError(w, "deactivate task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateTimeEntry handles POST /api/tasks/{taskID}/time-entries requests.
func (tr *TaskRouter) HandleCreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var entry model.TimeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	entry.TaskID = taskID

	created, err := tr.ds.CreateTimeEntry(r.Context(), &entry)
	if err != nil {
		writeServiceError(w, "create time entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListTimeEntries handles GET /api/tasks/{taskID}/time-entries requests.
func (tr *TaskRouter) HandleListTimeEntries(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}
	offset, limit := paginationFromQuery(r)

	entries, err := tr.ds.ListTimeEntriesByTask(r.Context(), taskID, offset, limit)
	if err != nil {
		writeServiceError(w, "list time entries", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
