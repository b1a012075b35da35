package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
)

type ProjectRouter struct {
	ps *service.ProjectService
}

func NewProjectRouter(ps *service.ProjectService) *ProjectRouter {
	return &ProjectRouter{ps: ps}
}

// HandleCreateProject handles POST /api/projects requests.
// Creating a project expands every selected service's work breakdown into a
// process instance and its tasks; all records commit together.
// Response: {project, processInstances, tasks}
func (pr *ProjectRouter) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var createReq model.CreateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result, err := pr.ps.CreateProject(r.Context(), &createReq)
	if err != nil {
		writeServiceError(w, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleListProjects handles GET /api/projects?clientId={clientId}&offset={offset}&limit={limit} requests.
func (pr *ProjectRouter) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	var clientID *uuid.UUID
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid clientId: %v", err), http.StatusBadRequest)
			return
		}
		clientID = &parsed
	}
	offset, limit := paginationFromQuery(r)

	projects, err := pr.ps.ListProjects(r.Context(), clientID, offset, limit)
	if err != nil {
		writeServiceError(w, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// HandleGetProject handles GET /api/projects/{projectID} requests.
func (pr *ProjectRouter) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}

	project, err := pr.ps.GetProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, "get project", err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleGetProjectDetails handles GET /api/projects/{projectID}/details requests.
// Response: {project, processInstances} with employee-hydrated assignments.
func (pr *ProjectRouter) HandleGetProjectDetails(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}

	details, err := pr.ps.GetProjectDetails(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, "get project details", err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// HandleDeactivateProject handles DELETE /api/projects/{projectID} requests.
func (pr *ProjectRouter) HandleDeactivateProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUUID(w, r, "projectID")
	if !ok {
		return
	}

	if err := pr.ps.DeactivateProject(r.Context(), projectID); err != nil {
		writeServiceError(w, "deactivate project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
