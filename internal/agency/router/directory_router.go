package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
)

// DirectoryRouter serves the client and employee CRUD screens.
type DirectoryRouter struct {
	ds *service.DirectoryService
}

func NewDirectoryRouter(ds *service.DirectoryService) *DirectoryRouter {
	return &DirectoryRouter{ds: ds}
}

// HandleCreateClient handles POST /api/clients requests.
func (dr *DirectoryRouter) HandleCreateClient(w http.ResponseWriter, r *http.Request) {
	var client model.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := dr.ds.CreateClient(r.Context(), &client)
	if err != nil {
		writeServiceError(w, "create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListClients handles GET /api/clients requests.
func (dr *DirectoryRouter) HandleListClients(w http.ResponseWriter, r *http.Request) {
	offset, limit := paginationFromQuery(r)
	clients, err := dr.ds.ListClients(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, "list clients", err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// HandleGetClient handles GET /api/clients/{clientID} requests.
func (dr *DirectoryRouter) HandleGetClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathUUID(w, r, "clientID")
	if !ok {
		return
	}
	client, err := dr.ds.GetClient(r.Context(), clientID)
	if err != nil {
		writeServiceError(w, "get client", err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// HandleUpdateClient handles PUT /api/clients/{clientID} requests.
func (dr *DirectoryRouter) HandleUpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathUUID(w, r, "clientID")
	if !ok {
		return
	}
	var update model.Client
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	client, err := dr.ds.UpdateClient(r.Context(), clientID, &update)
	if err != nil {
		writeServiceError(w, "update client", err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// HandleDeactivateClient handles DELETE /api/clients/{clientID} requests.
func (dr *DirectoryRouter) HandleDeactivateClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathUUID(w, r, "clientID")
	if !ok {
		return
	}
	if err := dr.ds.DeactivateClient(r.Context(), clientID); err != nil {
		writeServiceError(w, "deactivate client", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateEmployee handles POST /api/employees requests.
func (dr *DirectoryRouter) HandleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var employee model.Employee
	if err := json.NewDecoder(r.Body).Decode(&employee); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := dr.ds.CreateEmployee(r.Context(), &employee)
	if err != nil {
		writeServiceError(w, "create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListEmployees handles GET /api/employees requests.
func (dr *DirectoryRouter) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
	offset, limit := paginationFromQuery(r)
	employees, err := dr.ds.ListEmployees(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, "list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// HandleGetEmployee handles GET /api/employees/{employeeID} requests.
func (dr *DirectoryRouter) HandleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathUUID(w, r, "employeeID")
	if !ok {
		return
	}
	employee, err := dr.ds.GetEmployee(r.Context(), employeeID)
	if err != nil {
		writeServiceError(w, "get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

// HandleUpdateEmployee handles PUT /api/employees/{employeeID} requests.
func (dr *DirectoryRouter) HandleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathUUID(w, r, "employeeID")
	if !ok {
		return
	}
	var update model.Employee
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	employee, err := dr.ds.UpdateEmployee(r.Context(), employeeID, &update)
	if err != nil {
		writeServiceError(w, "update employee", err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

// HandleDeactivateEmployee handles DELETE /api/employees/{employeeID} requests.
func (dr *DirectoryRouter) HandleDeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathUUID(w, r, "employeeID")
	if !ok {
		return
	}
	if err := dr.ds.DeactivateEmployee(r.Context(), employeeID); err != nil {
		writeServiceError(w, "deactivate employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
