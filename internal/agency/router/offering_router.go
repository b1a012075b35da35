package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
)

// OfferingRouter serves the service catalog and service package screens.
type OfferingRouter struct {
	ds *service.DirectoryService
}

func NewOfferingRouter(ds *service.DirectoryService) *OfferingRouter {
	return &OfferingRouter{ds: ds}
}

// HandleCreateService handles POST /api/services requests.
func (or *OfferingRouter) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	var svc model.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := or.ds.CreateService(r.Context(), &svc)
	if err != nil {
		writeServiceError(w, "create service", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListServices handles GET /api/services requests.
func (or *OfferingRouter) HandleListServices(w http.ResponseWriter, r *http.Request) {
	offset, limit := paginationFromQuery(r)
	services, err := or.ds.ListServices(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, "list services", err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// HandleGetService handles GET /api/services/{serviceID} requests.
func (or *OfferingRouter) HandleGetService(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := pathUUID(w, r, "serviceID")
	if !ok {
		return
	}
	svc, err := or.ds.GetService(r.Context(), serviceID)
	if err != nil {
		writeServiceError(w, "get service", err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// HandleUpdateService handles PUT /api/services/{serviceID} requests.
func (or *OfferingRouter) HandleUpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := pathUUID(w, r, "serviceID")
	if !ok {
		return
	}
	var update model.Service
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	svc, err := or.ds.UpdateService(r.Context(), serviceID, &update)
	if err != nil {
		writeServiceError(w, "update service", err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// HandleDeactivateService handles DELETE /api/services/{serviceID} requests.
func (or *OfferingRouter) HandleDeactivateService(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := pathUUID(w, r, "serviceID")
	if !ok {
		return
	}
	if err := or.ds.DeactivateService(r.Context(), serviceID); err != nil {
		writeServiceError(w, "deactivate service", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreatePackage handles POST /api/service-packages requests.
// Quantity and customizations of the included services are frozen at save time.
func (or *OfferingRouter) HandleCreatePackage(w http.ResponseWriter, r *http.Request) {
	var pkg model.ServicePackage
	if err := json.NewDecoder(r.Body).Decode(&pkg); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := or.ds.CreatePackage(r.Context(), &pkg)
	if err != nil {
		writeServiceError(w, "create service package", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListPackages handles GET /api/service-packages requests.
func (or *OfferingRouter) HandleListPackages(w http.ResponseWriter, r *http.Request) {
	offset, limit := paginationFromQuery(r)
	packages, err := or.ds.ListPackages(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, "list service packages", err)
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

// HandleGetPackage handles GET /api/service-packages/{packageID} requests.
func (or *OfferingRouter) HandleGetPackage(w http.ResponseWriter, r *http.Request) {
	packageID, ok := pathUUID(w, r, "packageID")
	if !ok {
		return
	}
	pkg, err := or.ds.GetPackage(r.Context(), packageID)
	if err != nil {
		writeServiceError(w, "get service package", err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// HandleUpdatePackage handles PUT /api/service-packages/{packageID} requests.
func (or *OfferingRouter) HandleUpdatePackage(w http.ResponseWriter, r *http.Request) {
	packageID, ok := pathUUID(w, r, "packageID")
	if !ok {
		return
	}
	var update model.ServicePackage
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	pkg, err := or.ds.UpdatePackage(r.Context(), packageID, &update)
	if err != nil {
		writeServiceError(w, "update service package", err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// HandleDeactivatePackage handles DELETE /api/service-packages/{packageID} requests.
func (or *OfferingRouter) HandleDeactivatePackage(w http.ResponseWriter, r *http.Request) {
	packageID, ok := pathUUID(w, r, "packageID")
	if !ok {
		return
	}
	if err := or.ds.DeactivatePackage(r.Context(), packageID); err != nil {
		writeServiceError(w, "deactivate service package", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
