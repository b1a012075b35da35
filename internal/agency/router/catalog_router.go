package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
)

type CatalogRouter struct {
	catalog *service.CatalogService
}

func NewCatalogRouter(catalog *service.CatalogService) *CatalogRouter {
	return &CatalogRouter{catalog: catalog}
}

// HandleListTemplates handles GET /api/process-templates requests.
// Query params: includeInactive (optional, defaults to active-only listing)
func (cr *CatalogRouter) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("includeInactive") != "true"

	templates, err := cr.catalog.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, "list templates", err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// HandleGetTemplate handles GET /api/process-templates/{templateID} requests.
func (cr *CatalogRouter) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "templateID")
	if !ok {
		return
	}

	template, err := cr.catalog.GetTemplate(r.Context(), templateID)
	if err != nil {
		writeServiceError(w, "get template", err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// HandleCreateTemplate handles POST /api/process-templates requests.
func (cr *CatalogRouter) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var createReq model.CreateProcessTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	template, err := cr.catalog.CreateTemplate(r.Context(), &createReq)
	if err != nil {
		writeServiceError(w, "create template", err)
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

// HandleReplaceTemplate handles PUT /api/process-templates/{templateID} requests.
// Whole-document replace; existing instances are untouched.
func (cr *CatalogRouter) HandleReplaceTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "templateID")
	if !ok {
		return
	}

	var replaceReq model.CreateProcessTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&replaceReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	template, err := cr.catalog.ReplaceTemplate(r.Context(), templateID, &replaceReq)
	if err != nil {
		writeServiceError(w, "replace template", err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// HandleDeactivateTemplate handles DELETE /api/process-templates/{templateID} requests.
func (cr *CatalogRouter) HandleDeactivateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "templateID")
	if !ok {
		return
	}

	if err := cr.catalog.DeactivateTemplate(r.Context(), templateID); err != nil {
		writeServiceError(w, "deactivate template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
