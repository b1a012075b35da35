package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
)

type ProcessRouter struct {
	ps *service.ProcessService
}

func NewProcessRouter(ps *service.ProcessService) *ProcessRouter {
	return &ProcessRouter{ps: ps}
}

// HandleMaterialize handles POST /api/process-instances requests.
// Request body: CreateProcessInstanceDTO
// Response: the full materialized ProcessInstance document.
func (pr *ProcessRouter) HandleMaterialize(w http.ResponseWriter, r *http.Request) {
	var createReq model.CreateProcessInstanceDTO
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	instance, err := pr.ps.Materialize(r.Context(), &createReq)
	if err != nil {
		writeServiceError(w, "create process instance", err)
		return
	}
	writeJSON(w, http.StatusCreated, instance)
}

// HandleGetInstance handles GET /api/process-instances/{instanceID} requests.
func (pr *ProcessRouter) HandleGetInstance(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := pathUUID(w, r, "instanceID")
	if !ok {
		return
	}

	instance, err := pr.ps.GetInstance(r.Context(), instanceID)
	if err != nil {
		writeServiceError(w, "get process instance", err)
		return
	}
	writeJSON(w, http.StatusOK, instance)
}

// HandleGetPhases handles GET /api/process-instances/{instanceID}/phases requests.
// Phases are returned in stored (template step) order.
func (pr *ProcessRouter) HandleGetPhases(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := pathUUID(w, r, "instanceID")
	if !ok {
		return
	}

	phases, err := pr.ps.GetPhases(r.Context(), instanceID)
	if err != nil {
		writeServiceError(w, "get phases", err)
		return
	}
	writeJSON(w, http.StatusOK, phases)
}

// HandleGetProgress handles GET /api/process-instances/{instanceID}/progress requests.
func (pr *ProcessRouter) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := pathUUID(w, r, "instanceID")
	if !ok {
		return
	}

	progress, err := pr.ps.InstanceProgress(r.Context(), instanceID)
	if err != nil {
		writeServiceError(w, "compute progress", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// HandleUpdatePhase handles PUT /api/process-instances/{instanceID}/phases/{phaseID} requests.
func (pr *ProcessRouter) HandleUpdatePhase(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := pathUUID(w, r, "instanceID")
	if !ok {
		return
	}
	phaseID, ok := pathUUID(w, r, "phaseID")
	if !ok {
		return
	}

	var updateReq model.UpdatePhaseStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	phase, err := pr.ps.UpdatePhase(r.Context(), instanceID, phaseID, &updateReq)
	if err != nil {
		writeServiceError(w, "update phase", err)
		return
	}
	writeJSON(w, http.StatusOK, phase)
}

// HandleDeactivateInstance handles DELETE /api/process-instances/{instanceID} requests.
func (pr *ProcessRouter) HandleDeactivateInstance(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := pathUUID(w, r, "instanceID")
	if !ok {
		return
	}

	if err := pr.ps.DeactivateInstance(r.Context(), instanceID); err != nil {
		writeServiceError(w, "deactivate process instance", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
