package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
	"github.com/AgencyFlow/agencyflow/internal/agency/service"
)

type ContractRouter struct {
	cs *service.ContractService
}

func NewContractRouter(cs *service.ContractService) *ContractRouter {
	return &ContractRouter{cs: cs}
}

// HandleCreateContract handles POST /api/contracts requests.
// Package prices are snapshotted at creation time.
func (cr *ContractRouter) HandleCreateContract(w http.ResponseWriter, r *http.Request) {
	var createReq service.CreateContractDTO
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	contract, err := cr.cs.CreateContract(r.Context(), &createReq)
	if err != nil {
		writeServiceError(w, "create contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

// HandleGetContract handles GET /api/contracts/{contractID} requests.
func (cr *ContractRouter) HandleGetContract(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}

	contract, err := cr.cs.GetContract(r.Context(), contractID)
	if err != nil {
		writeServiceError(w, "get contract", err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

// HandleGetContractDetails handles GET /api/contracts/{contractID}/details requests.
// Response: the contract with packages[].includedServices[] fully hydrated.
func (cr *ContractRouter) HandleGetContractDetails(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}

	details, err := cr.cs.GetContractDetails(r.Context(), contractID)
	if err != nil {
		writeServiceError(w, "get contract details", err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// HandleListContracts handles GET /api/contracts?clientId={clientId} requests.
// clientId is required.
func (cr *ContractRouter) HandleListContracts(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("clientId")
	if raw == "" {
		http.Error(w, "missing clientId query parameter", http.StatusBadRequest)
		return
	}
	clientID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid clientId: %v", err), http.StatusBadRequest)
		return
	}
	offset, limit := paginationFromQuery(r)

	contracts, err := cr.cs.ListContractsByClient(r.Context(), clientID, offset, limit)
	if err != nil {
		writeServiceError(w, "list contracts", err)
		return
	}
	writeJSON(w, http.StatusOK, contracts)
}

// HandleUpdateContractStatus handles PUT /api/contracts/{contractID}/status requests.
func (cr *ContractRouter) HandleUpdateContractStatus(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}

	var updateReq struct {
		Status model.ContractStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	contract, err := cr.cs.UpdateContractStatus(r.Context(), contractID, updateReq.Status)
	if err != nil {
		writeServiceError(w, "update contract status", err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

// HandleDeactivateContract handles DELETE /api/contracts/{contractID} requests.
func (cr *ContractRouter) HandleDeactivateContract(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}

	if err := cr.cs.DeactivateContract(r.Context(), contractID); err != nil {
		writeServiceError(w, "deactivate contract", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
