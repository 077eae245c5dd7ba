package handlers

import (
    "net/http"
    "strconv"

    "github.com/gorilla/mux"

    "tripay-ppob-api/database"
    "tripay-ppob-api/models"
    "tripay-ppob-api/services/tripay"
    "tripay-ppob-api/utils"
)

// AdminHandler serves the read-only admin API over the locally synced
// catalog plus a live balance lookup through the Manager.
type AdminHandler struct {
    db      *database.Connection
    manager *tripay.Manager
}

func NewAdminHandler(db *database.Connection, manager *tripay.Manager) *AdminHandler {
    return &AdminHandler{db: db, manager: manager}
}

func (h *AdminHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
    rows, err := h.db.ListCategories(r.Context(), r.URL.Query().Get("type"))
    if err != nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, err.Error())
        return
    }
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Data: rows})
}

func (h *AdminHandler) GetOperators(w http.ResponseWriter, r *http.Request) {
    rows, err := h.db.ListOperators(r.Context(), r.URL.Query().Get("type"))
    if err != nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, err.Error())
        return
    }
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Data: rows})
}

func (h *AdminHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
    rows, err := h.db.ListProducts(r.Context(), r.URL.Query().Get("type"))
    if err != nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, err.Error())
        return
    }
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Data: rows})
}

// GetTransaction serves one transaction by its partner reference.
func (h *AdminHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
    apiTrxID := mux.Vars(r)["api_trx_id"]
    row, err := h.db.GetTransaction(r.Context(), apiTrxID)
    if err != nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, err.Error())
        return
    }
    if row == nil {
        utils.SendErrorResponse(w, http.StatusNotFound, "Transaction not found")
        return
    }
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Data: row})
}

func (h *AdminHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
    limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
    rows, err := h.db.ListTransactions(r.Context(), limit)
    if err != nil {
        utils.SendErrorResponse(w, http.StatusInternalServerError, err.Error())
        return
    }
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Data: rows})
}

// GetBalance reads the current balance live from the upstream API.
func (h *AdminHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
    amount, err := h.manager.GetBalance(r.Context())
    if err != nil {
        utils.SendTripayError(w, err)
        return
    }
    utils.SendSuccessResponse(w, models.APIResponse{
        Status: "success",
        Data:   map[string]float64{"balance": amount},
    })
}
