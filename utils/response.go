package utils

import (
    "encoding/json"
    "net/http"

    "tripay-ppob-api/models"
    "tripay-ppob-api/services/tripay"
)

func SendErrorResponse(w http.ResponseWriter, status int, message string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(models.APIResponse{
        Status:  "error",
        Message: message,
    })
}

func SendSuccessResponse(w http.ResponseWriter, response models.APIResponse) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(response)
}

// SendTripayError maps an upstream error kind onto the HTTP status of
// the local response. Anything unclassified surfaces as 502 since the
// failure happened on the upstream exchange.
func SendTripayError(w http.ResponseWriter, err error) {
    status := http.StatusBadGateway
    if te := tripay.AsError(err); te != nil {
        switch te.Kind {
        case tripay.KindAuthFailure:
            status = http.StatusUnauthorized
        case tripay.KindValidation:
            status = http.StatusUnprocessableEntity
        case tripay.KindRateLimited:
            status = http.StatusTooManyRequests
        }
    }
    SendErrorResponse(w, status, err.Error())
}
