package utils

import (
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"

    "tripay-ppob-api/services/tripay"
)

func TestSendTripayErrorMapsKinds(t *testing.T) {
    cases := []struct {
        err  error
        want int
    }{
        {&tripay.Error{Kind: tripay.KindAuthFailure, Message: "Invalid API Key"}, http.StatusUnauthorized},
        {&tripay.Error{Kind: tripay.KindValidation, Message: "Validation failed"}, http.StatusUnprocessableEntity},
        {&tripay.Error{Kind: tripay.KindRateLimited, Message: "Rate limit exceeded"}, http.StatusTooManyRequests},
        {&tripay.Error{Kind: tripay.KindServerError, Message: "Server error occurred"}, http.StatusBadGateway},
        {&tripay.Error{Kind: tripay.KindNetwork, Message: "connection refused"}, http.StatusBadGateway},
        {errors.New("plain failure"), http.StatusBadGateway},
    }

    for _, tc := range cases {
        rec := httptest.NewRecorder()
        SendTripayError(rec, tc.err)
        assert.Equal(t, tc.want, rec.Code, tc.err.Error())
        assert.Contains(t, rec.Body.String(), `"status":"error"`)
    }
}

func TestSendErrorResponseEnvelope(t *testing.T) {
    rec := httptest.NewRecorder()
    SendErrorResponse(rec, http.StatusNotFound, "Transaction not found")

    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
    assert.Contains(t, rec.Body.String(), "Transaction not found")
}
