package handlers

import (
    "crypto/hmac"
    "crypto/sha256"
    "encoding/hex"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
    mac := hmac.New(sha256.New, []byte(secret))
    mac.Write(body)
    return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
    body := []byte(`{"api_trxid":"ref-1","status":"success"}`)
    secret := "callback-secret"

    assert.True(t, VerifySignature(body, sign(body, secret), secret))
    assert.True(t, VerifySignature(body, strings.ToUpper(sign(body, secret)), secret),
        "header casing must not matter")

    assert.False(t, VerifySignature(body, sign(body, "other-secret"), secret))
    assert.False(t, VerifySignature([]byte(`{"tampered":true}`), sign(body, secret), secret))
    assert.False(t, VerifySignature(body, "", secret))
    assert.False(t, VerifySignature(body, sign(body, secret), ""),
        "unset secret rejects everything")
}

func TestHandleCallbackRejectsBadSignature(t *testing.T) {
    h := NewCallbackHandler(nil, "callback-secret", nil)

    body := `{"api_trxid":"ref-1","status":"success"}`
    req := httptest.NewRequest(http.MethodPost, "/api/tripay/callback", strings.NewReader(body))
    req.Header.Set(SignatureHeader, "deadbeef")

    rec := httptest.NewRecorder()
    h.HandleCallback(rec, req)

    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "Invalid webhook signature")
}

func TestHandleCallbackRejectsMissingSignature(t *testing.T) {
    h := NewCallbackHandler(nil, "callback-secret", nil)

    req := httptest.NewRequest(http.MethodPost, "/api/tripay/callback", strings.NewReader(`{}`))
    rec := httptest.NewRecorder()
    h.HandleCallback(rec, req)

    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCallbackRejectsMalformedJSON(t *testing.T) {
    h := NewCallbackHandler(nil, "callback-secret", nil)

    body := []byte(`{not json`)
    req := httptest.NewRequest(http.MethodPost, "/api/tripay/callback", strings.NewReader(string(body)))
    req.Header.Set(SignatureHeader, sign(body, "callback-secret"))

    rec := httptest.NewRecorder()
    h.HandleCallback(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, rec.Body.String(), "Malformed JSON payload")
}

func TestFirstString(t *testing.T) {
    payload := map[string]interface{}{"api_trx_id": "ref-2", "status": nil}
    assert.Equal(t, "ref-2", firstString(payload, "api_trxid", "api_trx_id"))
    assert.Equal(t, "", firstString(payload, "status"))
    assert.Equal(t, "", firstString(payload, "missing"))
}
