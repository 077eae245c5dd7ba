package handlers

import (
    "context"
    "crypto/hmac"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/spf13/cast"
    "go.uber.org/zap"

    "tripay-ppob-api/database"
    "tripay-ppob-api/models"
    "tripay-ppob-api/utils"
)

// SignatureHeader carries the HMAC the upstream computes over the raw
// callback body with the shared callback secret.
const SignatureHeader = "X-Callback-Signature"

// CallbackHandler receives asynchronous transaction status updates.
type CallbackHandler struct {
    db     *database.Connection
    secret string
    logger *zap.Logger
}

func NewCallbackHandler(db *database.Connection, secret string, logger *zap.Logger) *CallbackHandler {
    if logger == nil {
        logger = zap.NewNop()
    }
    return &CallbackHandler{db: db, secret: secret, logger: logger}
}

// HandleCallback verifies the signature, stores the raw event, answers
// 200 immediately and applies the status change in the background.
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
    body, err := io.ReadAll(r.Body)
    if err != nil {
        h.logger.Warn("error reading callback body", zap.Error(err))
        utils.SendErrorResponse(w, http.StatusBadRequest, "Unable to read request body")
        return
    }

    signature := r.Header.Get(SignatureHeader)
    if !VerifySignature(body, signature, h.secret) {
        h.logger.Warn("invalid callback signature", zap.String("remote_addr", r.RemoteAddr))
        utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid webhook signature")
        return
    }

    var payload map[string]interface{}
    if err := json.Unmarshal(body, &payload); err != nil {
        h.logger.Warn("malformed callback payload", zap.Error(err))
        utils.SendErrorResponse(w, http.StatusBadRequest, "Malformed JSON payload")
        return
    }

    apiTrxID := firstString(payload, "api_trxid", "api_trx_id")

    ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
    defer cancel()

    eventID, err := h.db.SaveWebhookEvent(ctx, apiTrxID, body)
    if err != nil {
        h.logger.Error("failed to store webhook event", zap.Error(err))
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Unable to store webhook event")
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Webhook received successfully",
    })

    go h.processCallback(eventID, apiTrxID, payload)
}

func (h *CallbackHandler) processCallback(eventID int64, apiTrxID string, payload map[string]interface{}) {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    if apiTrxID == "" {
        h.logger.Warn("callback without api_trxid, nothing to update", zap.Int64("event_id", eventID))
        return
    }

    status := strings.ToLower(firstString(payload, "status"))
    message := firstString(payload, "message", "note")
    serialNumber := firstString(payload, "sn", "serial_number")

    matched, err := h.db.UpdateTransactionStatus(ctx, apiTrxID, status, message, serialNumber, payload)
    if err != nil {
        h.logger.Error("failed to apply callback status",
            zap.String("api_trxid", apiTrxID),
            zap.Error(err),
        )
        return
    }
    if !matched {
        // Webhook arrived before the purchase was persisted locally.
        // Create the row from the callback so the status is not lost.
        row := database.TransactionRow{
            TripayTrxID:  cast.ToInt64(firstString(payload, "trxid", "trx_id")),
            APITrxID:     apiTrxID,
            ProductID:    firstString(payload, "product_id", "product"),
            Amount:       cast.ToFloat64(payload["price"]),
            Status:       status,
            Message:      message,
            SerialNumber: serialNumber,
        }
        if err := h.db.SaveTransaction(ctx, row); err != nil {
            h.logger.Error("failed to create transaction from callback",
                zap.String("api_trxid", apiTrxID),
                zap.Error(err),
            )
            return
        }
    }

    if err := h.db.MarkWebhookProcessed(ctx, eventID); err != nil {
        h.logger.Warn("failed to mark webhook processed", zap.Int64("event_id", eventID), zap.Error(err))
    }

    h.logger.Info("callback applied",
        zap.String("api_trxid", apiTrxID),
        zap.String("status", status),
    )
}

// VerifySignature checks the hex HMAC-SHA256 of body against the
// header value in constant time.
func VerifySignature(body []byte, signature, secret string) bool {
    if secret == "" || signature == "" {
        return false
    }
    mac := hmac.New(sha256.New, []byte(secret))
    mac.Write(body)
    expected := hex.EncodeToString(mac.Sum(nil))
    return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func firstString(payload map[string]interface{}, keys ...string) string {
    for _, key := range keys {
        if v, ok := payload[key]; ok && v != nil {
            return cast.ToString(v)
        }
    }
    return ""
}
