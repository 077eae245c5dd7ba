package models

import (
    "fmt"

    "github.com/google/uuid"
)

// PrepaidPurchaseRequest is the payload for a prepaid purchase.
type PrepaidPurchaseRequest struct {
    Product  string
    Phone    string
    APITrxID string
    Pin      string
}

func NewPrepaidPurchaseRequest(product, phone, apiTrxID, pin string) (PrepaidPurchaseRequest, error) {
    req := PrepaidPurchaseRequest{Product: product, Phone: phone, APITrxID: apiTrxID, Pin: pin}
    if err := requireFields(map[string]string{
        "product":   product,
        "phone":     phone,
        "api_trxid": apiTrxID,
        "pin":       pin,
    }); err != nil {
        return PrepaidPurchaseRequest{}, err
    }
    return req, nil
}

func (r PrepaidPurchaseRequest) ToPayload() map[string]interface{} {
    return map[string]interface{}{
        "product":   r.Product,
        "phone":     r.Phone,
        "api_trxid": r.APITrxID,
        "pin":       r.Pin,
    }
}

// BillCheckRequest is the payload for a postpaid bill inquiry.
// APITrxID is optional and omitted from the payload when empty.
type BillCheckRequest struct {
    Product        string
    Phone          string
    CustomerNumber string
    Pin            string
    APITrxID       string
}

func NewBillCheckRequest(product, phone, customerNumber, pin, apiTrxID string) (BillCheckRequest, error) {
    req := BillCheckRequest{Product: product, Phone: phone, CustomerNumber: customerNumber, Pin: pin, APITrxID: apiTrxID}
    if err := requireFields(map[string]string{
        "product":      product,
        "phone":        phone,
        "no_pelanggan": customerNumber,
        "pin":          pin,
    }); err != nil {
        return BillCheckRequest{}, err
    }
    return req, nil
}

func (r BillCheckRequest) ToPayload() map[string]interface{} {
    payload := map[string]interface{}{
        "product":      r.Product,
        "phone":        r.Phone,
        "no_pelanggan": r.CustomerNumber,
        "pin":          r.Pin,
    }
    if r.APITrxID != "" {
        payload["api_trxid"] = r.APITrxID
    }
    return payload
}

// BillPaymentRequest pays a previously checked bill by its Tripay trxid.
type BillPaymentRequest struct {
    TrxID    int64
    APITrxID string
    Pin      string
}

func NewBillPaymentRequest(trxID int64, apiTrxID, pin string) (BillPaymentRequest, error) {
    if trxID <= 0 {
        return BillPaymentRequest{}, fmt.Errorf("trxid is required")
    }
    if err := requireFields(map[string]string{
        "api_trxid": apiTrxID,
        "pin":       pin,
    }); err != nil {
        return BillPaymentRequest{}, err
    }
    return BillPaymentRequest{TrxID: trxID, APITrxID: apiTrxID, Pin: pin}, nil
}

func (r BillPaymentRequest) ToPayload() map[string]interface{} {
    return map[string]interface{}{
        "trxid":     r.TrxID,
        "api_trxid": r.APITrxID,
        "pin":       r.Pin,
    }
}

// NewAPITrxID generates a partner-side transaction reference.
func NewAPITrxID() string {
    return uuid.NewString()
}

func requireFields(fields map[string]string) error {
    for name, value := range fields {
        if value == "" {
            return fmt.Errorf("%s is required", name)
        }
    }
    return nil
}
