package models

import (
    "regexp"
    "strings"

    "github.com/spf13/cast"
)

// Tripay payloads are not consistent about key names across endpoints:
// the same logical field can arrive as id, product_id or category_id
// depending on which listing produced it. Every decoder below applies a
// fixed alias priority per field and falls back to a zero value -
// decoding never fails on a missing optional field.

// ServerResponse is the /cekserver envelope.
type ServerResponse struct {
    Success bool
    Message string
}

func DecodeServerResponse(payload map[string]interface{}) ServerResponse {
    return ServerResponse{
        Success: cast.ToBool(payload["success"]),
        Message: cast.ToString(payload["message"]),
    }
}

// BalanceResponse is the /ceksaldo envelope. Saldo is nil when the
// upstream only reported the balance inside the free-text message.
type BalanceResponse struct {
    Success  bool
    Message  string
    Saldo    *float64
    Currency string
}

var balanceInMessage = regexp.MustCompile(`Rp\.?\s*([\d.,]+)`)

// Amount returns the structured saldo field when present, otherwise
// parses an "Rp. 398.806" style amount out of the message. Dots are
// thousand separators, a comma is the decimal separator.
func (r BalanceResponse) Amount() float64 {
    if r.Saldo != nil {
        return *r.Saldo
    }
    m := balanceInMessage.FindStringSubmatch(r.Message)
    if m == nil {
        return 0.0
    }
    amount := strings.ReplaceAll(m[1], ".", "")
    amount = strings.ReplaceAll(amount, ",", ".")
    return cast.ToFloat64(amount)
}

func DecodeBalanceResponse(payload map[string]interface{}) BalanceResponse {
    resp := BalanceResponse{
        Success:  cast.ToBool(payload["success"]),
        Message:  cast.ToString(payload["message"]),
        Currency: cast.ToString(payload["currency"]),
    }
    if v, ok := payload["saldo"]; ok && v != nil {
        saldo := cast.ToFloat64(v)
        resp.Saldo = &saldo
    }
    return resp
}

// CategoryData is one prepaid/postpaid category.
// Alias priority: id = category_id > product_id > id,
// name = category_name > product_name > name.
type CategoryData struct {
    ID          string
    Name        string
    Type        string
    Description string
    Status      bool
}

func decodeCategoryData(item map[string]interface{}) CategoryData {
    return CategoryData{
        ID:          pickString(item, "category_id", "product_id", "id"),
        Name:        pickString(item, "category_name", "product_name", "name"),
        Type:        pickString(item, "type"),
        Description: pickString(item, "description", "desc"),
        Status:      cast.ToBool(pick(item, "status")),
    }
}

type CategoryResponse struct {
    Success bool
    Message string
    Data    []CategoryData
}

func DecodeCategoryResponse(payload map[string]interface{}) CategoryResponse {
    resp := CategoryResponse{
        Success: cast.ToBool(payload["success"]),
        Message: cast.ToString(payload["message"]),
        Data:    []CategoryData{},
    }
    for _, item := range listItems(payload) {
        resp.Data = append(resp.Data, decodeCategoryData(item))
    }
    return resp
}

// OperatorData is one operator row. The operator listing reuses product
// key names: code = product_id, name = product_name. The category link
// arrives as pembeliankategori_id.
type OperatorData struct {
    ID         int64
    Code       string
    Name       string
    CategoryID string
    Status     bool
}

func decodeOperatorData(item map[string]interface{}) OperatorData {
    return OperatorData{
        ID:         cast.ToInt64(pick(item, "id")),
        Code:       pickString(item, "product_id", "code"),
        Name:       pickString(item, "product_name", "name"),
        CategoryID: pickString(item, "pembeliankategori_id", "category_id"),
        Status:     cast.ToBool(pick(item, "status")),
    }
}

type OperatorResponse struct {
    Success bool
    Message string
    Data    []OperatorData
}

func DecodeOperatorResponse(payload map[string]interface{}) OperatorResponse {
    resp := OperatorResponse{
        Success: cast.ToBool(payload["success"]),
        Message: cast.ToString(payload["message"]),
        Data:    []OperatorData{},
    }
    for _, item := range listItems(payload) {
        resp.Data = append(resp.Data, decodeOperatorData(item))
    }
    return resp
}

// ProductData is one catalog product.
type ProductData struct {
    ID           string
    Name         string
    Code         string
    CategoryID   string
    OperatorID   string
    Price        float64
    SellingPrice float64
    Description  string
    Status       bool
    Type         string
}

func decodeProductData(item map[string]interface{}) ProductData {
    return ProductData{
        ID:           pickString(item, "id", "product_id"),
        Name:         pickString(item, "product_name", "name"),
        Code:         pickString(item, "code", "product_id"),
        CategoryID:   pickString(item, "pembeliankategori_id", "category_id"),
        OperatorID:   pickString(item, "pembelianoperator_id", "operator_id"),
        Price:        cast.ToFloat64(pick(item, "price")),
        SellingPrice: cast.ToFloat64(pick(item, "selling_price", "price")),
        Description:  pickString(item, "desc", "description"),
        Status:       cast.ToBool(pick(item, "status")),
        Type:         pickString(item, "type"),
    }
}

type ProductResponse struct {
    Success bool
    Message string
    Data    []ProductData
}

func DecodeProductResponse(payload map[string]interface{}) ProductResponse {
    resp := ProductResponse{
        Success: cast.ToBool(payload["success"]),
        Message: cast.ToString(payload["message"]),
        Data:    []ProductData{},
    }
    for _, item := range listItems(payload) {
        resp.Data = append(resp.Data, decodeProductData(item))
    }
    return resp
}

// ProductDetailData extends ProductData with cut-off and extra info
// only present on the product-check endpoint.
type ProductDetailData struct {
    ProductData
    AdditionalInfo map[string]interface{}
    CutOffStart    string
    CutOffEnd      string
}

func decodeProductDetailData(item map[string]interface{}) ProductDetailData {
    detail := ProductDetailData{
        ProductData: decodeProductData(item),
        CutOffStart: pickString(item, "cut_off_start"),
        CutOffEnd:   pickString(item, "cut_off_end"),
    }
    if info, ok := item["additional_info"].(map[string]interface{}); ok {
        detail.AdditionalInfo = info
    }
    return detail
}

type ProductDetailResponse struct {
    Success bool
    Message string
    Data    *ProductDetailData
}

func DecodeProductDetailResponse(payload map[string]interface{}) ProductDetailResponse {
    resp := ProductDetailResponse{
        Success: cast.ToBool(payload["success"]),
        Message: cast.ToString(payload["message"]),
    }
    if item, ok := payload["data"].(map[string]interface{}); ok {
        detail := decodeProductDetailData(item)
        resp.Data = &detail
    }
    return resp
}

// TransactionResponse is the envelope returned by purchase and pay-bill
// calls. TrxID is 0 when the upstream did not assign one.
type TransactionResponse struct {
    Success  bool
    Message  string
    TrxID    int64
    APITrxID string
}

func DecodeTransactionResponse(payload map[string]interface{}) TransactionResponse {
    return TransactionResponse{
        Success:  cast.ToBool(payload["success"]),
        Message:  cast.ToString(payload["message"]),
        TrxID:    cast.ToInt64(pick(payload, "trxid", "trx_id")),
        APITrxID: pickString(payload, "api_trxid", "api_trx_id"),
    }
}

// BillCheckData carries the inquiry result for a postpaid bill.
type BillCheckData struct {
    ProductID      string
    ProductName    string
    CustomerName   string
    CustomerPhone  string
    CustomerNo     string
    Amount         float64
    AdminFee       float64
    TotalAmount    float64
    Period         string
    DueDate        string
    AdditionalInfo map[string]interface{}
}

func decodeBillCheckData(item map[string]interface{}) BillCheckData {
    data := BillCheckData{
        ProductID:     pickString(item, "product_id", "id"),
        ProductName:   pickString(item, "product_name", "name"),
        CustomerName:  pickString(item, "customer_name"),
        CustomerPhone: pickString(item, "customer_phone", "phone"),
        CustomerNo:    pickString(item, "customer_no", "no_pelanggan"),
        Amount:        cast.ToFloat64(pick(item, "amount")),
        AdminFee:      cast.ToFloat64(pick(item, "admin_fee")),
        TotalAmount:   cast.ToFloat64(pick(item, "total_amount", "amount")),
        Period:        pickString(item, "period"),
        DueDate:       pickString(item, "due_date"),
    }
    if info, ok := item["additional_info"].(map[string]interface{}); ok {
        data.AdditionalInfo = info
    }
    return data
}

type BillCheckResponse struct {
    Success     bool
    Message     string
    ProductName string
    Via         string
    TrxID       int64
    APITrxID    string
    Data        *BillCheckData
}

func DecodeBillCheckResponse(payload map[string]interface{}) BillCheckResponse {
    resp := BillCheckResponse{
        Success:     cast.ToBool(payload["success"]),
        Message:     cast.ToString(payload["message"]),
        ProductName: pickString(payload, "product_name"),
        Via:         pickString(payload, "via"),
        TrxID:       cast.ToInt64(pick(payload, "trxid", "trx_id")),
        APITrxID:    pickString(payload, "api_trxid", "api_trx_id"),
    }
    if item, ok := payload["data"].(map[string]interface{}); ok {
        data := decodeBillCheckData(item)
        resp.Data = &data
    }
    return resp
}

// TransactionHistoryData is one row of the transaction history.
type TransactionHistoryData struct {
    TrxID        int64
    APITrxID     string
    ProductID    string
    ProductName  string
    Target       string
    Price        float64
    SellingPrice float64
    Status       string
    CreatedAt    string
    UpdatedAt    string
    SerialNumber string
    Note         string
}

func decodeTransactionHistoryData(item map[string]interface{}) TransactionHistoryData {
    return TransactionHistoryData{
        TrxID:        cast.ToInt64(pick(item, "trxid", "trx_id", "id")),
        APITrxID:     pickString(item, "api_trxid", "api_trx_id"),
        ProductID:    pickString(item, "product_id"),
        ProductName:  pickString(item, "product_name"),
        Target:       pickString(item, "target", "phone"),
        Price:        cast.ToFloat64(pick(item, "price")),
        SellingPrice: cast.ToFloat64(pick(item, "selling_price", "price")),
        Status:       pickString(item, "status"),
        CreatedAt:    pickString(item, "created_at"),
        UpdatedAt:    pickString(item, "updated_at"),
        SerialNumber: pickString(item, "sn", "serial_number"),
        Note:         pickString(item, "note"),
    }
}

type TransactionHistoryResponse struct {
    Success bool
    Message string
    Data    []TransactionHistoryData
}

func DecodeTransactionHistoryResponse(payload map[string]interface{}) TransactionHistoryResponse {
    resp := TransactionHistoryResponse{
        Success: cast.ToBool(payload["success"]),
        Message: cast.ToString(payload["message"]),
        Data:    []TransactionHistoryData{},
    }
    for _, item := range listItems(payload) {
        resp.Data = append(resp.Data, decodeTransactionHistoryData(item))
    }
    return resp
}

type TransactionDetailResponse struct {
    Success bool
    Message string
    Data    *TransactionHistoryData
}

func DecodeTransactionDetailResponse(payload map[string]interface{}) TransactionDetailResponse {
    resp := TransactionDetailResponse{
        Success: cast.ToBool(payload["success"]),
        Message: cast.ToString(payload["message"]),
    }
    if item, ok := payload["data"].(map[string]interface{}); ok {
        data := decodeTransactionHistoryData(item)
        resp.Data = &data
    }
    return resp
}

// listItems returns the object entries of the envelope's data array.
func listItems(payload map[string]interface{}) []map[string]interface{} {
    raw, ok := payload["data"].([]interface{})
    if !ok {
        return nil
    }
    items := make([]map[string]interface{}, 0, len(raw))
    for _, entry := range raw {
        if item, ok := entry.(map[string]interface{}); ok {
            items = append(items, item)
        }
    }
    return items
}

// pick returns the first present non-nil value among the alias keys.
func pick(item map[string]interface{}, keys ...string) interface{} {
    for _, key := range keys {
        if v, ok := item[key]; ok && v != nil {
            return v
        }
    }
    return nil
}

func pickString(item map[string]interface{}, keys ...string) string {
    return cast.ToString(pick(item, keys...))
}
