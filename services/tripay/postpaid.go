package tripay

import (
    "context"
    "strings"

    "tripay-ppob-api/models"
)

const (
    endpointPostpaidCategories    = "/pembayaran/category"
    endpointPostpaidOperators     = "/pembayaran/operator"
    endpointPostpaidProducts      = "/pembayaran/produk"
    endpointPostpaidProductDetail = "/pembayaran/produk/cek"
    endpointPostpaidCheckBill     = "/pembayaran/cek-tagihan"
    endpointPostpaidPayBill       = "/transaksi/pembayaran"
)

// PostpaidService covers the postpaid catalog and the two-step
// check-then-pay bill flow.
type PostpaidService struct {
    client *Client
}

func NewPostpaidService(client *Client) *PostpaidService {
    return &PostpaidService{client: client}
}

func (s *PostpaidService) GetCategories(ctx context.Context) (models.CategoryResponse, error) {
    payload, err := s.client.GetCached(ctx, "postpaid_categories", endpointPostpaidCategories, nil, 0)
    if err != nil {
        return models.CategoryResponse{}, err
    }
    return models.DecodeCategoryResponse(payload), nil
}

func (s *PostpaidService) GetOperators(ctx context.Context) (models.OperatorResponse, error) {
    payload, err := s.client.GetCached(ctx, "postpaid_operators", endpointPostpaidOperators, nil, 0)
    if err != nil {
        return models.OperatorResponse{}, err
    }
    return models.DecodeOperatorResponse(payload), nil
}

func (s *PostpaidService) GetProducts(ctx context.Context, category, operator string) (models.ProductResponse, error) {
    params := catalogParams(category, operator)
    cacheKey := paramsCacheKey("postpaid_products", params)
    payload, err := s.client.GetCached(ctx, cacheKey, endpointPostpaidProducts, params, 0)
    if err != nil {
        return models.ProductResponse{}, err
    }
    return models.DecodeProductResponse(payload), nil
}

func (s *PostpaidService) GetProductsByCategory(ctx context.Context, category string) (models.ProductResponse, error) {
    return s.GetProducts(ctx, category, "")
}

func (s *PostpaidService) GetProductsByOperator(ctx context.Context, operator string) (models.ProductResponse, error) {
    return s.GetProducts(ctx, "", operator)
}

func (s *PostpaidService) SearchProducts(ctx context.Context, search string) (models.ProductResponse, error) {
    all, err := s.GetProducts(ctx, "", "")
    if err != nil {
        return models.ProductResponse{}, err
    }

    filtered := make([]models.ProductData, 0, len(all.Data))
    needle := strings.ToLower(search)
    for _, product := range all.Data {
        if strings.Contains(strings.ToLower(product.Name), needle) {
            filtered = append(filtered, product)
        }
    }

    all.Data = filtered
    return all, nil
}

func (s *PostpaidService) GetProductDetail(ctx context.Context, productID string) (models.ProductDetailResponse, error) {
    params := map[string]interface{}{"product": productID}
    cacheKey := "postpaid_product_detail_" + productID
    payload, err := s.client.GetCached(ctx, cacheKey, endpointPostpaidProductDetail, params, 0)
    if err != nil {
        return models.ProductDetailResponse{}, err
    }
    return models.DecodeProductDetailResponse(payload), nil
}

// CheckBill runs the bill inquiry. The result carries the trxid needed
// for the subsequent PayBill call.
func (s *PostpaidService) CheckBill(ctx context.Context, req models.BillCheckRequest) (models.BillCheckResponse, error) {
    payload, err := s.client.Post(ctx, endpointPostpaidCheckBill, req.ToPayload())
    if err != nil {
        return models.BillCheckResponse{}, err
    }
    return models.DecodeBillCheckResponse(payload), nil
}

func (s *PostpaidService) CheckBillByParams(ctx context.Context, productID, phone, customerNumber, pin, apiTrxID string) (models.BillCheckResponse, error) {
    req, err := models.NewBillCheckRequest(productID, phone, customerNumber, pin, apiTrxID)
    if err != nil {
        return models.BillCheckResponse{}, err
    }
    return s.CheckBill(ctx, req)
}

func (s *PostpaidService) PayBill(ctx context.Context, req models.BillPaymentRequest) (models.TransactionResponse, error) {
    payload, err := s.client.Post(ctx, endpointPostpaidPayBill, req.ToPayload())
    if err != nil {
        return models.TransactionResponse{}, err
    }
    return models.DecodeTransactionResponse(payload), nil
}

func (s *PostpaidService) PayBillByParams(ctx context.Context, trxID int64, apiTrxID, pin string) (models.TransactionResponse, error) {
    req, err := models.NewBillPaymentRequest(trxID, apiTrxID, pin)
    if err != nil {
        return models.TransactionResponse{}, err
    }
    return s.PayBill(ctx, req)
}

// CheckAndPayResult is the outcome of the combined check-then-pay flow.
// Payment is nil when only the inquiry ran.
type CheckAndPayResult struct {
    Check   models.BillCheckResponse
    Payment *models.TransactionResponse
}

// CheckAndPayBill runs the inquiry and, when autoPay is set and the
// inquiry succeeded with a transaction id, immediately pays the bill.
// With autoPay false the pay-bill endpoint is never called.
func (s *PostpaidService) CheckAndPayBill(ctx context.Context, productID, phone, customerNumber, apiTrxID, pin string, autoPay bool) (CheckAndPayResult, error) {
    check, err := s.CheckBillByParams(ctx, productID, phone, customerNumber, pin, apiTrxID)
    if err != nil {
        return CheckAndPayResult{}, err
    }

    result := CheckAndPayResult{Check: check}
    if !autoPay || !check.Success || check.TrxID == 0 {
        return result, nil
    }

    payment, err := s.PayBillByParams(ctx, check.TrxID, apiTrxID, pin)
    if err != nil {
        return result, err
    }
    result.Payment = &payment
    return result, nil
}
