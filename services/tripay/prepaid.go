package tripay

import (
    "context"
    "strings"

    "tripay-ppob-api/models"
)

const (
    endpointPrepaidCategories    = "/pembelian/category"
    endpointPrepaidOperators     = "/pembelian/operator"
    endpointPrepaidProducts      = "/pembelian/produk"
    endpointPrepaidProductDetail = "/pembelian/produk/cek"
    endpointPrepaidPurchase      = "/transaksi/pembelian"
)

// PrepaidService covers the prepaid catalog and the one-step purchase
// flow. Catalog reads go through the cache; purchases never do.
type PrepaidService struct {
    client *Client
}

func NewPrepaidService(client *Client) *PrepaidService {
    return &PrepaidService{client: client}
}

func (s *PrepaidService) GetCategories(ctx context.Context) (models.CategoryResponse, error) {
    payload, err := s.client.GetCached(ctx, "prepaid_categories", endpointPrepaidCategories, nil, 0)
    if err != nil {
        return models.CategoryResponse{}, err
    }
    return models.DecodeCategoryResponse(payload), nil
}

func (s *PrepaidService) GetOperators(ctx context.Context) (models.OperatorResponse, error) {
    payload, err := s.client.GetCached(ctx, "prepaid_operators", endpointPrepaidOperators, nil, 0)
    if err != nil {
        return models.OperatorResponse{}, err
    }
    return models.DecodeOperatorResponse(payload), nil
}

func (s *PrepaidService) GetProducts(ctx context.Context, category, operator string) (models.ProductResponse, error) {
    params := catalogParams(category, operator)
    cacheKey := paramsCacheKey("prepaid_products", params)
    payload, err := s.client.GetCached(ctx, cacheKey, endpointPrepaidProducts, params, 0)
    if err != nil {
        return models.ProductResponse{}, err
    }
    return models.DecodeProductResponse(payload), nil
}

func (s *PrepaidService) GetProductsByCategory(ctx context.Context, category string) (models.ProductResponse, error) {
    return s.GetProducts(ctx, category, "")
}

func (s *PrepaidService) GetProductsByOperator(ctx context.Context, operator string) (models.ProductResponse, error) {
    return s.GetProducts(ctx, "", operator)
}

// SearchProducts filters the full product list client side; the
// upstream API has no search endpoint. Matching is a case-insensitive
// substring test on the product name, relative order preserved.
func (s *PrepaidService) SearchProducts(ctx context.Context, search string) (models.ProductResponse, error) {
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

func (s *PrepaidService) GetProductDetail(ctx context.Context, productID string) (models.ProductDetailResponse, error) {
    params := map[string]interface{}{"product": productID}
    cacheKey := "prepaid_product_detail_" + productID
    payload, err := s.client.GetCached(ctx, cacheKey, endpointPrepaidProductDetail, params, 0)
    if err != nil {
        return models.ProductDetailResponse{}, err
    }
    return models.DecodeProductDetailResponse(payload), nil
}

// Purchase submits a prepaid purchase for the given product and target
// phone number.
func (s *PrepaidService) Purchase(ctx context.Context, productID, phone, apiTrxID, pin string) (models.TransactionResponse, error) {
    req, err := models.NewPrepaidPurchaseRequest(productID, phone, apiTrxID, pin)
    if err != nil {
        return models.TransactionResponse{}, err
    }
    return s.CreateTransaction(ctx, req)
}

func (s *PrepaidService) CreateTransaction(ctx context.Context, req models.PrepaidPurchaseRequest) (models.TransactionResponse, error) {
    payload, err := s.client.Post(ctx, endpointPrepaidPurchase, req.ToPayload())
    if err != nil {
        return models.TransactionResponse{}, err
    }
    return models.DecodeTransactionResponse(payload), nil
}
