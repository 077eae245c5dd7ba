package tripay

import (
    "context"
    "strings"
    "time"

    "tripay-ppob-api/models"
)

const (
    endpointHistoryAll    = "/histori/transaksi/all"
    endpointHistoryByDate = "/histori/transaksi/bydate"
    endpointHistoryDetail = "/histori/transaksi/detail"
)

// TransactionService reads transaction history and detail. History
// reads bypass the cache unless asked for explicitly.
type TransactionService struct {
    client *Client
}

func NewTransactionService(client *Client) *TransactionService {
    return &TransactionService{client: client}
}

func (s *TransactionService) GetHistory(ctx context.Context) (models.TransactionHistoryResponse, error) {
    payload, err := s.client.Get(ctx, endpointHistoryAll, nil)
    if err != nil {
        return models.TransactionHistoryResponse{}, err
    }
    return models.DecodeTransactionHistoryResponse(payload), nil
}

func (s *TransactionService) GetCachedHistory(ctx context.Context, ttl time.Duration) (models.TransactionHistoryResponse, error) {
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    payload, err := s.client.GetCached(ctx, "transaction_history", endpointHistoryAll, nil, ttl)
    if err != nil {
        return models.TransactionHistoryResponse{}, err
    }
    return models.DecodeTransactionHistoryResponse(payload), nil
}

// GetHistoryByDate filters history by an inclusive date range in
// YYYY-MM-DD format.
func (s *TransactionService) GetHistoryByDate(ctx context.Context, startDate, endDate string) (models.TransactionHistoryResponse, error) {
    params := map[string]interface{}{
        "start_date": startDate,
        "end_date":   endDate,
    }
    payload, err := s.client.Get(ctx, endpointHistoryByDate, params)
    if err != nil {
        return models.TransactionHistoryResponse{}, err
    }
    return models.DecodeTransactionHistoryResponse(payload), nil
}

func (s *TransactionService) GetTodayTransactions(ctx context.Context) (models.TransactionHistoryResponse, error) {
    today := time.Now().Format("2006-01-02")
    return s.GetHistoryByDate(ctx, today, today)
}

func (s *TransactionService) GetThisMonthTransactions(ctx context.Context) (models.TransactionHistoryResponse, error) {
    now := time.Now()
    first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
    last := first.AddDate(0, 1, -1)
    return s.GetHistoryByDate(ctx, first.Format("2006-01-02"), last.Format("2006-01-02"))
}

// GetDetail looks a transaction up by the partner-side api_trxid.
func (s *TransactionService) GetDetail(ctx context.Context, apiTrxID string) (models.TransactionDetailResponse, error) {
    payload, err := s.client.Post(ctx, endpointHistoryDetail, map[string]interface{}{"api_trxid": apiTrxID})
    if err != nil {
        return models.TransactionDetailResponse{}, err
    }
    return models.DecodeTransactionDetailResponse(payload), nil
}

// GetDetailByTrxID looks a transaction up by the Tripay-side trxid.
func (s *TransactionService) GetDetailByTrxID(ctx context.Context, trxID int64) (models.TransactionDetailResponse, error) {
    payload, err := s.client.Post(ctx, endpointHistoryDetail, map[string]interface{}{"trxid": trxID})
    if err != nil {
        return models.TransactionDetailResponse{}, err
    }
    return models.DecodeTransactionDetailResponse(payload), nil
}

func (s *TransactionService) GetPendingTransactions(ctx context.Context) (models.TransactionHistoryResponse, error) {
    return s.filterByStatus(ctx, "pending")
}

func (s *TransactionService) GetSuccessfulTransactions(ctx context.Context) (models.TransactionHistoryResponse, error) {
    return s.filterByStatus(ctx, "success")
}

func (s *TransactionService) GetFailedTransactions(ctx context.Context) (models.TransactionHistoryResponse, error) {
    return s.filterByStatus(ctx, "failed", "error", "gagal")
}

func (s *TransactionService) filterByStatus(ctx context.Context, statuses ...string) (models.TransactionHistoryResponse, error) {
    all, err := s.GetHistory(ctx)
    if err != nil {
        return models.TransactionHistoryResponse{}, err
    }

    filtered := make([]models.TransactionHistoryData, 0, len(all.Data))
    for _, trx := range all.Data {
        status := strings.ToLower(trx.Status)
        for _, want := range statuses {
            if status == want {
                filtered = append(filtered, trx)
                break
            }
        }
    }

    all.Data = filtered
    return all, nil
}

// SearchTransactions matches the product name or api_trxid with a
// case-insensitive substring test.
func (s *TransactionService) SearchTransactions(ctx context.Context, search string) (models.TransactionHistoryResponse, error) {
    all, err := s.GetHistory(ctx)
    if err != nil {
        return models.TransactionHistoryResponse{}, err
    }

    filtered := make([]models.TransactionHistoryData, 0, len(all.Data))
    needle := strings.ToLower(search)
    for _, trx := range all.Data {
        if strings.Contains(strings.ToLower(trx.ProductName), needle) ||
            strings.Contains(strings.ToLower(trx.APITrxID), needle) {
            filtered = append(filtered, trx)
        }
    }

    all.Data = filtered
    return all, nil
}
