package tripay

import (
    "context"
    "time"

    "tripay-ppob-api/models"
)

const endpointCheckBalance = "/ceksaldo"

// BalanceService reads the partner account balance.
type BalanceService struct {
    client *Client
}

func NewBalanceService(client *Client) *BalanceService {
    return &BalanceService{client: client}
}

func (s *BalanceService) GetBalance(ctx context.Context) (models.BalanceResponse, error) {
    payload, err := s.client.Get(ctx, endpointCheckBalance, nil)
    if err != nil {
        return models.BalanceResponse{}, err
    }
    return models.DecodeBalanceResponse(payload), nil
}

// GetCachedBalance reads the balance through the cache with a short TTL.
func (s *BalanceService) GetCachedBalance(ctx context.Context, ttl time.Duration) (models.BalanceResponse, error) {
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    payload, err := s.client.GetCached(ctx, "balance", endpointCheckBalance, nil, ttl)
    if err != nil {
        return models.BalanceResponse{}, err
    }
    return models.DecodeBalanceResponse(payload), nil
}

// GetAmount returns the balance as a number, parsing it out of the
// response message when the structured saldo field is absent.
func (s *BalanceService) GetAmount(ctx context.Context) (float64, error) {
    resp, err := s.GetBalance(ctx)
    if err != nil {
        return 0, err
    }
    return resp.Amount(), nil
}

// IsSufficient reports whether the balance covers the given amount.
func (s *BalanceService) IsSufficient(ctx context.Context, amount float64) (bool, error) {
    balance, err := s.GetAmount(ctx)
    if err != nil {
        return false, err
    }
    return balance >= amount, nil
}
