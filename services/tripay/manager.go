package tripay

import (
    "context"

    "tripay-ppob-api/models"
)

// Manager is the single entry point over all Tripay services. It is
// constructed once at startup and safe for concurrent use.
type Manager struct {
    client      *Client
    server      *ServerService
    balance     *BalanceService
    prepaid     *PrepaidService
    postpaid    *PostpaidService
    transaction *TransactionService
}

func NewManager(client *Client) *Manager {
    return &Manager{
        client:      client,
        server:      NewServerService(client),
        balance:     NewBalanceService(client),
        prepaid:     NewPrepaidService(client),
        postpaid:    NewPostpaidService(client),
        transaction: NewTransactionService(client),
    }
}

func (m *Manager) Client() *Client                  { return m.client }
func (m *Manager) Server() *ServerService           { return m.server }
func (m *Manager) Balance() *BalanceService         { return m.balance }
func (m *Manager) Prepaid() *PrepaidService         { return m.prepaid }
func (m *Manager) Postpaid() *PostpaidService       { return m.postpaid }
func (m *Manager) Transaction() *TransactionService { return m.transaction }

// TestConnection converts any error into a false result.
func (m *Manager) TestConnection(ctx context.Context) bool {
    return m.server.TestConnection(ctx)
}

// GetBalance returns the current balance as a number.
func (m *Manager) GetBalance(ctx context.Context) (float64, error) {
    return m.balance.GetAmount(ctx)
}

func (m *Manager) PurchasePrepaid(ctx context.Context, productID, phone, apiTrxID, pin string) (models.TransactionResponse, error) {
    return m.prepaid.Purchase(ctx, productID, phone, apiTrxID, pin)
}

func (m *Manager) CheckBill(ctx context.Context, productID, phone, customerNumber, pin, apiTrxID string) (models.BillCheckResponse, error) {
    return m.postpaid.CheckBillByParams(ctx, productID, phone, customerNumber, pin, apiTrxID)
}

func (m *Manager) PayBill(ctx context.Context, trxID int64, apiTrxID, pin string) (models.TransactionResponse, error) {
    return m.postpaid.PayBillByParams(ctx, trxID, apiTrxID, pin)
}
