package database

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"
    "time"
)

// TransactionRow is one locally persisted Tripay transaction keyed by
// the partner-side api_trx_id.
type TransactionRow struct {
    ID             int64      `json:"id"`
    TripayTrxID    int64      `json:"tripay_trx_id"`
    APITrxID       string     `json:"api_trx_id"`
    ProductID      string     `json:"product_id"`
    CustomerNumber string     `json:"customer_number"`
    Amount         float64    `json:"amount"`
    Status         string     `json:"status"`
    Type           string     `json:"type"`
    Message        string     `json:"message"`
    SerialNumber   string     `json:"sn"`
    CreatedAt      time.Time  `json:"created_at"`
    CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// SaveTransaction records a freshly submitted purchase or bill payment.
func (c *Connection) SaveTransaction(ctx context.Context, row TransactionRow) error {
    _, err := c.db.ExecContext(ctx, `
        INSERT INTO tripay_transactions
            (tripay_trx_id, api_trx_id, product_id, customer_number, amount, status, type, message, sn, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
        ON DUPLICATE KEY UPDATE
            tripay_trx_id = VALUES(tripay_trx_id),
            status = VALUES(status),
            message = VALUES(message),
            sn = VALUES(sn),
            updated_at = NOW()
    `, row.TripayTrxID, row.APITrxID, row.ProductID, row.CustomerNumber, row.Amount,
        row.Status, row.Type, row.Message, row.SerialNumber)
    if err != nil {
        return fmt.Errorf("error saving transaction %s: %v", row.APITrxID, err)
    }
    return nil
}

// UpdateTransactionStatus applies a webhook status change to the row
// matching api_trx_id. Returns false when no transaction matched.
func (c *Connection) UpdateTransactionStatus(ctx context.Context, apiTrxID, status, message, serialNumber string, webhookData map[string]interface{}) (bool, error) {
    raw, err := json.Marshal(webhookData)
    if err != nil {
        return false, fmt.Errorf("error encoding webhook data: %v", err)
    }

    res, err := c.db.ExecContext(ctx, `
        UPDATE tripay_transactions
        SET status = ?,
            message = ?,
            sn = IF(? != '', ?, sn),
            webhook_data = ?,
            completed_at = IF(? IN ('success', 'failed'), NOW(), completed_at),
            updated_at = NOW()
        WHERE api_trx_id = ?
    `, status, message, serialNumber, serialNumber, raw, status, apiTrxID)
    if err != nil {
        return false, fmt.Errorf("error updating transaction %s: %v", apiTrxID, err)
    }

    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

func (c *Connection) GetTransaction(ctx context.Context, apiTrxID string) (*TransactionRow, error) {
    var row TransactionRow
    var completedAt sql.NullTime

    err := c.db.QueryRowContext(ctx, `
        SELECT id, tripay_trx_id, api_trx_id, product_id, customer_number, amount, status, type, message, sn, created_at, completed_at
        FROM tripay_transactions
        WHERE api_trx_id = ?
    `, apiTrxID).Scan(&row.ID, &row.TripayTrxID, &row.APITrxID, &row.ProductID, &row.CustomerNumber,
        &row.Amount, &row.Status, &row.Type, &row.Message, &row.SerialNumber, &row.CreatedAt, &completedAt)
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, fmt.Errorf("error getting transaction %s: %v", apiTrxID, err)
    }

    if completedAt.Valid {
        row.CompletedAt = &completedAt.Time
    }
    return &row, nil
}

func (c *Connection) ListTransactions(ctx context.Context, limit int) ([]TransactionRow, error) {
    if limit <= 0 {
        limit = 50
    }

    rows, err := c.db.QueryContext(ctx, `
        SELECT id, tripay_trx_id, api_trx_id, product_id, customer_number, amount, status, type, message, sn, created_at, completed_at
        FROM tripay_transactions
        ORDER BY created_at DESC
        LIMIT ?
    `, limit)
    if err != nil {
        return nil, fmt.Errorf("error listing transactions: %v", err)
    }
    defer rows.Close()

    var out []TransactionRow
    for rows.Next() {
        var row TransactionRow
        var completedAt sql.NullTime
        if err := rows.Scan(&row.ID, &row.TripayTrxID, &row.APITrxID, &row.ProductID, &row.CustomerNumber,
            &row.Amount, &row.Status, &row.Type, &row.Message, &row.SerialNumber, &row.CreatedAt, &completedAt); err != nil {
            return nil, fmt.Errorf("error scanning transaction: %v", err)
        }
        if completedAt.Valid {
            row.CompletedAt = &completedAt.Time
        }
        out = append(out, row)
    }
    return out, rows.Err()
}

// SaveWebhookEvent stores the raw callback body for audit before the
// matching transaction is updated.
func (c *Connection) SaveWebhookEvent(ctx context.Context, apiTrxID string, payload []byte) (int64, error) {
    res, err := c.db.ExecContext(ctx, `
        INSERT INTO tripay_webhooks (api_trx_id, payload, received_at)
        VALUES (?, ?, NOW())
    `, apiTrxID, payload)
    if err != nil {
        return 0, fmt.Errorf("error saving webhook event: %v", err)
    }
    return res.LastInsertId()
}

// MarkWebhookProcessed flags a stored webhook event after its
// transaction update went through.
func (c *Connection) MarkWebhookProcessed(ctx context.Context, id int64) error {
    _, err := c.db.ExecContext(ctx, `
        UPDATE tripay_webhooks SET processed_at = NOW() WHERE id = ?
    `, id)
    if err != nil {
        return fmt.Errorf("error marking webhook %d processed: %v", id, err)
    }
    return nil
}
