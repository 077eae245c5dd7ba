package database

import (
    "context"
    "database/sql"
    "fmt"

    "tripay-ppob-api/models"
)

// SyncOutcome reports what an upsert did to a row.
type SyncOutcome int

const (
    SyncSkipped SyncOutcome = iota
    SyncCreated
    SyncUpdated
)

// UpsertCategory inserts or refreshes one synced category. With force
// false, existing rows are left untouched.
func (c *Connection) UpsertCategory(ctx context.Context, catType string, cat models.CategoryData, force bool) (SyncOutcome, error) {
    if !force {
        res, err := c.db.ExecContext(ctx, `
            INSERT IGNORE INTO tripay_categories (category_id, name, type, status, synced_at)
            VALUES (?, ?, ?, ?, NOW())
        `, cat.ID, cat.Name, catType, cat.Status)
        if err != nil {
            return SyncSkipped, fmt.Errorf("error inserting category %s: %v", cat.ID, err)
        }
        return outcomeFromInsertIgnore(res)
    }

    res, err := c.db.ExecContext(ctx, `
        INSERT INTO tripay_categories (category_id, name, type, status, synced_at)
        VALUES (?, ?, ?, ?, NOW())
        ON DUPLICATE KEY UPDATE
            name = VALUES(name),
            type = VALUES(type),
            status = VALUES(status),
            synced_at = NOW()
    `, cat.ID, cat.Name, catType, cat.Status)
    if err != nil {
        return SyncSkipped, fmt.Errorf("error upserting category %s: %v", cat.ID, err)
    }
    return outcomeFromUpsert(res)
}

// UpsertOperator inserts or refreshes one synced operator.
func (c *Connection) UpsertOperator(ctx context.Context, opType string, op models.OperatorData, force bool) (SyncOutcome, error) {
    if !force {
        res, err := c.db.ExecContext(ctx, `
            INSERT IGNORE INTO tripay_operators (operator_id, code, name, category_id, type, status, synced_at)
            VALUES (?, ?, ?, ?, ?, ?, NOW())
        `, op.ID, op.Code, op.Name, op.CategoryID, opType, op.Status)
        if err != nil {
            return SyncSkipped, fmt.Errorf("error inserting operator %s: %v", op.Code, err)
        }
        return outcomeFromInsertIgnore(res)
    }

    res, err := c.db.ExecContext(ctx, `
        INSERT INTO tripay_operators (operator_id, code, name, category_id, type, status, synced_at)
        VALUES (?, ?, ?, ?, ?, ?, NOW())
        ON DUPLICATE KEY UPDATE
            code = VALUES(code),
            name = VALUES(name),
            category_id = VALUES(category_id),
            type = VALUES(type),
            status = VALUES(status),
            synced_at = NOW()
    `, op.ID, op.Code, op.Name, op.CategoryID, opType, op.Status)
    if err != nil {
        return SyncSkipped, fmt.Errorf("error upserting operator %s: %v", op.Code, err)
    }
    return outcomeFromUpsert(res)
}

// UpsertProduct inserts or refreshes one synced product.
func (c *Connection) UpsertProduct(ctx context.Context, productType string, p models.ProductData, force bool) (SyncOutcome, error) {
    if !force {
        res, err := c.db.ExecContext(ctx, `
            INSERT IGNORE INTO tripay_products
                (product_id, name, code, type, category_id, operator_id, price, selling_price, description, status, synced_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
        `, p.ID, p.Name, p.Code, productType, p.CategoryID, p.OperatorID, p.Price, p.SellingPrice, p.Description, p.Status)
        if err != nil {
            return SyncSkipped, fmt.Errorf("error inserting product %s: %v", p.ID, err)
        }
        return outcomeFromInsertIgnore(res)
    }

    res, err := c.db.ExecContext(ctx, `
        INSERT INTO tripay_products
            (product_id, name, code, type, category_id, operator_id, price, selling_price, description, status, synced_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
        ON DUPLICATE KEY UPDATE
            name = VALUES(name),
            code = VALUES(code),
            type = VALUES(type),
            category_id = VALUES(category_id),
            operator_id = VALUES(operator_id),
            price = VALUES(price),
            selling_price = VALUES(selling_price),
            description = VALUES(description),
            status = VALUES(status),
            synced_at = NOW()
    `, p.ID, p.Name, p.Code, productType, p.CategoryID, p.OperatorID, p.Price, p.SellingPrice, p.Description, p.Status)
    if err != nil {
        return SyncSkipped, fmt.Errorf("error upserting product %s: %v", p.ID, err)
    }
    return outcomeFromUpsert(res)
}

// CategoryRow is a synced category as stored locally.
type CategoryRow struct {
    ID     string `json:"id"`
    Name   string `json:"name"`
    Type   string `json:"type"`
    Status bool   `json:"status"`
}

func (c *Connection) ListCategories(ctx context.Context, catType string) ([]CategoryRow, error) {
    rows, err := c.queryWithOptionalType(ctx, `
        SELECT category_id, name, type, status FROM tripay_categories
    `, catType, "ORDER BY name")
    if err != nil {
        return nil, fmt.Errorf("error listing categories: %v", err)
    }
    defer rows.Close()

    var out []CategoryRow
    for rows.Next() {
        var row CategoryRow
        if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.Status); err != nil {
            return nil, fmt.Errorf("error scanning category: %v", err)
        }
        out = append(out, row)
    }
    return out, rows.Err()
}

// OperatorRow is a synced operator as stored locally.
type OperatorRow struct {
    ID         int64  `json:"id"`
    Code       string `json:"code"`
    Name       string `json:"name"`
    CategoryID string `json:"category_id"`
    Type       string `json:"type"`
    Status     bool   `json:"status"`
}

func (c *Connection) ListOperators(ctx context.Context, opType string) ([]OperatorRow, error) {
    rows, err := c.queryWithOptionalType(ctx, `
        SELECT operator_id, code, name, category_id, type, status FROM tripay_operators
    `, opType, "ORDER BY name")
    if err != nil {
        return nil, fmt.Errorf("error listing operators: %v", err)
    }
    defer rows.Close()

    var out []OperatorRow
    for rows.Next() {
        var row OperatorRow
        if err := rows.Scan(&row.ID, &row.Code, &row.Name, &row.CategoryID, &row.Type, &row.Status); err != nil {
            return nil, fmt.Errorf("error scanning operator: %v", err)
        }
        out = append(out, row)
    }
    return out, rows.Err()
}

// ProductRow is a synced product as stored locally.
type ProductRow struct {
    ID           string  `json:"id"`
    Name         string  `json:"name"`
    Code         string  `json:"code"`
    Type         string  `json:"type"`
    CategoryID   string  `json:"category_id"`
    OperatorID   string  `json:"operator_id"`
    Price        float64 `json:"price"`
    SellingPrice float64 `json:"selling_price"`
    Status       bool    `json:"status"`
}

func (c *Connection) ListProducts(ctx context.Context, productType string) ([]ProductRow, error) {
    rows, err := c.queryWithOptionalType(ctx, `
        SELECT product_id, name, code, type, category_id, operator_id, price, selling_price, status
        FROM tripay_products
    `, productType, "ORDER BY name")
    if err != nil {
        return nil, fmt.Errorf("error listing products: %v", err)
    }
    defer rows.Close()

    var out []ProductRow
    for rows.Next() {
        var row ProductRow
        if err := rows.Scan(&row.ID, &row.Name, &row.Code, &row.Type, &row.CategoryID,
            &row.OperatorID, &row.Price, &row.SellingPrice, &row.Status); err != nil {
            return nil, fmt.Errorf("error scanning product: %v", err)
        }
        out = append(out, row)
    }
    return out, rows.Err()
}

func (c *Connection) queryWithOptionalType(ctx context.Context, query, typeFilter, suffix string) (*sql.Rows, error) {
    if typeFilter != "" && typeFilter != "all" {
        return c.db.QueryContext(ctx, query+" WHERE type = ? "+suffix, typeFilter)
    }
    return c.db.QueryContext(ctx, query+" "+suffix)
}

// outcomeFromInsertIgnore maps INSERT IGNORE row counts: 1 row means a
// new record, 0 means it already existed.
func outcomeFromInsertIgnore(res sql.Result) (SyncOutcome, error) {
    n, err := res.RowsAffected()
    if err != nil {
        return SyncSkipped, err
    }
    if n == 1 {
        return SyncCreated, nil
    }
    return SyncSkipped, nil
}

// outcomeFromUpsert maps ON DUPLICATE KEY UPDATE row counts: MySQL
// reports 1 for an insert and 2 for an update.
func outcomeFromUpsert(res sql.Result) (SyncOutcome, error) {
    n, err := res.RowsAffected()
    if err != nil {
        return SyncSkipped, err
    }
    switch n {
    case 1:
        return SyncCreated, nil
    case 2:
        return SyncUpdated, nil
    default:
        return SyncSkipped, nil
    }
}
