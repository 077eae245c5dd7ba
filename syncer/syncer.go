package syncer

import (
    "context"
    "fmt"

    "go.uber.org/zap"

    "tripay-ppob-api/database"
    "tripay-ppob-api/models"
    "tripay-ppob-api/services/tripay"
)

const (
    TypePrepaid  = "prepaid"
    TypePostpaid = "postpaid"
    TypeAll      = "all"
)

// Result aggregates the outcome of one sync run.
type Result struct {
    Created int
    Updated int
    Failed  int
}

func (r Result) Total() int {
    return r.Created + r.Updated + r.Failed
}

// Syncer pulls catalog data through the Tripay services and upserts it
// into the local store keyed by upstream identifiers.
type Syncer struct {
    manager *tripay.Manager
    db      *database.Connection
    logger  *zap.Logger
}

func New(manager *tripay.Manager, db *database.Connection, logger *zap.Logger) *Syncer {
    if logger == nil {
        logger = zap.NewNop()
    }
    return &Syncer{manager: manager, db: db, logger: logger}
}

func validType(syncType string) error {
    switch syncType {
    case TypePrepaid, TypePostpaid, TypeAll:
        return nil
    }
    return fmt.Errorf("unknown sync type %q (want prepaid, postpaid or all)", syncType)
}

// SyncCategories syncs prepaid and/or postpaid categories.
func (s *Syncer) SyncCategories(ctx context.Context, syncType string, force bool) (Result, error) {
    if err := validType(syncType); err != nil {
        return Result{}, err
    }

    var result Result
    if syncType == TypeAll || syncType == TypePrepaid {
        resp, err := s.manager.Prepaid().GetCategories(ctx)
        if err != nil {
            return result, fmt.Errorf("failed to fetch prepaid categories: %v", err)
        }
        s.mergeCategories(ctx, TypePrepaid, resp.Data, force, &result)
    }
    if syncType == TypeAll || syncType == TypePostpaid {
        resp, err := s.manager.Postpaid().GetCategories(ctx)
        if err != nil {
            return result, fmt.Errorf("failed to fetch postpaid categories: %v", err)
        }
        s.mergeCategories(ctx, TypePostpaid, resp.Data, force, &result)
    }

    s.logger.Info("category sync completed",
        zap.Int("created", result.Created),
        zap.Int("updated", result.Updated),
        zap.Int("failed", result.Failed),
    )
    return result, nil
}

func (s *Syncer) mergeCategories(ctx context.Context, catType string, categories []models.CategoryData, force bool, result *Result) {
    for _, cat := range categories {
        if cat.ID == "" {
            result.Failed++
            continue
        }
        outcome, err := s.db.UpsertCategory(ctx, catType, cat, force)
        s.count(outcome, err, result, "category", cat.ID)
    }
}

// SyncOperators syncs prepaid and/or postpaid operators.
func (s *Syncer) SyncOperators(ctx context.Context, syncType string, force bool) (Result, error) {
    if err := validType(syncType); err != nil {
        return Result{}, err
    }

    var result Result
    if syncType == TypeAll || syncType == TypePrepaid {
        resp, err := s.manager.Prepaid().GetOperators(ctx)
        if err != nil {
            return result, fmt.Errorf("failed to fetch prepaid operators: %v", err)
        }
        s.mergeOperators(ctx, TypePrepaid, resp.Data, force, &result)
    }
    if syncType == TypeAll || syncType == TypePostpaid {
        resp, err := s.manager.Postpaid().GetOperators(ctx)
        if err != nil {
            return result, fmt.Errorf("failed to fetch postpaid operators: %v", err)
        }
        s.mergeOperators(ctx, TypePostpaid, resp.Data, force, &result)
    }

    s.logger.Info("operator sync completed",
        zap.Int("created", result.Created),
        zap.Int("updated", result.Updated),
        zap.Int("failed", result.Failed),
    )
    return result, nil
}

func (s *Syncer) mergeOperators(ctx context.Context, opType string, operators []models.OperatorData, force bool, result *Result) {
    for _, op := range operators {
        if op.Code == "" {
            result.Failed++
            continue
        }
        outcome, err := s.db.UpsertOperator(ctx, opType, op, force)
        s.count(outcome, err, result, "operator", op.Code)
    }
}

// SyncProducts syncs prepaid and/or postpaid products.
func (s *Syncer) SyncProducts(ctx context.Context, syncType string, force bool) (Result, error) {
    if err := validType(syncType); err != nil {
        return Result{}, err
    }

    var result Result
    if syncType == TypeAll || syncType == TypePrepaid {
        resp, err := s.manager.Prepaid().GetProducts(ctx, "", "")
        if err != nil {
            return result, fmt.Errorf("failed to fetch prepaid products: %v", err)
        }
        s.mergeProducts(ctx, TypePrepaid, resp.Data, force, &result)
    }
    if syncType == TypeAll || syncType == TypePostpaid {
        resp, err := s.manager.Postpaid().GetProducts(ctx, "", "")
        if err != nil {
            return result, fmt.Errorf("failed to fetch postpaid products: %v", err)
        }
        s.mergeProducts(ctx, TypePostpaid, resp.Data, force, &result)
    }

    s.logger.Info("product sync completed",
        zap.Int("created", result.Created),
        zap.Int("updated", result.Updated),
        zap.Int("failed", result.Failed),
    )
    return result, nil
}

func (s *Syncer) mergeProducts(ctx context.Context, productType string, products []models.ProductData, force bool, result *Result) {
    for _, p := range products {
        if p.ID == "" {
            result.Failed++
            continue
        }
        outcome, err := s.db.UpsertProduct(ctx, productType, p, force)
        s.count(outcome, err, result, "product", p.ID)
    }
}

func (s *Syncer) count(outcome database.SyncOutcome, err error, result *Result, kind, id string) {
    if err != nil {
        s.logger.Warn("sync upsert failed", zap.String(kind, id), zap.Error(err))
        result.Failed++
        return
    }
    switch outcome {
    case database.SyncCreated:
        result.Created++
    case database.SyncUpdated:
        result.Updated++
    }
}
