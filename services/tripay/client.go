package tripay

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/spf13/cast"
    "go.uber.org/zap"

    "tripay-ppob-api/config"
)

// Payload is a decoded upstream response body. The client hands it back
// untouched so the service layer can map it into typed records.
type Payload map[string]interface{}

// CacheStore is the external cache the client uses for cache-aside GETs.
// Implementations must be safe for concurrent use.
type CacheStore interface {
    Get(ctx context.Context, key string) ([]byte, bool, error)
    Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
    DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Client performs authenticated calls against the Tripay PPOB API with
// timeout, fixed-delay retry, optional logging and cache-aside reads.
type Client struct {
    cfg     config.TripayConfig
    cache   config.CacheConfig
    logging config.LoggingConfig
    baseURI string
    http    *http.Client
    store   CacheStore
    logger  *zap.Logger
}

// NewClient validates credentials and builds the client. Missing API key
// or secret PIN fails here, before any network call.
func NewClient(cfg config.TripayConfig, cacheCfg config.CacheConfig, logCfg config.LoggingConfig, store CacheStore, logger *zap.Logger) (*Client, error) {
    if cfg.APIKey == "" {
        return nil, newAuthFailure("API key is required but not provided")
    }
    if cfg.SecretPin == "" {
        return nil, newAuthFailure("Secret PIN is required but not provided")
    }
    if logger == nil {
        logger = zap.NewNop()
    }

    transport := &http.Transport{
        MaxIdleConns:        100,
        MaxIdleConnsPerHost: 20,
        MaxConnsPerHost:     100,
        IdleConnTimeout:     90 * time.Second,
        TLSHandshakeTimeout: 10 * time.Second,
    }

    return &Client{
        cfg:     cfg,
        cache:   cacheCfg,
        logging: logCfg,
        baseURI: cfg.BaseURI(),
        store:   store,
        logger:  logger,
        http: &http.Client{
            Timeout:   cfg.Timeout,
            Transport: transport,
        },
    }, nil
}

// BaseURI returns the resolved upstream base URI.
func (c *Client) BaseURI() string {
    return c.baseURI
}

// Get performs a GET request with query-encoded parameters.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]interface{}) (Payload, error) {
    return c.makeRequest(ctx, http.MethodGet, endpoint, params)
}

// Post performs a POST request with a JSON-encoded body.
func (c *Client) Post(ctx context.Context, endpoint string, body map[string]interface{}) (Payload, error) {
    return c.makeRequest(ctx, http.MethodPost, endpoint, body)
}

// GetCached wraps Get in a cache-aside lookup. With caching disabled it
// behaves exactly like Get and never touches the store. Only successful
// payloads are cached; ttl <= 0 uses the configured default.
func (c *Client) GetCached(ctx context.Context, cacheKey, endpoint string, params map[string]interface{}, ttl time.Duration) (Payload, error) {
    if !c.cache.Enabled || c.store == nil {
        return c.Get(ctx, endpoint, params)
    }

    fullKey := c.cache.Prefix + ":" + cacheKey
    if ttl <= 0 {
        ttl = c.cache.TTL
    }

    if raw, ok, err := c.store.Get(ctx, fullKey); err != nil {
        c.logger.Warn("tripay cache read failed", zap.String("key", fullKey), zap.Error(err))
    } else if ok {
        var payload Payload
        if err := json.Unmarshal(raw, &payload); err == nil {
            return payload, nil
        }
        c.logger.Warn("tripay cache entry corrupt, refetching", zap.String("key", fullKey))
    }

    payload, err := c.Get(ctx, endpoint, params)
    if err != nil {
        return nil, err
    }

    if raw, err := json.Marshal(payload); err == nil {
        if err := c.store.Set(ctx, fullKey, raw, ttl); err != nil {
            c.logger.Warn("tripay cache write failed", zap.String("key", fullKey), zap.Error(err))
        }
    }

    return payload, nil
}

// ClearCache removes cached entries under {prefix}:{pattern}. An empty
// pattern clears everything under the configured prefix.
func (c *Client) ClearCache(ctx context.Context, pattern string) (int, error) {
    if c.store == nil {
        return 0, nil
    }
    return c.store.DeletePrefix(ctx, c.cache.Prefix+":"+pattern)
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, data map[string]interface{}) (Payload, error) {
    fullURL := c.baseURI + endpoint
    data = stripNulls(data)

    attempts := c.cfg.RetryCount + 1
    if attempts < 1 {
        attempts = 1
    }

    var lastErr error
    for attempt := 0; attempt < attempts; attempt++ {
        if attempt > 0 {
            select {
            case <-ctx.Done():
                return nil, c.logError(newNetworkError(ctx.Err().Error()))
            case <-time.After(c.cfg.RetryDelay):
            }
        }

        payload, retryable, err := c.doRequest(ctx, method, fullURL, data)
        if err == nil {
            return payload, nil
        }
        if !retryable {
            return nil, c.logError(err)
        }
        lastErr = err
    }

    return nil, c.logError(lastErr)
}

// doRequest performs a single HTTP exchange. The second return value
// tells the retry loop whether the failure is transient.
func (c *Client) doRequest(ctx context.Context, method, fullURL string, data map[string]interface{}) (Payload, bool, error) {
    reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
    defer cancel()

    var reqBody io.Reader
    target := fullURL
    if method == http.MethodGet {
        if len(data) > 0 {
            target = fullURL + "?" + encodeQuery(data)
        }
    } else {
        jsonPayload, err := json.Marshal(data)
        if err != nil {
            return nil, false, newNetworkError(fmt.Sprintf("error marshaling request: %v", err))
        }
        reqBody = bytes.NewBuffer(jsonPayload)
    }

    req, err := http.NewRequestWithContext(reqCtx, method, target, reqBody)
    if err != nil {
        return nil, false, newNetworkError(fmt.Sprintf("error creating request: %v", err))
    }

    req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
    req.Header.Set("Accept", "application/json")
    req.Header.Set("Content-Type", "application/json")

    if c.logging.Enabled && c.logging.Requests {
        c.logger.Info("Tripay API Request",
            zap.String("method", method),
            zap.String("url", target),
            zap.Any("body", data),
        )
    }

    resp, err := c.http.Do(req)
    if err != nil {
        // Transport failures and timeouts are transient.
        return nil, true, newNetworkError(err.Error())
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, true, newNetworkError(fmt.Sprintf("error reading response body: %v", err))
    }

    if c.logging.Enabled && c.logging.Responses {
        c.logger.Info("Tripay API Response",
            zap.Int("status", resp.StatusCode),
            zap.ByteString("body", respBody),
        )
    }

    payload, perr := parseBody(respBody)

    // An explicit success:false is a terminal business failure no matter
    // the HTTP status. It is never retried.
    if perr == nil && isExplicitFailure(payload) {
        return nil, false, classifyBusinessFailure(payload)
    }

    if resp.StatusCode >= 500 {
        return nil, true, classifyStatus(resp.StatusCode, respBody)
    }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return nil, false, classifyStatus(resp.StatusCode, respBody)
    }

    if perr != nil {
        return nil, false, newNetworkError(fmt.Sprintf("error decoding response: %v", perr))
    }

    return payload, false, nil
}

func (c *Client) logError(err error) error {
    c.logger.Error("Tripay API Error",
        zap.String("message", err.Error()),
        zap.Stack("stack"),
    )
    return err
}

func parseBody(body []byte) (Payload, error) {
    cleaned := strings.TrimPrefix(string(body), "\ufeff")
    var payload Payload
    if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
        return nil, err
    }
    return payload, nil
}

func isExplicitFailure(payload Payload) bool {
    v, ok := payload["success"]
    if !ok {
        return false
    }
    return !cast.ToBool(v)
}

func classifyBusinessFailure(payload Payload) *Error {
    message := cast.ToString(payload["message"])
    if message == "" {
        message = "Unknown error occurred"
    }
    if strings.Contains(strings.ToLower(message), "invalid api key") {
        return newAuthFailure(message)
    }
    return newAPIError(message, payload)
}

func classifyStatus(status int, body []byte) *Error {
    switch status {
    case http.StatusUnauthorized:
        return newAuthFailure("Invalid API credentials provided")
    case http.StatusUnprocessableEntity:
        return newValidation("Validation failed", extractFieldErrors(body))
    case http.StatusTooManyRequests:
        return newRateLimited()
    case http.StatusInternalServerError, http.StatusBadGateway,
        http.StatusServiceUnavailable, http.StatusGatewayTimeout:
        return newServerError(status)
    default:
        return newNetworkError(fmt.Sprintf("unexpected status %d: %s", status, strings.TrimSpace(string(body))))
    }
}

func extractFieldErrors(body []byte) map[string]string {
    fieldErrors := map[string]string{}
    payload, err := parseBody(body)
    if err != nil {
        return fieldErrors
    }
    raw, ok := payload["errors"].(map[string]interface{})
    if !ok {
        return fieldErrors
    }
    for field, v := range raw {
        switch val := v.(type) {
        case []interface{}:
            if len(val) > 0 {
                fieldErrors[field] = cast.ToString(val[0])
            }
        default:
            fieldErrors[field] = cast.ToString(val)
        }
    }
    return fieldErrors
}

// stripNulls drops nil-valued parameters so they are never serialized.
func stripNulls(data map[string]interface{}) map[string]interface{} {
    if data == nil {
        return nil
    }
    out := make(map[string]interface{}, len(data))
    for k, v := range data {
        if v == nil {
            continue
        }
        out[k] = v
    }
    return out
}

func encodeQuery(params map[string]interface{}) string {
    values := url.Values{}
    for k, v := range params {
        values.Set(k, cast.ToString(v))
    }
    return values.Encode()
}
