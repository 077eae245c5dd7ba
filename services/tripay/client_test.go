package tripay

import (
    "context"
    "net/http"
    "net/http/httptest"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "tripay-ppob-api/config"
)

// memStore is an in-memory CacheStore that counts every interaction.
type memStore struct {
    mu      sync.Mutex
    data    map[string][]byte
    gets    int
    sets    int
    deletes []string
}

func newMemStore() *memStore {
    return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.gets++
    v, ok := s.data[key]
    return v, ok, nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.sets++
    s.data[key] = value
    return nil
}

func (s *memStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.deletes = append(s.deletes, prefix)
    return 0, nil
}

func testConfig(baseURI string) config.TripayConfig {
    return config.TripayConfig{
        Mode:           config.ModeSandbox,
        APIKey:         "test-api-key",
        SecretPin:      "1234",
        SandboxBaseURI: baseURI,
        Timeout:        2 * time.Second,
        RetryCount:     3,
        RetryDelay:     time.Millisecond,
    }
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cacheCfg config.CacheConfig, store CacheStore) (*Client, *httptest.Server) {
    t.Helper()
    srv := httptest.NewServer(handler)
    t.Cleanup(srv.Close)

    client, err := NewClient(testConfig(srv.URL), cacheCfg, config.LoggingConfig{}, store, nil)
    require.NoError(t, err)
    return client, srv
}

func TestNewClientRequiresCredentials(t *testing.T) {
    cfg := testConfig("https://example.invalid")
    cfg.APIKey = ""
    _, err := NewClient(cfg, config.CacheConfig{}, config.LoggingConfig{}, nil, nil)
    require.Error(t, err)
    assert.True(t, IsKind(err, KindAuthFailure))

    cfg = testConfig("https://example.invalid")
    cfg.SecretPin = ""
    _, err = NewClient(cfg, config.CacheConfig{}, config.LoggingConfig{}, nil, nil)
    require.Error(t, err)
    assert.True(t, IsKind(err, KindAuthFailure))
}

func TestGetSendsBearerAuth(t *testing.T) {
    var gotAuth, gotQuery string
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        gotAuth = r.Header.Get("Authorization")
        gotQuery = r.URL.RawQuery
        w.Write([]byte(`{"success":true,"message":"ok"}`))
    }, config.CacheConfig{}, nil)

    payload, err := client.Get(context.Background(), "/cekserver", map[string]interface{}{"category": "pulsa"})
    require.NoError(t, err)
    assert.Equal(t, "Bearer test-api-key", gotAuth)
    assert.Equal(t, "category=pulsa", gotQuery)
    assert.Equal(t, true, payload["success"])
}

func TestRetriesServerErrorsThenSucceeds(t *testing.T) {
    var attempts int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        attempts++
        if attempts < 3 {
            w.WriteHeader(http.StatusServiceUnavailable)
            return
        }
        w.Write([]byte(`{"success":true}`))
    }, config.CacheConfig{}, nil)

    _, err := client.Get(context.Background(), "/cekserver", nil)
    require.NoError(t, err)
    assert.Equal(t, 3, attempts)
}

func TestRetryExhaustionReturnsServerError(t *testing.T) {
    var attempts int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        attempts++
        w.WriteHeader(http.StatusServiceUnavailable)
    }, config.CacheConfig{}, nil)

    _, err := client.Get(context.Background(), "/cekserver", nil)
    require.Error(t, err)
    assert.Equal(t, 4, attempts, "retryCount 3 means 4 attempts total")

    te := AsError(err)
    require.NotNil(t, te)
    assert.Equal(t, KindServerError, te.Kind)
    assert.Equal(t, http.StatusServiceUnavailable, te.HTTPStatus)
}

func TestBusinessFailureIsTerminal(t *testing.T) {
    var attempts int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        attempts++
        w.Write([]byte(`{"success":false,"message":"Saldo tidak mencukupi"}`))
    }, config.CacheConfig{}, nil)

    _, err := client.Post(context.Background(), "/transaksi/pembelian", nil)
    require.Error(t, err)
    assert.Equal(t, 1, attempts, "success:false must never be retried")

    te := AsError(err)
    require.NotNil(t, te)
    assert.Equal(t, KindAPIError, te.Kind)
    assert.Equal(t, "Saldo tidak mencukupi", te.Message)
}

func TestInvalidAPIKeyMessageClassifiedAsAuthFailure(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"success":false,"message":"Invalid API Key"}`))
    }, config.CacheConfig{}, nil)

    _, err := client.Get(context.Background(), "/ceksaldo", nil)
    assert.True(t, IsKind(err, KindAuthFailure))
}

func TestUnauthorizedStatus(t *testing.T) {
    var attempts int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        attempts++
        w.WriteHeader(http.StatusUnauthorized)
        w.Write([]byte(`{"message":"Unauthenticated."}`))
    }, config.CacheConfig{}, nil)

    _, err := client.Get(context.Background(), "/ceksaldo", nil)
    assert.True(t, IsKind(err, KindAuthFailure))
    assert.Equal(t, 1, attempts)
}

func TestRateLimitedNotRetried(t *testing.T) {
    var attempts int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        attempts++
        w.WriteHeader(http.StatusTooManyRequests)
        w.Write([]byte(`{"message":"Too Many Attempts."}`))
    }, config.CacheConfig{}, nil)

    _, err := client.Get(context.Background(), "/ceksaldo", nil)
    assert.True(t, IsKind(err, KindRateLimited))
    assert.Equal(t, 1, attempts)
}

func TestValidationFieldErrors(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusUnprocessableEntity)
        w.Write([]byte(`{"message":"The given data was invalid.","errors":{"phone":["The phone field is required."],"pin":"invalid"}}`))
    }, config.CacheConfig{}, nil)

    _, err := client.Post(context.Background(), "/transaksi/pembelian", nil)
    te := AsError(err)
    require.NotNil(t, te)
    assert.Equal(t, KindValidation, te.Kind)
    assert.Equal(t, "The phone field is required.", te.FieldErrors["phone"])
    assert.Equal(t, "invalid", te.FieldErrors["pin"])
}

func TestBOMPrefixedResponseDecodes(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte("\ufeff" + `{"success":true,"message":"ok"}`))
    }, config.CacheConfig{}, nil)

    payload, err := client.Get(context.Background(), "/cekserver", nil)
    require.NoError(t, err)
    assert.Equal(t, true, payload["success"])
    assert.Equal(t, "ok", payload["message"])
}

func TestNetworkFailureRetriedAndClassified(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
    url := srv.URL
    srv.Close()

    client, err := NewClient(testConfig(url), config.CacheConfig{}, config.LoggingConfig{}, nil, nil)
    require.NoError(t, err)

    _, err = client.Get(context.Background(), "/cekserver", nil)
    assert.True(t, IsKind(err, KindNetwork))
}

func TestGetCachedDisabledNeverTouchesStore(t *testing.T) {
    store := newMemStore()
    var upstream int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        upstream++
        w.Write([]byte(`{"success":true,"data":[]}`))
    }, config.CacheConfig{Enabled: false, Prefix: "tripay", TTL: time.Hour}, store)

    for i := 0; i < 2; i++ {
        _, err := client.GetCached(context.Background(), "prepaid_categories", "/pembelian/category", nil, 0)
        require.NoError(t, err)
    }

    assert.Equal(t, 2, upstream)
    assert.Equal(t, 0, store.gets)
    assert.Equal(t, 0, store.sets)
}

func TestGetCachedColdThenWarm(t *testing.T) {
    store := newMemStore()
    var upstream int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        upstream++
        w.Write([]byte(`{"success":true,"message":"ok"}`))
    }, config.CacheConfig{Enabled: true, Prefix: "tripay", TTL: time.Hour}, store)

    first, err := client.GetCached(context.Background(), "prepaid_categories", "/pembelian/category", nil, 0)
    require.NoError(t, err)

    second, err := client.GetCached(context.Background(), "prepaid_categories", "/pembelian/category", nil, 0)
    require.NoError(t, err)

    assert.Equal(t, 1, upstream, "warm read must not hit upstream")
    assert.Equal(t, 1, store.sets)
    assert.Equal(t, first, second)
    assert.Contains(t, store.data, "tripay:prepaid_categories")
}

func TestGetCachedCorruptEntryRefetches(t *testing.T) {
    store := newMemStore()
    store.data["tripay:balance"] = []byte("{not json")

    var upstream int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        upstream++
        w.Write([]byte(`{"success":true,"saldo":500}`))
    }, config.CacheConfig{Enabled: true, Prefix: "tripay", TTL: time.Hour}, store)

    payload, err := client.GetCached(context.Background(), "balance", "/ceksaldo", nil, 0)
    require.NoError(t, err)
    assert.Equal(t, 1, upstream)
    assert.Equal(t, true, payload["success"])
}

func TestGetCachedDoesNotCacheFailures(t *testing.T) {
    store := newMemStore()
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"success":false,"message":"Produk gangguan"}`))
    }, config.CacheConfig{Enabled: true, Prefix: "tripay", TTL: time.Hour}, store)

    _, err := client.GetCached(context.Background(), "prepaid_products", "/pembelian/produk", nil, 0)
    require.Error(t, err)
    assert.Equal(t, 0, store.sets)
}

func TestClearCachePrefixesPattern(t *testing.T) {
    store := newMemStore()
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{}`))
    }, config.CacheConfig{Enabled: true, Prefix: "tripay", TTL: time.Hour}, store)

    _, err := client.ClearCache(context.Background(), "prepaid")
    require.NoError(t, err)
    require.Len(t, store.deletes, 1)
    assert.Equal(t, "tripay:prepaid", store.deletes[0])
}

func TestParamsCacheKeyStable(t *testing.T) {
    a := paramsCacheKey("prepaid_products", map[string]interface{}{"category": "pulsa", "operator": "telkomsel"})
    b := paramsCacheKey("prepaid_products", map[string]interface{}{"operator": "telkomsel", "category": "pulsa"})
    assert.Equal(t, a, b, "key must not depend on map iteration order")
    assert.NotEqual(t, a, paramsCacheKey("prepaid_products", map[string]interface{}{"category": "pln"}))
    assert.Equal(t, "prepaid_products", paramsCacheKey("prepaid_products", nil))
}

func TestCatalogParamsOmitsEmpty(t *testing.T) {
    assert.Empty(t, catalogParams("", ""))
    assert.Equal(t, map[string]interface{}{"category": "pulsa"}, catalogParams("pulsa", ""))
    assert.Equal(t, map[string]interface{}{"operator": "telkomsel"}, catalogParams("", "telkomsel"))
}
