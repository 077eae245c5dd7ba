package tripay

import (
    "context"
    "encoding/json"
    "net/http"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "tripay-ppob-api/config"
)

func TestPrepaidCatalogCacheKeys(t *testing.T) {
    store := newMemStore()
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"success":true,"data":[{"category_id":"pulsa","category_name":"Pulsa","status":1}]}`))
    }, config.CacheConfig{Enabled: true, Prefix: "tripay", TTL: time.Hour}, store)

    svc := NewPrepaidService(client)
    resp, err := svc.GetCategories(context.Background())
    require.NoError(t, err)

    require.Len(t, resp.Data, 1)
    assert.Equal(t, "pulsa", resp.Data[0].ID)
    assert.Contains(t, store.data, "tripay:prepaid_categories")
}

func TestPrepaidGetProductsFiltersByQuery(t *testing.T) {
    var gotQuery string
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        gotQuery = r.URL.RawQuery
        w.Write([]byte(`{"success":true,"data":[]}`))
    }, config.CacheConfig{}, nil)

    svc := NewPrepaidService(client)
    _, err := svc.GetProducts(context.Background(), "pulsa", "telkomsel")
    require.NoError(t, err)
    assert.Equal(t, "category=pulsa&operator=telkomsel", gotQuery)
}

func TestPrepaidSearchProducts(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"success":true,"data":[
            {"id":"TSEL10","product_name":"Telkomsel 10.000","price":10500},
            {"id":"XL10","product_name":"XL 10.000","price":10600},
            {"id":"TSEL20","product_name":"Telkomsel 20.000","price":20500}
        ]}`))
    }, config.CacheConfig{}, nil)

    svc := NewPrepaidService(client)
    resp, err := svc.SearchProducts(context.Background(), "telkomsel")
    require.NoError(t, err)

    require.Len(t, resp.Data, 2)
    // relative order of the upstream list is preserved
    assert.Equal(t, "TSEL10", resp.Data[0].ID)
    assert.Equal(t, "TSEL20", resp.Data[1].ID)
}

func TestPrepaidPurchasePostsPayload(t *testing.T) {
    var got map[string]interface{}
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, endpointPrepaidPurchase, r.URL.Path)
        json.NewDecoder(r.Body).Decode(&got)
        w.Write([]byte(`{"success":true,"message":"transaksi sukses","trxid":991,"api_trxid":"ref-10"}`))
    }, config.CacheConfig{}, nil)

    svc := NewPrepaidService(client)
    resp, err := svc.Purchase(context.Background(), "TSEL10", "081234567890", "ref-10", "1234")
    require.NoError(t, err)

    assert.Equal(t, "TSEL10", got["product"])
    assert.Equal(t, "081234567890", got["phone"])
    assert.Equal(t, "ref-10", got["api_trxid"])
    assert.Equal(t, "1234", got["pin"])

    assert.True(t, resp.Success)
    assert.Equal(t, int64(991), resp.TrxID)
}

func TestPrepaidPurchaseValidatesBeforeNetwork(t *testing.T) {
    var hits int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        hits++
    }, config.CacheConfig{}, nil)

    svc := NewPrepaidService(client)
    _, err := svc.Purchase(context.Background(), "TSEL10", "", "ref-11", "1234")
    require.Error(t, err)
    assert.Equal(t, 0, hits)
}

func TestPrepaidProductDetail(t *testing.T) {
    var gotQuery string
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        gotQuery = r.URL.RawQuery
        w.Write([]byte(`{"success":true,"data":{"id":"TSEL10","product_name":"Telkomsel 10.000","price":10500,"cut_off_start":"23:00","cut_off_end":"01:00"}}`))
    }, config.CacheConfig{}, nil)

    svc := NewPrepaidService(client)
    resp, err := svc.GetProductDetail(context.Background(), "TSEL10")
    require.NoError(t, err)

    assert.Equal(t, "product=TSEL10", gotQuery)
    require.NotNil(t, resp.Data)
    assert.Equal(t, "Telkomsel 10.000", resp.Data.Name)
    assert.Equal(t, "23:00", resp.Data.CutOffStart)
}
