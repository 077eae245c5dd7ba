package tripay

import (
    "context"
    "encoding/json"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "tripay-ppob-api/config"
)

func TestCheckBillSendsInquiryPayload(t *testing.T) {
    var got map[string]interface{}
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        json.NewDecoder(r.Body).Decode(&got)
        w.Write([]byte(`{"success":true,"message":"sukses","trxid":812,"data":{"customer_name":"BUDI","amount":150000,"admin_fee":2500,"total_amount":152500}}`))
    }, config.CacheConfig{}, nil)

    svc := NewPostpaidService(client)
    resp, err := svc.CheckBillByParams(context.Background(), "PLN", "0812345678", "532110000001", "1234", "ref-1")
    require.NoError(t, err)

    assert.Equal(t, "PLN", got["product"])
    assert.Equal(t, "532110000001", got["no_pelanggan"])
    assert.Equal(t, "ref-1", got["api_trxid"])

    assert.True(t, resp.Success)
    assert.Equal(t, int64(812), resp.TrxID)
    require.NotNil(t, resp.Data)
    assert.Equal(t, "BUDI", resp.Data.CustomerName)
    assert.Equal(t, 152500.0, resp.Data.TotalAmount)
}

func TestCheckAndPayBillWithoutAutoPayNeverPays(t *testing.T) {
    var payCalls int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case endpointPostpaidCheckBill:
            w.Write([]byte(`{"success":true,"trxid":42,"data":{"amount":50000}}`))
        case endpointPostpaidPayBill:
            payCalls++
            w.Write([]byte(`{"success":true,"trxid":42}`))
        default:
            w.WriteHeader(http.StatusNotFound)
        }
    }, config.CacheConfig{}, nil)

    svc := NewPostpaidService(client)
    result, err := svc.CheckAndPayBill(context.Background(), "PLN", "0812345678", "532110000001", "ref-2", "1234", false)
    require.NoError(t, err)

    assert.Equal(t, 0, payCalls)
    assert.Nil(t, result.Payment)
    assert.Equal(t, int64(42), result.Check.TrxID)
}

func TestCheckAndPayBillAutoPay(t *testing.T) {
    var payBody map[string]interface{}
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case endpointPostpaidCheckBill:
            w.Write([]byte(`{"success":true,"trxid":42,"data":{"amount":50000}}`))
        case endpointPostpaidPayBill:
            json.NewDecoder(r.Body).Decode(&payBody)
            w.Write([]byte(`{"success":true,"message":"pembayaran sukses","trxid":42,"api_trxid":"ref-3"}`))
        default:
            w.WriteHeader(http.StatusNotFound)
        }
    }, config.CacheConfig{}, nil)

    svc := NewPostpaidService(client)
    result, err := svc.CheckAndPayBill(context.Background(), "PLN", "0812345678", "532110000001", "ref-3", "1234", true)
    require.NoError(t, err)

    require.NotNil(t, result.Payment)
    assert.True(t, result.Payment.Success)
    assert.Equal(t, "ref-3", result.Payment.APITrxID)

    // trxid comes from the inquiry, not from the caller.
    assert.Equal(t, float64(42), payBody["trxid"])
    assert.Equal(t, "1234", payBody["pin"])
}

func TestCheckAndPayBillSkipsPayWithoutTrxID(t *testing.T) {
    var payCalls int
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case endpointPostpaidCheckBill:
            w.Write([]byte(`{"success":true,"message":"tagihan tidak ditemukan"}`))
        case endpointPostpaidPayBill:
            payCalls++
        default:
            w.WriteHeader(http.StatusNotFound)
        }
    }, config.CacheConfig{}, nil)

    svc := NewPostpaidService(client)
    result, err := svc.CheckAndPayBill(context.Background(), "PLN", "0812345678", "532110000001", "ref-4", "1234", true)
    require.NoError(t, err)
    assert.Equal(t, 0, payCalls)
    assert.Nil(t, result.Payment)
}

func TestPayBillRequiresTrxID(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        t.Error("no request expected")
    }, config.CacheConfig{}, nil)

    svc := NewPostpaidService(client)
    _, err := svc.PayBillByParams(context.Background(), 0, "ref-5", "1234")
    require.Error(t, err)
}
