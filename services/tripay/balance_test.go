package tripay

import (
    "context"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "tripay-ppob-api/config"
)

func TestGetAmountParsesMessageBalance(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"success":true,"message":"Saldo anda Rp. 398.806"}`))
    }, config.CacheConfig{}, nil)

    svc := NewBalanceService(client)
    amount, err := svc.GetAmount(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 398806.0, amount)
}

func TestIsSufficient(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"success":true,"saldo":50000}`))
    }, config.CacheConfig{}, nil)

    svc := NewBalanceService(client)

    ok, err := svc.IsSufficient(context.Background(), 45000)
    require.NoError(t, err)
    assert.True(t, ok)

    ok, err = svc.IsSufficient(context.Background(), 60000)
    require.NoError(t, err)
    assert.False(t, ok)
}

func TestServerTestConnection(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, endpointCheckServer, r.URL.Path)
        w.Write([]byte(`{"success":true,"message":"Server is online"}`))
    }, config.CacheConfig{}, nil)

    assert.True(t, NewServerService(client).TestConnection(context.Background()))
}

func TestServerTestConnectionSwallowsErrors(t *testing.T) {
    client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusUnauthorized)
        w.Write([]byte(`{"message":"Unauthenticated."}`))
    }, config.CacheConfig{}, nil)

    assert.False(t, NewServerService(client).TestConnection(context.Background()))
}
