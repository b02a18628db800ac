package shipping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infraconfig "github.com/agrimarket/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&infraconfig.ShippingConfig{
		BaseURL: server.URL,
		Token:   "test-token",
		ShopID:  "12345",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)

	return client, server
}

func TestClient_Provinces(t *testing.T) {
	t.Run("decodes province list", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/master-data/province", r.URL.Path)
			assert.Equal(t, "test-token", r.Header.Get("Token"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"code":200,"message":"Success","data":[{"ProvinceID":201,"ProvinceName":"Ha Noi"},{"ProvinceID":202,"ProvinceName":"Ho Chi Minh"}]}`))
		}))

		provinces, err := client.Provinces(context.Background())

		require.NoError(t, err)
		require.Len(t, provinces, 2)
		assert.Equal(t, 201, provinces[0].ProvinceID)
		assert.Equal(t, "Ha Noi", provinces[0].Name)
	})

	t.Run("classifies provider rejection", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":401,"message":"Invalid token"}`))
		}))

		_, err := client.Provinces(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.Contains(t, err.Error(), "Invalid token")
	})

	t.Run("classifies server failure as unavailable", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := client.Provinces(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("classifies malformed body", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))

		_, err := client.Provinces(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestClient_Districts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/master-data/district", r.URL.Path)
		assert.Equal(t, "201", r.URL.Query().Get("province_id"))
		w.Write([]byte(`{"code":200,"message":"Success","data":[{"DistrictID":1442,"ProvinceID":201,"DistrictName":"Cau Giay"}]}`))
	}))

	districts, err := client.Districts(context.Background(), 201)

	require.NoError(t, err)
	require.Len(t, districts, 1)
	assert.Equal(t, 1442, districts[0].DistrictID)
}

func TestClient_CalculateFee(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/shipping-order/fee", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"code":200,"message":"Success","data":{"total":36300,"service_fee":33000,"insurance_fee":3300}}`))
	}))

	quote, err := client.CalculateFee(context.Background(), FeeRequest{
		FromDistrictID: 1442,
		ToDistrictID:   1443,
		ToWardCode:     "21211",
		WeightGrams:    1200,
		ServiceTypeID:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, "36300", quote.Total.String())
	assert.Equal(t, "33000", quote.ServiceFee.String())
}

func TestClient_CalculateFee_RejectsIncompleteRequest(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the provider")
	}))

	_, err := client.CalculateFee(context.Background(), FeeRequest{
		FromDistrictID: 1442,
		WeightGrams:    1200,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
