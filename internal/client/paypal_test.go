package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-checkout/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakePaypal(t *testing.T, createStatus int) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var createBodies []map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "fake-token"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		createBodies = append(createBodies, body)

		w.WriteHeader(createStatus)
		if createStatus >= 300 {
			w.Write([]byte(`{"name":"INVALID_REQUEST"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "ORDER-123",
			"links": []map[string]string{
				{"rel": "self", "href": "https://example.test/self"},
				{"rel": "approve", "href": "https://example.test/approve"},
			},
		})
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-123/capture", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "COMPLETED",
			"payer":  map[string]string{"payer_id": "PAYER-1"},
			"purchase_units": []map[string]interface{}{
				{"payments": map[string]interface{}{
					"captures": []map[string]string{{"id": "CAP-1", "status": "COMPLETED"}},
				}},
			},
		})
	})
	mux.HandleFunc("/v2/payments/captures/CAP-1/refund", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "REF-1", "status": "COMPLETED"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &createBodies
}

func testClient(srv *httptest.Server) PaypalClient {
	return NewPaypalClient(&config.Paypal{
		BaseApiURL:   srv.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
}

func TestCreateOrder_SendsAmountAndFindsApproveLink(t *testing.T) {
	srv, bodies := newFakePaypal(t, http.StatusCreated)
	c := testClient(srv)

	resp, err := c.CreateOrder(context.Background(), &CreateOrderRequest{
		Value:        "318.40",
		CurrencyCode: "USD",
		Description:  "Cloud Mattress x2",
		ReturnURL:    "http://localhost/api/paypal/success",
		CancelURL:    "http://localhost/",
	})

	require.NoError(t, err)
	assert.Equal(t, "ORDER-123", resp.OrderID)
	assert.Equal(t, "https://example.test/approve", resp.ApproveURL)

	require.Len(t, *bodies, 1)
	units := (*bodies)[0]["purchase_units"].([]interface{})
	amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
	assert.Equal(t, "318.40", amount["value"])
	assert.Equal(t, "USD", amount["currency_code"])
}

func TestCreateOrder_ProviderError(t *testing.T) {
	srv, _ := newFakePaypal(t, http.StatusUnprocessableEntity)
	c := testClient(srv)

	_, err := c.CreateOrder(context.Background(), &CreateOrderRequest{
		Value: "10.00", CurrencyCode: "USD",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
}

func TestCaptureOrder(t *testing.T) {
	srv, _ := newFakePaypal(t, http.StatusCreated)
	c := testClient(srv)

	result, err := c.CaptureOrder(context.Background(), "ORDER-123")

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.Equal(t, "CAP-1", result.CaptureID)
	assert.Equal(t, "PAYER-1", result.PayerID)
}

func TestRefundCapture(t *testing.T) {
	srv, _ := newFakePaypal(t, http.StatusCreated)
	c := testClient(srv)

	result, err := c.RefundCapture(context.Background(), "CAP-1", "318.40", "USD")

	require.NoError(t, err)
	assert.Equal(t, "REF-1", result.ID)
}

func TestCreateOrder_MissingCredentials(t *testing.T) {
	c := NewPaypalClient(&config.Paypal{BaseApiURL: "http://localhost:1"})

	_, err := c.CreateOrder(context.Background(), &CreateOrderRequest{Value: "1.00", CurrencyCode: "USD"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}
