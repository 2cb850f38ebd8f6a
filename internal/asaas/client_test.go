package asaas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-reminder-go/internal/model"
)

func newTestClient(url string) *Client {
	c := NewClient(url, "test-token")
	c.pause = 0
	return c
}

func TestListCustomersPaginates(t *testing.T) {
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("access_token"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		page := map[string]any{
			"data": []map[string]string{
				{"id": "cus_" + offset, "name": "Customer " + offset, "mobilePhone": "5511999990001"},
			},
			"hasMore":    offset == "0",
			"totalCount": 2,
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	customers, err := newTestClient(server.URL).ListCustomers(context.Background())
	require.NoError(t, err)

	assert.Len(t, customers, 2)
	assert.Equal(t, []string{"0", "100"}, offsets)
	assert.Equal(t, "cus_0", customers[0].ID)
	assert.Equal(t, "cus_100", customers[1].ID)
}

func TestListPaymentsFiltersByStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "OVERDUE", r.URL.Query().Get("status"))

		page := map[string]any{
			"data": []map[string]any{
				{
					"id":         "pay_1",
					"customer":   "cus_1",
					"value":      99.9,
					"dueDate":    "2023-12-01",
					"status":     "OVERDUE",
					"invoiceUrl": "https://pay.example.com/1",
				},
			},
			"hasMore":    false,
			"totalCount": 1,
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	payments, err := newTestClient(server.URL).ListPayments(context.Background(), model.StatusOverdue)
	require.NoError(t, err)

	require.Len(t, payments, 1)
	assert.Equal(t, "pay_1", payments[0].ID)
	assert.True(t, payments[0].Value.Equal(decimal.NewFromFloat(99.9)))
	assert.Equal(t, "2023-12-01", payments[0].DueDate)
}

func TestListPaymentsSurfacesProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"code":"invalid_token"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.http.RetryMax = 0

	_, err := client.ListPayments(context.Background(), model.StatusPending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid_token")
}

func TestMerge(t *testing.T) {
	customers := []Customer{
		{ID: "cus_1", Name: "Joao", Phone: "551133330001", MobilePhone: "5511999990001"},
		{ID: "cus_2", Name: "Maria", Phone: "551133330002"},
	}
	payments := []Payment{
		{ID: "pay_1", Customer: "cus_1", Value: decimal.NewFromInt(150), DueDate: "2024-01-10", Status: "PENDING"},
		{ID: "pay_2", Customer: "cus_2", Value: decimal.NewFromInt(200), DueDate: "2024-01-20", Status: "PENDING"},
		{ID: "pay_3", Customer: "cus_missing", Value: decimal.NewFromInt(50), DueDate: "2024-01-15", Status: "OVERDUE"},
	}

	invoices := Merge(payments, customers)
	require.Len(t, invoices, 3)

	// Mobile phone is preferred over the landline.
	assert.Equal(t, "5511999990001", invoices[0].CustomerPhone)
	// Landline is the fallback.
	assert.Equal(t, "551133330002", invoices[1].CustomerPhone)
	// A payment whose customer was not returned gets a placeholder.
	assert.Equal(t, unknownCustomer, invoices[2].CustomerName)
	assert.Empty(t, invoices[2].CustomerPhone)

	assert.Equal(t, model.StatusPending, invoices[0].Status)
	assert.Equal(t, model.TagNone, invoices[0].Tag)
	assert.Equal(t, 10, invoices[0].DueDate.Day())
}
