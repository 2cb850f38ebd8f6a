// Package asaas implements the billing provider client. Customers and
// payments are fetched through the provider's offset/limit pagination,
// pacing successive pages to stay under the provider's rate limit.
package asaas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"billing-reminder-go/internal/model"
)

const (
	pageLimit = 100
	pagePause = 3 * time.Second
)

// Customer is a customer record as returned by the provider.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	MobilePhone string `json:"mobilePhone"`
}

// Payment is a payment record as returned by the provider. DueDate is a
// calendar date with no time component.
type Payment struct {
	ID          string          `json:"id"`
	Customer    string          `json:"customer"`
	Value       decimal.Decimal `json:"value"`
	DueDate     string          `json:"dueDate"`
	Status      string          `json:"status"`
	InvoiceURL  string          `json:"invoiceUrl"`
	Description string          `json:"description"`
}

type listResponse[T any] struct {
	Data       []T  `json:"data"`
	HasMore    bool `json:"hasMore"`
	TotalCount int  `json:"totalCount"`
}

// Client talks to the Asaas REST API.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	pause   time.Duration
}

// NewClient creates a provider client for the given API base URL and token.
func NewClient(baseURL, token string) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = nil
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    httpClient,
		pause:   pagePause,
	}
}

// ListCustomers fetches every customer page by page.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := c.paginate(ctx, "/customers", nil, func(page listResponse[json.RawMessage]) error {
		for _, raw := range page.Data {
			var customer Customer
			if err := json.Unmarshal(raw, &customer); err != nil {
				return fmt.Errorf("failed to decode customer: %w", err)
			}
			customers = append(customers, customer)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return customers, nil
}

// ListPayments fetches every payment with the given status page by page.
func (c *Client) ListPayments(ctx context.Context, status model.InvoiceStatus) ([]Payment, error) {
	var payments []Payment
	params := url.Values{"status": {string(status)}}
	err := c.paginate(ctx, "/payments", params, func(page listResponse[json.RawMessage]) error {
		for _, raw := range page.Data {
			var payment Payment
			if err := json.Unmarshal(raw, &payment); err != nil {
				return fmt.Errorf("failed to decode payment: %w", err)
			}
			payments = append(payments, payment)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s payments: %w", status, err)
	}
	return payments, nil
}

// paginate walks an offset/limit listing until hasMore turns false,
// sleeping between pages to respect the provider rate limit.
func (c *Client) paginate(ctx context.Context, path string, params url.Values, collect func(listResponse[json.RawMessage]) error) error {
	offset := 0
	for {
		page, err := c.getPage(ctx, path, params, offset)
		if err != nil {
			return err
		}
		if err := collect(page); err != nil {
			return err
		}
		if !page.HasMore {
			return nil
		}
		offset += pageLimit

		select {
		case <-time.After(c.pause):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) getPage(ctx context.Context, path string, params url.Values, offset int) (listResponse[json.RawMessage], error) {
	var page listResponse[json.RawMessage]

	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("limit", strconv.Itoa(pageLimit))
	query.Set("offset", strconv.Itoa(offset))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return page, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("access_token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return page, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return page, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("failed to decode response: %w", err)
	}
	return page, nil
}
