package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"github.com/paymenu/grouppay/internal/config"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/httpclient"
	"github.com/paymenu/grouppay/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// restClient talks to the provider's REST API
type restClient struct {
	baseURL string
	apiKey  string
	http    httpclient.Client
	logger  *logger.Logger
}

// NewClient builds the provider client from configuration
func NewClient(cfg *config.Configuration, log *logger.Logger) Client {
	return &restClient{
		baseURL: cfg.Gateway.BaseURL,
		apiKey:  cfg.Gateway.APIKey,
		http: httpclient.NewClientWithConfig(httpclient.ClientConfig{
			Timeout:           cfg.Gateway.Timeout(),
			RequestsPerSecond: cfg.Gateway.RequestsPerSecond,
			RetryMax:          3,
		}),
		logger: log,
	}
}

func (c *restClient) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/customers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) CreateCard(ctx context.Context, req CardRequest) (*Card, error) {
	var out Card
	if err := c.do(ctx, http.MethodPost, "/cards", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var out Transaction
	path := fmt.Sprintf("/transactions/%s", url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) GetFees(ctx context.Context, method string) (*Fees, error) {
	var out Fees
	path := fmt.Sprintf("/fees?payment_method=%s", url.QueryEscape(method))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) CreateRecipient(ctx context.Context, req Recipient) (*Recipient, error) {
	var out Recipient
	if err := c.do(ctx, http.MethodPost, "/recipients", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *restClient) ListRecipients(ctx context.Context) ([]Recipient, error) {
	var out []Recipient
	if err := c.do(ctx, http.MethodGet, "/recipients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *restClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to encode provider request").
				Mark(ierr.ErrSystem)
		}
		payload = b
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
			"Accept":        "application/json",
		},
		Body: payload,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			c.logger.Errorw("provider request failed",
				"method", method,
				"path", path,
				"status_code", httpErr.StatusCode,
				"response", string(httpErr.Response),
			)
			return ierr.WithError(err).
				WithHint("The payment provider rejected the request").
				WithReportableDetails(map[string]any{"status_code": httpErr.StatusCode}).
				Mark(ierr.ErrPaymentError)
		}
		return err
	}

	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to decode provider response").
				Mark(ierr.ErrPaymentError)
		}
	}
	return nil
}
