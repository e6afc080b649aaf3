package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// PayMongoClient talks to the PayMongo HTTPS API. Amounts are sent in minor
// units (centavos); auth is Basic with the secret key and an empty password.
type PayMongoClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPayMongoClient(baseURL, secretKey string) *PayMongoClient {
	return &PayMongoClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type Source struct {
	ID          string
	CheckoutURL string
}

type Payment struct {
	ID     string
	Status string // paid, failed, pending
}

type paymongoEnvelope struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status   string `json:"status"`
			Redirect struct {
				CheckoutURL string `json:"checkout_url"`
			} `json:"redirect"`
		} `json:"attributes"`
	} `json:"data"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// minorUnits converts a currency amount to the gateway's integer
// representation: multiply by 100, truncate.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// CreateSource creates a redirectable GCash checkout source. The supplied
// redirect URL gets success/failed query variants appended.
func (c *PayMongoClient) CreateSource(ctx context.Context, amount decimal.Decimal, redirectURL string) (*Source, error) {
	body := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"amount":   minorUnits(amount),
				"currency": "PHP",
				"type":     "gcash",
				"redirect": map[string]any{
					"success": redirectURL + "?status=success",
					"failed":  redirectURL + "?status=failed",
				},
			},
		},
	}

	env, err := c.post(ctx, "/sources", body)
	if err != nil {
		return nil, err
	}
	if env.Data.Attributes.Redirect.CheckoutURL == "" {
		return nil, errors.New("payment gateway returned no checkout URL")
	}

	return &Source{
		ID:          env.Data.ID,
		CheckoutURL: env.Data.Attributes.Redirect.CheckoutURL,
	}, nil
}

// CreatePayment charges a chargeable source for the given amount.
func (c *PayMongoClient) CreatePayment(ctx context.Context, amount decimal.Decimal, sourceID, description string) (*Payment, error) {
	body := map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"amount":   minorUnits(amount),
				"currency": "PHP",
				"source": map[string]any{
					"id":   sourceID,
					"type": "source",
				},
				"description": description,
			},
		},
	}

	env, err := c.post(ctx, "/payments", body)
	if err != nil {
		return nil, err
	}

	return &Payment{
		ID:     env.Data.ID,
		Status: env.Data.Attributes.Status,
	}, nil
}

func (c *PayMongoClient) post(ctx context.Context, path string, body any) (*paymongoEnvelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}
	defer resp.Body.Close()

	var env paymongoEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		detail := "unknown error from payment gateway"
		if len(env.Errors) > 0 && env.Errors[0].Detail != "" {
			detail = env.Errors[0].Detail
		}
		return nil, fmt.Errorf("payment gateway error: %s", detail)
	}

	return &env, nil
}
