package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WompiClient queries the Wompi REST API with the merchant private key
type WompiClient struct {
	http *resty.Client
}

func NewWompiClient(baseURL, privateKey string) *WompiClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetHeader("Accept", "application/json")
	if privateKey != "" {
		client.SetAuthToken(privateKey)
	}
	return &WompiClient{http: client}
}

type transactionsResponse struct {
	Data []Transaction `json:"data"`
}

type wompiError struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// TransactionsByReference lists gateway transactions created for reference
func (c *WompiClient) TransactionsByReference(ctx context.Context, reference string) ([]Transaction, error) {
	var out transactionsResponse
	var apiErr wompiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("reference", reference).
		SetResult(&out).
		SetError(&apiErr).
		Get("/transactions")
	if err != nil {
		return nil, fmt.Errorf("wompi: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("wompi: status %d: %s %s", resp.StatusCode(), apiErr.Error.Type, apiErr.Error.Reason)
	}
	return out.Data, nil
}
