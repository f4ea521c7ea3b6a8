package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Client calls the wallet api and unwraps the {success, error} envelope.
type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string, client *http.Client) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/") + "/api",
		client:   client,
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, &buf)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode response failed: %s: %w", resp.Status, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}

	if !env.Success {
		if env.Error == "" {
			return errors.New(resp.Status)
		}

		return fmt.Errorf("%s: %s", resp.Status, env.Error)
	}

	return json.Unmarshal(raw, out)
}

func (c *Client) Prices(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/prices", nil, &out)
	return out, err
}

func (c *Client) CreateWallet(ctx context.Context, email string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/wallet/create", map[string]string{"email": email}, &out)
	return out, err
}

func (c *Client) Balance(ctx context.Context, address string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/balance/"+address, nil, &out)
	return out, err
}

type TransferRequest struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	PrivateKey  string `json:"privateKey"`
	NetworkType string `json:"networkType,omitempty"`
}

func (c *Client) Transfer(ctx context.Context, req *TransferRequest) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/transfer/real", req, &out)
	return out, err
}

func (c *Client) ClaimBonus(ctx context.Context, address string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/bonus/claim", map[string]string{"walletAddress": address}, &out)
	return out, err
}

type Record struct {
	Type      string          `json:"type"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    json.Number     `json:"amount"`
	Currency  string          `json:"currency"`
	TxHash    string          `json:"txHash"`
	Network   string          `json:"network"`
	Status    string          `json:"status"`
	Timestamp json.RawMessage `json:"timestamp"`
}

func (c *Client) History(ctx context.Context, address string) ([]*Record, error) {
	var out struct {
		Transactions []*Record `json:"transactions"`
	}

	err := c.do(ctx, http.MethodGet, "/wallet/"+address+"/transactions", nil, &out)
	return out.Transactions, err
}
