package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sangkips/pharmabill-api/internal/config"
	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/domain/repository"
	"github.com/sangkips/pharmabill-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
)

const (
	recommendationPath = "/admin/medicines/recommendation"
	// The backend route is spelled this way.
	medicineInfoPath = "/admin/medicne_info/"
	salesPath        = "/admin/sales"

	// IdempotencyHeader carries the key that lets the backend drop duplicate sales
	IdempotencyHeader = "Idempotency-Key"

	maxErrorBody = 64 << 10
)

// Provider builds backend clients for individual operators
type Provider struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// NewProvider creates a provider for the pharmacy backend at cfg.BaseURL
func NewProvider(cfg *config.BackendConfig) *Provider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Provider{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   timeout,
		transport: http.DefaultTransport,
	}
}

// ForToken returns a client that authenticates every request with the
// operator's bearer token.
func (p *Provider) ForToken(token string) repository.PharmacyBackend {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Client{
		baseURL: p.baseURL,
		http: &http.Client{
			Timeout:   p.timeout,
			Transport: &oauth2.Transport{Source: src, Base: p.transport},
		},
	}
}

// Client talks to the pharmacy backend on behalf of one operator
type Client struct {
	baseURL string
	http    *http.Client
}

type recommendationResponse struct {
	Status          interface{}                `json:"status"`
	Recommendations []entity.MedicineCandidate `json:"recommendations"`
}

// Recommend returns the medicines matching a partial name
func (c *Client) Recommend(ctx context.Context, query string) ([]entity.MedicineCandidate, error) {
	endpoint := c.baseURL + recommendationPath + "?" + url.Values{"query": {query}}.Encode()

	var resp recommendationResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Recommendations == nil {
		return []entity.MedicineCandidate{}, nil
	}
	return resp.Recommendations, nil
}

// medicineRecord is the backend medicine row. Numeric fields may arrive as
// numbers or numeric strings.
type medicineRecord struct {
	MedicineID    entity.MedicineID `json:"medicine_id"`
	ID            entity.MedicineID `json:"id"`
	MedicineName  string            `json:"medicine_name"`
	Name          string            `json:"name"`
	BatchNo       string            `json:"batch_no"`
	PurchasePrice decimal.Decimal   `json:"purchase_price"`
	StockQuantity json.Number       `json:"stock_quantity"`
	MRP           decimal.Decimal   `json:"mrp"`
}

// GetDetail returns the pricing and stock record of a medicine. The record may
// be the whole body or wrapped in a "medicine" or "data" field.
func (c *Client) GetDetail(ctx context.Context, id entity.MedicineID) (*entity.MedicineDetail, error) {
	endpoint := c.baseURL + medicineInfoPath + url.PathEscape(id.String())

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &raw); err != nil {
		return nil, err
	}

	rec, err := decodeMedicineRecord(raw)
	if err != nil {
		return nil, apperror.NewServerError(http.StatusOK, "Unreadable medicine record from pharmacy server")
	}

	stock, err := rec.StockQuantity.Int64()
	if rec.StockQuantity == "" {
		stock, err = 0, nil
	}
	if err != nil {
		return nil, apperror.NewServerError(http.StatusOK, "Invalid stock quantity in medicine record")
	}

	detail := &entity.MedicineDetail{
		MedicineID:    firstID(rec.MedicineID, rec.ID, id),
		MedicineName:  firstNonEmpty(rec.MedicineName, rec.Name),
		BatchNo:       rec.BatchNo,
		PurchasePrice: rec.PurchasePrice,
		StockQuantity: int(stock),
		MRP:           rec.MRP,
	}
	return detail, nil
}

func decodeMedicineRecord(raw json.RawMessage) (*medicineRecord, error) {
	var wrapped struct {
		Medicine json.RawMessage `json:"medicine"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	body := raw
	switch {
	case isObject(wrapped.Medicine):
		body = wrapped.Medicine
	case isObject(wrapped.Data):
		body = wrapped.Data
	}

	var rec medicineRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateSale posts a sale. The idempotency key is sent as a header so a retried
// request can be recognised by the backend.
func (c *Client) CreateSale(ctx context.Context, sale *entity.SalePayload, idempotencyKey string) (*entity.SaleResult, error) {
	body, err := json.Marshal(sale)
	if err != nil {
		return nil, fmt.Errorf("marshaling sale: %w", err)
	}

	headers := http.Header{}
	if idempotencyKey != "" {
		headers.Set(IdempotencyHeader, idempotencyKey)
	}

	var result entity.SaleResult
	if err := c.do(ctx, http.MethodPost, c.baseURL+salesPath, body, headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one request and decodes a 2xx JSON body into out.
// Transport failures map to ErrNetwork, 404 to a not found error and every
// other non-2xx reply to a server error carrying the backend's message.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, headers http.Header, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		log.Printf("backend: %s %s failed: %v", method, req.URL.Path, err)
		return apperror.ErrNetwork
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body)
		log.Printf("backend: %s %s returned %d: %s", method, req.URL.Path, resp.StatusCode, msg)
		if resp.StatusCode == http.StatusNotFound {
			if msg == "" {
				msg = "Medicine not found"
			}
			return apperror.ErrNotFound.Withf("%s", msg)
		}
		return apperror.NewServerError(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.NewServerError(resp.StatusCode, "Unreadable response from pharmacy server")
	}
	return nil
}

// errorMessage pulls "message" or "error" out of a JSON error body, falling
// back to the trimmed raw text.
func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if m := firstNonEmpty(body.Message, body.Error); m != "" {
			return m
		}
	}
	return strings.TrimSpace(string(data))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstID(ids ...entity.MedicineID) entity.MedicineID {
	for _, id := range ids {
		if !id.IsZero() {
			return id
		}
	}
	return ""
}
