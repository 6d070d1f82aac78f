package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/storefront/internal/store"
)

// HTTPBin mirrors the snapshot document to a hosted JSON-bin style endpoint:
// GET {base}/b/{id}/latest to fetch, PUT {base}/b/{id} to replace, both
// authenticated with a static master key header. Last writer wins.
type HTTPBin struct {
	baseURL   string
	binID     string
	masterKey string
	client    *http.Client
}

func NewHTTPBin(baseURL, binID, masterKey string) *HTTPBin {
	return &HTTPBin{
		baseURL:   baseURL,
		binID:     binID,
		masterKey: masterKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *HTTPBin) Fetch(ctx context.Context) (*store.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/b/"+h.binID+"/latest", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Master-Key", h.masterKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote fetch: unexpected status %d", resp.StatusCode)
	}

	// The bin service wraps the document in a {"record": ...} envelope.
	var envelope struct {
		Record store.Document `json:"record"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("remote fetch: decode: %w", err)
	}
	return &envelope.Record, nil
}

func (h *HTTPBin) Replace(ctx context.Context, doc *store.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, h.baseURL+"/b/"+h.binID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", h.masterKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote replace: unexpected status %d", resp.StatusCode)
	}
	return nil
}
