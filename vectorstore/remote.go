package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// remoteStore delegates embedding and k-NN search to a configured HTTP
// service, structurally identical to the teacher's HTTP-based llm
// provider clients (llm/openai.go style): a base URL, an API key
// header, and a small set of JSON request/response shapes. name
// distinguishes remote-a from remote-b only for Stats() reporting —
// both speak the same minimal protocol, satisfying "two remote
// services" behind one contract.
type remoteStore struct {
	cfg    Config
	name   string
	client *http.Client
}

func newRemoteStore(cfg Config, name string) *remoteStore {
	return &remoteStore{cfg: cfg, name: name, client: &http.Client{Timeout: 30 * time.Second}}
}

func (r *remoteStore) Init(ctx context.Context) error {
	if r.cfg.BaseURL == "" {
		return fmt.Errorf("vectorstore: %s requires base_url", r.name)
	}
	return nil
}

type remoteUpsertRequest struct {
	Index     string     `json:"index"`
	Documents []Document `json:"documents"`
}

func (r *remoteStore) Upsert(ctx context.Context, docs []Document) error {
	body, err := json.Marshal(remoteUpsertRequest{Index: r.cfg.IndexName, Documents: docs})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/upsert", bytes.NewReader(body))
	if err != nil {
		return err
	}
	r.setHeaders(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("vectorstore: %s upsert: %w", r.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("vectorstore: %s upsert returned status %d", r.name, resp.StatusCode)
	}
	return nil
}

type remoteSearchRequest struct {
	Index string `json:"index"`
	Query string `json:"query"`
	K     int    `json:"k"`
}

type remoteSearchResponse struct {
	Results []ScoredDocument `json:"results"`
}

func (r *remoteStore) Search(ctx context.Context, queryText string, k int) ([]ScoredDocument, error) {
	body, err := json.Marshal(remoteSearchRequest{Index: r.cfg.IndexName, Query: queryText, K: k})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.setHeaders(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: %s search: %w", r.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("vectorstore: %s search returned status %d", r.name, resp.StatusCode)
	}
	var out remoteSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("vectorstore: %s decoding search response: %w", r.name, err)
	}
	return out.Results, nil
}

func (r *remoteStore) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, r.cfg.BaseURL+"/documents/"+id, nil)
	if err != nil {
		return err
	}
	r.setHeaders(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("vectorstore: %s delete: %w", r.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("vectorstore: %s delete returned status %d", r.name, resp.StatusCode)
	}
	return nil
}

func (r *remoteStore) Stats(ctx context.Context) (VectorStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/stats", nil)
	if err != nil {
		return VectorStats{}, err
	}
	r.setHeaders(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return VectorStats{}, fmt.Errorf("vectorstore: %s stats: %w", r.name, err)
	}
	defer resp.Body.Close()
	var stats VectorStats
	json.NewDecoder(resp.Body).Decode(&stats)
	stats.Backend = r.name
	return stats, nil
}

func (r *remoteStore) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}
}
