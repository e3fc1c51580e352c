// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig holds connection settings for the hosted content API.
// TokenV2 and ActiveUser are optional; public workspaces need neither.
type ClientConfig struct {
	BaseURL    string
	TokenV2    string
	ActiveUser string
	ChunkLimit int
}

// Client implements the upstream content API collaborator over the
// undocumented v3 JSON endpoints (POST loadCachedPageChunk for whole
// documents, POST syncRecordValues for individually addressed blocks).
type Client struct {
	config ClientConfig
	client *http.Client
}

// NewClient creates an upstream API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.notion.so/api/v3"
	}
	if cfg.ChunkLimit <= 0 {
		cfg.ChunkLimit = 100
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetDocument fetches the raw record map of one document. The returned
// tables are in whatever wire generation the provider is currently
// serving; callers normalize before use.
func (c *Client) GetDocument(ctx context.Context, id string) (RawRecordMap, error) {
	body := loadPageChunkRequest{
		Page:            pagePointer{ID: ToUUID(id)},
		Limit:           c.config.ChunkLimit,
		Cursor:          chunkCursor{Stack: []any{}},
		ChunkNumber:     0,
		VerticalColumns: false,
	}

	var result recordMapResponse
	if err := c.post(ctx, "/loadCachedPageChunk", body, &result); err != nil {
		return nil, err
	}
	if result.RecordMap == nil {
		return nil, fmt.Errorf("notion: empty record map for %s", id)
	}
	return result.RecordMap, nil
}

// GetBlocks fetches individually addressed blocks in one call. Used by
// the orchestrator's batch retrieval for members the document chunk
// dropped.
func (c *Client) GetBlocks(ctx context.Context, ids []string) (RawRecordMap, error) {
	reqs := make([]syncRecordRequest, 0, len(ids))
	for _, id := range ids {
		reqs = append(reqs, syncRecordRequest{
			Pointer: recordPointer{Table: "block", ID: ToUUID(id)},
			Version: -1,
		})
	}

	var result recordMapResponse
	if err := c.post(ctx, "/syncRecordValues", syncRecordValuesRequest{Requests: reqs}, &result); err != nil {
		return nil, err
	}
	if result.RecordMap == nil {
		return nil, fmt.Errorf("notion: empty record map for block batch")
	}
	return result.RecordMap, nil
}

// post performs one JSON POST round trip against the content API.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("notion marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.TokenV2 != "" {
		req.Header.Set("Cookie", "token_v2="+c.config.TokenV2)
	}
	if c.config.ActiveUser != "" {
		req.Header.Set("x-notion-active-user-header", c.config.ActiveUser)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("notion read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notion API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("notion unmarshal: %w", err)
	}
	return nil
}

// --- v3 API request/response types ---

type pagePointer struct {
	ID string `json:"id"`
}

type chunkCursor struct {
	Stack []any `json:"stack"`
}

type loadPageChunkRequest struct {
	Page            pagePointer `json:"page"`
	Limit           int         `json:"limit"`
	Cursor          chunkCursor `json:"cursor"`
	ChunkNumber     int         `json:"chunkNumber"`
	VerticalColumns bool        `json:"verticalColumns"`
}

type recordPointer struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

type syncRecordRequest struct {
	Pointer recordPointer `json:"pointer"`
	Version int           `json:"version"`
}

type syncRecordValuesRequest struct {
	Requests []syncRecordRequest `json:"requests"`
}

type recordMapResponse struct {
	RecordMap RawRecordMap `json:"recordMap"`
}
