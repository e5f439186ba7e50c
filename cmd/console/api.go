package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// commandRequest mirrors the API command envelope.
type commandRequest struct {
	Type       string `json:"type"`
	MaterialID string `json:"material_id,omitempty"`
	SlotID     int    `json:"slot_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	Buyer      string `json:"buyer,omitempty"`
	ChoiceID   string `json:"choice_id,omitempty"`
	Track      string `json:"track,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func decodeSnapshot(resp *http.Response, wantStatus int) (*engine.Snapshot, error) {
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot response: %w", err)
	}
	return &snap, nil
}

func getCatalog(client *http.Client, baseURL string) (*catalog.Catalog, error) {
	resp, err := client.Get(baseURL + "/v1/catalog")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}
	return &cat, nil
}

func createSession(client *http.Client, baseURL string) (*engine.Snapshot, error) {
	resp, err := client.Post(baseURL+"/v1/sessions", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return decodeSnapshot(resp, http.StatusCreated)
}

func getSnapshot(client *http.Client, baseURL string, id uuid.UUID) (*engine.Snapshot, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return decodeSnapshot(resp, http.StatusOK)
}

func postCommand(client *http.Client, baseURL string, id uuid.UUID, cmd commandRequest) (*engine.Snapshot, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/commands", baseURL, id),
		"application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return decodeSnapshot(resp, http.StatusOK)
}
