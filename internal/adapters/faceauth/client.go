// Package faceauth verifies voters against their reference face image using the
// external face comparison service.
package faceauth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const DefaultThreshold = 0.5

type Client struct {
	baseURL    string
	threshold  float64
	images     ports.ReferenceImageStore
	httpClient *http.Client
}

var _ ports.IdentityVerifier = (*Client)(nil)

func NewClient(baseURL string, threshold float64, images ports.ReferenceImageStore) *Client {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		threshold:  threshold,
		images:     images,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type compareRequest struct {
	Image1 string `json:"image1"`
	Image2 string `json:"image2"`
}

type compareResponse struct {
	SimilarityIndex *float64 `json:"similarity_index"`
	Error           string   `json:"error"`
}

// VerifyIdentity reports whether image shows the same face as the citizen's
// reference image. Any failure to compare is returned as an error.
func (c *Client) VerifyIdentity(ctx context.Context, citizenID uuid.UUID, image []byte) (bool, error) {
	reference, err := c.images.Load(ctx, citizenID)
	if err != nil {
		return false, fmt.Errorf("load reference image: %w", err)
	}

	payload, err := json.Marshal(compareRequest{
		Image1: base64.StdEncoding.EncodeToString(reference),
		Image2: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return false, fmt.Errorf("encode comparison request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/authenticate", bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("call face service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("read face service response: %w", err)
	}

	var result compareResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("decode face service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("face service returned %d: %s", resp.StatusCode, result.Error)
	}
	if result.SimilarityIndex == nil {
		return false, fmt.Errorf("face service response has no similarity index")
	}

	return *result.SimilarityIndex > c.threshold, nil
}
