package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type classifyRequest struct {
	Caption  string `json:"caption"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

type classifyResponse struct {
	Safe bool `json:"safe"`
}

// Classifier calls the external content-safety service. It is strictly
// best effort: callers must treat any error as "no verdict" and leave
// the post for human review.
type Classifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClassifier(baseURL, apiKey string) *Classifier {
	return &Classifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a classifier endpoint is configured.
func (cl *Classifier) Enabled() bool {
	return cl.baseURL != ""
}

func (cl *Classifier) Classify(caption, mediaURL string) (bool, error) {
	if cl.baseURL == "" {
		return false, fmt.Errorf("MODERATION_API_URL is not configured")
	}

	body, err := json.Marshal(classifyRequest{Caption: caption, MediaURL: mediaURL})
	if err != nil {
		return false, fmt.Errorf("error encoding classify request: %v", err)
	}

	req, err := http.NewRequest("POST", cl.baseURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cl.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+cl.apiKey)
	}

	resp, err := cl.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("error calling the classifier: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("classifier error: status=%d, body=%s", resp.StatusCode, string(raw))
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("error decoding classifier response: %v", err)
	}

	return result.Safe, nil
}
