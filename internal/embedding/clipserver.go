package embedding

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

	"github.com/rs/zerolog"
)

// Frames are sent to the sidecar in fixed-size batches. Purely a throughput
// knob, invisible to callers.
const defaultBatchSize = 16

// ClientOptions controls how the CLIP sidecar client is configured.
type ClientOptions struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
	BatchSize  int
}

// Client is an Engine backed by a CLIP inference sidecar over HTTP. The
// sidecar loads the model once at startup and serves unit-normalized vectors;
// this client holds no per-request state and may be shared across jobs.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
	batchSize  int
}

// NewClient validates options and constructs the sidecar client. Intended to
// be called once per process and handed to the pipeline explicitly.
func NewClient(opts ClientOptions) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("embedding: base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Client{
		baseURL:    baseURL,
		model:      opts.Model,
		httpClient: httpClient,
		logger:     opts.Logger.With().Str("component", "embedding").Logger(),
		batchSize:  batchSize,
	}, nil
}

type imageEmbedRequest struct {
	Model  string   `json:"model,omitempty"`
	Images []string `json:"images"`
}

type imageEmbedResponse struct {
	Embeddings []Vector `json:"embeddings"`
}

type textEmbedRequest struct {
	Model string `json:"model,omitempty"`
	Text  string `json:"text"`
}

type textEmbedResponse struct {
	Embedding Vector `json:"embedding"`
}

// EmbedFrames encodes frames as base64 JPEG and fetches vectors in batches.
func (c *Client) EmbedFrames(ctx context.Context, frames [][]byte) ([]Vector, error) {
	out := make([]Vector, 0, len(frames))
	for start := 0; start < len(frames); start += c.batchSize {
		end := start + c.batchSize
		if end > len(frames) {
			end = len(frames)
		}

		images := make([]string, 0, end-start)
		for _, frame := range frames[start:end] {
			images = append(images, base64.StdEncoding.EncodeToString(frame))
		}

		var resp imageEmbedResponse
		if err := c.post(ctx, "/v1/embeddings/image", imageEmbedRequest{Model: c.model, Images: images}, &resp); err != nil {
			return nil, fmt.Errorf("embed frames [%d:%d]: %w", start, end, err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("embed frames: got %d vectors for %d images", len(resp.Embeddings), end-start)
		}
		out = append(out, resp.Embeddings...)

		c.logger.Debug().Int("batch", end-start).Int("total", len(out)).Msg("frame batch embedded")
	}
	return out, nil
}

// EmbedText fetches the vector for one text query.
func (c *Client) EmbedText(ctx context.Context, text string) (Vector, error) {
	var resp textEmbedResponse
	if err := c.post(ctx, "/v1/embeddings/text", textEmbedRequest{Model: c.model, Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("embed text: empty vector in response")
	}
	return resp.Embedding, nil
}

func (c *Client) post(ctx context.Context, path string, payload, into any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sidecar status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ Engine = (*Client)(nil)
