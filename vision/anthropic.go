package vision

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

	"pantry-monitor/utils"
)

const defaultEndpoint = "https://api.anthropic.com/v1/messages"

const comparisonPrompt = `Compare these two pantry images and identify changes.

Structure your answer with these exact section headers:

ITEMS ADDED:
ITEMS REMOVED:
QUANTITY CHANGED:

Under each header, list one item per line starting with a dash (-).
Give a SHORT description with brand name and product type.
If a section has no changes, write "none".
Do not include furniture or background objects.`

const inventoryPrompt = `Analyze this pantry/storage image and list ALL visible food items, beverages, and household products.

For each item, provide a SHORT description with brand name and product type.
Format: "Brand Name Product Type" (e.g., "Kellogg's Froot Loops", "Poland Spring water bottle", "Germ-X hand sanitizer")

List each item on a separate line starting with a dash (-).
Only list items you can clearly identify. Do not include furniture or background objects.`

// AnthropicClient calls the Anthropic Messages API for image analysis.
type AnthropicClient struct {
	apiKey     string
	model      string
	maxTokens  int
	inputRate  float64 // $ per million input tokens
	outputRate float64 // $ per million output tokens
	endpoint   string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewAnthropicClient creates an AnthropicClient with the given model
// and per-million-token pricing.
func NewAnthropicClient(apiKey, model string, maxTokens int, inputRate, outputRate float64, logger *utils.Logger) *AnthropicClient {
	return &AnthropicClient{
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		inputRate:  inputRate,
		outputRate: outputRate,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

// SetEndpoint overrides the API endpoint. Used in tests.
func (c *AnthropicClient) SetEndpoint(url string) {
	c.endpoint = url
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func imageBlock(jpeg []byte) contentBlock {
	return contentBlock{
		Type: "image",
		Source: &imageSource{
			Type:      "base64",
			MediaType: "image/jpeg",
			Data:      base64.StdEncoding.EncodeToString(jpeg),
		},
	}
}

// CompareFrames sends both frames with the comparison prompt and
// returns the analysis text with usage accounting.
func (c *AnthropicClient) CompareFrames(ctx context.Context, previous, current []byte) (*Result, error) {
	blocks := []contentBlock{
		{Type: "text", Text: "IMAGE 1 - YESTERDAY:"},
		imageBlock(previous),
		{Type: "text", Text: "IMAGE 2 - TODAY:"},
		imageBlock(current),
		{Type: "text", Text: comparisonPrompt},
	}
	return c.send(ctx, blocks)
}

// InitialInventory lists all visible items in a single frame.
func (c *AnthropicClient) InitialInventory(ctx context.Context, frame []byte) ([]string, *Result, error) {
	blocks := []contentBlock{
		imageBlock(frame),
		{Type: "text", Text: inventoryPrompt},
	}
	res, err := c.send(ctx, blocks)
	if err != nil {
		return nil, nil, err
	}

	var items []string
	for _, line := range strings.Split(res.Analysis, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			if item := strings.TrimSpace(strings.TrimLeft(line, "- ")); item != "" {
				items = append(items, item)
			}
		}
	}
	return items, res, nil
}

func (c *AnthropicClient) send(ctx context.Context, blocks []contentBlock) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("vision: ANTHROPIC_API_KEY is not set")
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: blocks}},
	})
	if err != nil {
		return nil, fmt.Errorf("vision: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vision: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: call API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vision: read response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("vision: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("vision: API error %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		return nil, fmt.Errorf("vision: API returned %s", resp.Status)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("vision: response has no content blocks")
	}

	usage := Usage{
		InputTokens:  parsed.Usage.InputTokens,
		OutputTokens: parsed.Usage.OutputTokens,
	}
	usage.CostUSD = float64(usage.InputTokens)/1_000_000*c.inputRate +
		float64(usage.OutputTokens)/1_000_000*c.outputRate

	c.logger.Debug("[vision] %d input tokens, %d output tokens, $%.6f",
		usage.InputTokens, usage.OutputTokens, usage.CostUSD)

	return &Result{Analysis: parsed.Content[0].Text, Usage: usage}, nil
}
