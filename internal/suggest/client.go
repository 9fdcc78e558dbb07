// Package suggest asks a language model for project names that match a
// handful of keywords. Suggestions are advisory only; nothing here writes to
// the time sheet.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const anthropicVersion = "2023-06-01"

// Suggester turns work keywords into candidate project names.
type Suggester interface {
	Suggest(ctx context.Context, keywords string, known []string) ([]string, error)
}

// Config configures the Anthropic client.
type Config struct {
	Endpoint       string
	Model          string
	APIKey         string
	Timeout        time.Duration
	MaxSuggestions int
}

// Client implements Suggester using the Anthropic Messages API.
type Client struct {
	cfg  Config
	http *http.Client
	log  logrus.FieldLogger
}

// NewClient returns a client. It fails with ErrNoAPIKey when cfg.APIKey is empty.
func NewClient(cfg Config, log logrus.FieldLogger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 5
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		log: log,
	}, nil
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Suggest returns at most MaxSuggestions de-duplicated project names.
func (c *Client) Suggest(ctx context.Context, keywords string, known []string) ([]string, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, ErrNoKeywords
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := c.callAPI(ctx, buildPrompt(keywords, known, c.cfg.MaxSuggestions))
	if err != nil {
		c.log.WithError(err).WithField("latency_ms", time.Since(start).Milliseconds()).Warn("suggestion request failed")
		if ctx.Err() != nil {
			return nil, ErrTimeout
		}
		var netErr *net.OpError
		if errors.As(err, &netErr) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	projects, err := ParseSuggestions(text)
	if err != nil {
		return nil, err
	}
	if len(projects) > c.cfg.MaxSuggestions {
		projects = projects[:c.cfg.MaxSuggestions]
	}
	c.log.WithFields(logrus.Fields{
		"count":      len(projects),
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("suggestions received")
	return projects, nil
}

func buildPrompt(keywords string, known []string, max int) string {
	var sb strings.Builder

	sb.WriteString("You are a project suggestion assistant. Based on the provided keywords, suggest relevant project names.\n\n")
	sb.WriteString("Keywords: ")
	sb.WriteString(keywords)
	sb.WriteString("\n\n")

	if len(known) > 0 {
		sb.WriteString("Projects already used in this time sheet (prefer these when they fit):\n")
		for _, p := range known {
			sb.WriteString("- ")
			sb.WriteString(p)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Please provide a list of at most %d project names that are most relevant to the keywords.\n\n", max)
	sb.WriteString(`Return a JSON object with this structure:
{
  "suggestedProjects": ["Project name", "Another project"]
}

Return ONLY the JSON, no other text.`)

	return sb.String()
}

func (c *Client) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     c.cfg.Model,
		MaxTokens: 512,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	for _, block := range apiResp.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: empty response", ErrInvalidOutput)
}
