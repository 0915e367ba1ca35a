// Package scout asks a grounded generative model to name a real-world mission
// target. Every failure degrades to a fixed local target.
package scout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Location is the mission target shown to the player.
type Location struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	MapURI      string `json:"mapUri,omitempty"`
	Description string `json:"description,omitempty"`
}

// Fallback is returned whenever the lookup cannot complete.
var Fallback = Location{
	Name:        "Local Bank",
	Address:     "Downtown",
	MapURI:      "",
	Description: "Connection to satellite failed. Running local simulation.",
}

const (
	unknownName        = "Unknown Location"
	unknownAddress     = "Unknown Address"
	defaultDescription = "A high value target identified by the network."
)

// Scout calls the generateContent endpoint with the maps grounding tool.
type Scout struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL, model, apiKey string, timeout time.Duration, logger *slog.Logger) *Scout {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scout{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type tool struct {
	GoogleMaps *struct{} `json:"googleMaps,omitempty"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type groundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type groundingChunk struct {
	Maps *groundingSource `json:"maps,omitempty"`
	Web  *groundingSource `json:"web,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content           content `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []groundingChunk `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// Locate never fails: any error is logged and Fallback returned.
func (s *Scout) Locate(ctx context.Context, query string) Location {
	loc, err := s.lookup(ctx, query)
	if err != nil {
		s.logger.Warn("scout lookup failed, using local target", "query", query, "error", err)
		return Fallback
	}
	s.logger.Info("mission target located", "name", loc.Name, "map_uri", loc.MapURI)
	return loc
}

func (s *Scout) lookup(ctx context.Context, query string) (Location, error) {
	if s.apiKey == "" {
		return Location{}, fmt.Errorf("scout: no api key configured")
	}

	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt(query)}}}},
		Tools:    []tool{{GoogleMaps: &struct{}{}}},
	})
	if err != nil {
		return Location{}, fmt.Errorf("scout: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, url.PathEscape(s.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return Location{}, fmt.Errorf("scout: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("scout: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Location{}, fmt.Errorf("scout: status %d: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("scout: decode response: %w", err)
	}
	return result.location(), nil
}

func prompt(query string) string {
	return fmt.Sprintf("Find a real-world location matching this request for a fictional heist game: %q.\n"+
		"If the user asks for a city, find a famous bank, museum, or jewelry store there.\n"+
		"Return a short description of why this is a good target.", query)
}

// location extracts the target from the first candidate. The first grounding
// chunk with a URI (maps or web) names the target, else the first chunk.
func (r generateResponse) location() Location {
	loc := Location{Name: unknownName, Address: unknownAddress}
	if len(r.Candidates) == 0 {
		loc.Description = defaultDescription
		return loc
	}
	c := r.Candidates[0]

	var text strings.Builder
	for _, p := range c.Content.Parts {
		text.WriteString(p.Text)
	}
	loc.Description = strings.TrimSpace(text.String())
	if loc.Description == "" {
		loc.Description = defaultDescription
	}

	if c.GroundingMetadata == nil || len(c.GroundingMetadata.GroundingChunks) == 0 {
		return loc
	}
	chunks := c.GroundingMetadata.GroundingChunks
	pick := chunks[0]
	for _, ch := range chunks {
		if (ch.Maps != nil && ch.Maps.URI != "") || (ch.Web != nil && ch.Web.URI != "") {
			pick = ch
			break
		}
	}
	switch {
	case pick.Maps != nil:
		loc.MapURI, loc.Name = pick.Maps.URI, pick.Maps.Title
	case pick.Web != nil:
		loc.MapURI, loc.Name = pick.Web.URI, pick.Web.Title
	}
	return loc
}
