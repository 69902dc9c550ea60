// Package gemini is the search.Provider backed by the Gemini API with Google
// Search grounding.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"prophunter_backend/internal/search"
)

const DefaultModel = "gemini-3-flash-preview"

var ErrEmptyResponse = errors.New("gemini returned no text")

type Provider struct {
	client *genai.Client
	model  string
}

func NewProvider(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Provider{client: client, model: model}, nil
}

func (p *Provider) Generate(ctx context.Context, req search.Request) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    listingArraySchema(),
	}
	if req.LiveSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return []byte(text), nil
}

// listingArraySchema is the response contract sent to the model. The answer
// is still validated locally.
func listingArraySchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	num := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: desc}
	}
	enum := func(values ...string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Enum: values}
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":              str(""),
				"title":           str(""),
				"price":           num(""),
				"currency":        str(""),
				"location":        str(""),
				"neighborhood":    str(""),
				"description":     str(""),
				"sellerType":      enum("OWNER", "BROKER"),
				"operationType":   enum("SALE", "RENT"),
				"sellerName":      str("Name of the seller or owner if available"),
				"platform":        enum("OLX", "Zap", "VivaReal", "MercadoLivre", "Other"),
				"url":             str("Direct URL of the ad found in search, must be a deep link"),
				"phone":           str("Phone number if shown in the snippet"),
				"confidenceScore": num("Likelihood 0-100 that the advertiser is the owner"),
				"features": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"id", "title", "price", "location", "sellerType", "operationType", "confidenceScore", "platform", "url"},
		},
	}
}
