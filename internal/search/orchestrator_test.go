package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prophunter_backend/internal/model"
)

type stubProvider struct {
	body []byte
	err  error
	got  Request
	wait time.Duration
}

func (s *stubProvider) Generate(ctx context.Context, req Request) ([]byte, error) {
	s.got = req
	if s.wait > 0 {
		select {
		case <-time.After(s.wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.body, s.err
}

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestOrchestrator(t *testing.T, p Provider, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	o, err := NewOrchestrator(p, opts...)
	require.NoError(t, err)
	return o
}

func candidate(id, url string) map[string]any {
	return map[string]any{
		"id":              id,
		"title":           "Apartamento " + id,
		"price":           320000,
		"location":        "São Paulo",
		"sellerType":      "OWNER",
		"operationType":   "SALE",
		"confidenceScore": 80,
		"platform":        "OLX",
		"url":             url,
		"phone":           nil,
		"features":        []string{"varanda"},
	}
}

func encode(t *testing.T, items ...map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return b
}

func filters() model.FilterState {
	return model.FilterState{City: "São Paulo", OperationType: model.OperationFilterBoth, PropertyType: model.PropertyTypeAny}
}

func TestSearchDropsSearchPageURLs(t *testing.T) {
	body := encode(t,
		candidate("1", "https://sp.olx.com.br/imoveis/apartamento-111"),
		candidate("2", "https://www.zapimoveis.com.br/imovel/venda-apartamento-id-222/"),
		candidate("3", "https://www.vivareal.com.br/imovel/333/"),
		candidate("4", "https://www.vivareal.com.br/venda/sp/?page=1&filter=x"),
		candidate("5", "https://sp.olx.com.br/imoveis?o=2&filter=x"),
	)
	o := newTestOrchestrator(t, &stubProvider{body: body})

	got, err := o.Search(context.Background(), filters())
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i, l := range got {
		assert.Equal(t, fmt.Sprint(i+1), l.ID)
		assert.Equal(t, fixedNow, l.ScrapedAt)
		assert.False(t, l.ScrapedAt.IsZero())
		assert.False(t, l.InPipeline())
	}
}

func TestAdmitURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://imovel.mercadolivre.com.br/MLB-1234567890", true},
		{"https://www.olx.com.br/imoveis/estado-sp?q=apartamento", false},
		{"https://www.dfimoveis.com.br/BUSCA/venda", false},
		{"https://www.wimoveis.com.br/pesquisa-imoveis", false},
		{"https://example.com/imovel/1?a=1&b=2", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AdmitURL(tt.url), tt.url)
	}
}

func TestSearchDropsNonConformingCandidates(t *testing.T) {
	missingURL := candidate("a", "")
	delete(missingURL, "url")
	badSeller := candidate("b", "https://www.vivareal.com.br/imovel/2/")
	badSeller["sellerType"] = "AGENCY"
	stringPrice := candidate("c", "https://www.vivareal.com.br/imovel/3/")
	stringPrice["price"] = "R$ 300 mil"
	dup := candidate("d", "https://www.vivareal.com.br/imovel/4/")
	dup2 := candidate("d", "https://www.vivareal.com.br/imovel/5/")
	highScore := candidate("e", "https://www.vivareal.com.br/imovel/6/")
	highScore["confidenceScore"] = 180

	o := newTestOrchestrator(t, &stubProvider{body: encode(t, missingURL, badSeller, stringPrice, dup, dup2, highScore)})

	got, err := o.Search(context.Background(), filters())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d", got[0].ID)
	assert.Equal(t, "https://www.vivareal.com.br/imovel/4/", got[0].URL)
	assert.Equal(t, "e", got[1].ID)
	assert.Equal(t, 100.0, got[1].ConfidenceScore)
}

func TestSearchIgnoresProviderStatus(t *testing.T) {
	c := candidate("1", "https://www.vivareal.com.br/imovel/1/")
	c["status"] = "CLOSED"
	c["scrapedAt"] = "2001-01-01T00:00:00Z"
	o := newTestOrchestrator(t, &stubProvider{body: encode(t, c)})

	got, err := o.Search(context.Background(), filters())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.LeadStatusUnassigned, got[0].Status)
	assert.Equal(t, fixedNow, got[0].ScrapedAt)
}

func TestSearchEmptyResults(t *testing.T) {
	for _, body := range []string{"[]", "", "null", "```json\n[]\n```"} {
		o := newTestOrchestrator(t, &stubProvider{body: []byte(body)})
		got, err := o.Search(context.Background(), filters())
		require.NoError(t, err, body)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestSearchAcceptsFencedJSON(t *testing.T) {
	body := "```json\n" + string(encode(t, candidate("1", "https://www.vivareal.com.br/imovel/1/"))) + "\n```"
	o := newTestOrchestrator(t, &stubProvider{body: []byte(body)})

	got, err := o.Search(context.Background(), filters())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchFailures(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		o := newTestOrchestrator(t, &stubProvider{err: errors.New("503 unavailable")})
		got, err := o.Search(context.Background(), filters())
		assert.ErrorIs(t, err, ErrSearchFailed)
		assert.Empty(t, got)
	})

	t.Run("malformed payload", func(t *testing.T) {
		o := newTestOrchestrator(t, &stubProvider{body: []byte(`{"listings": 3}`)})
		got, err := o.Search(context.Background(), filters())
		assert.ErrorIs(t, err, ErrSearchFailed)
		assert.Empty(t, got)
	})

	t.Run("timeout", func(t *testing.T) {
		p := &stubProvider{wait: time.Second}
		o := newTestOrchestrator(t, p, WithTimeout(20*time.Millisecond))
		_, err := o.Search(context.Background(), filters())
		assert.ErrorIs(t, err, ErrSearchFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSearchRejectsInvalidFilters(t *testing.T) {
	p := &stubProvider{body: []byte("[]")}
	o := newTestOrchestrator(t, p)

	_, err := o.Search(context.Background(), model.FilterState{})
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
	assert.Empty(t, p.got.Prompt)
}

func TestBuildRequest(t *testing.T) {
	req := BuildRequest(model.FilterState{
		City:          "Brasília",
		PropertyType:  model.PropertyTypeApartment,
		OperationType: model.OperationFilterRent,
		MaxPrice:      "4000",
		Keywords:      "piscina,varanda",
	}, 0)

	assert.True(t, req.LiveSearch)
	assert.Equal(t, 20, req.MaxResults)
	assert.Contains(t, req.Prompt, "City: Brasília")
	assert.Contains(t, req.Prompt, "Neighborhood: Any")
	assert.Contains(t, req.Prompt, "Type: Apartment (Search Term: Apartamento)")
	assert.Contains(t, req.Prompt, "Operation: RENT")
	assert.Contains(t, req.Prompt, "Price Range: 0 - 4000")
	assert.Contains(t, req.Prompt, "Keywords: piscina, varanda")
	assert.True(t, strings.Contains(req.SystemInstruction, "?q="))

	both := BuildRequest(model.FilterState{City: "Recife", PropertyType: model.PropertyTypeAny, OperationType: model.OperationFilterBoth}, 5)
	assert.Contains(t, both.Prompt, "Type: Any Property Type (Search Term: Imóvel)")
	assert.Contains(t, both.Prompt, "Operation: Sale or Rent")
	assert.Contains(t, both.Prompt, "Price Range: 0 - Unlimited")
}

func TestSearchTerm(t *testing.T) {
	assert.Equal(t, "Casa", SearchTerm(model.PropertyTypeHouse))
	assert.Equal(t, "Terreno", SearchTerm(model.PropertyTypeLand))
	assert.Equal(t, "Comercial", SearchTerm(model.PropertyTypeCommercial))
	assert.Equal(t, "Imóvel", SearchTerm(model.PropertyTypeAny))
	assert.Equal(t, "Chácara", SearchTerm("Chácara"))
}
