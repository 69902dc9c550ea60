package search

import (
	"fmt"
	"strings"

	"prophunter_backend/internal/model"
)

// Request is what a Provider receives for one search.
type Request struct {
	SystemInstruction string
	Prompt            string
	// LiveSearch asks the provider to ground its answer on live web search.
	LiveSearch bool
	// MaxResults is the number of listings the prompt asks for.
	MaxResults int
}

const defaultMaxResults = 20

const systemInstruction = `You are a real estate lead research agent working on Brazilian portals
(OLX, Zap, VivaReal, MercadoLivre, DFImoveis, WImoveis).

URL rules:
1. Never return a search result, listing or category page. URLs containing
   "?q=", "busca", "pesquisa" or query strings joined with "&" are invalid.
   Bad: https://www.olx.com.br/imoveis/estado-sp?q=apartamento
   Bad: https://www.vivareal.com.br/venda/sp/sao-paulo/
2. Return only pages for one specific property, usually ending in an ID.
   Good: https://df.olx.com.br/distrito-federal-e-regiao/imoveis/apartamento-reformado-123456789
   Good: https://www.zapimoveis.com.br/imovel/venda-apartamento-id-2658974521/
   Good: https://www.vivareal.com.br/imovel/1234567890/
   Good: https://imovel.mercadolivre.com.br/MLB-1234567890
3. Use only URLs that appear in the search results. Do not build or guess URLs.
4. Skip ads marked "Vendido", "Alugado" or "Indisponível". Prefer recent ads.
5. Extract contact names and phone numbers shown in the title or snippet
   ("Tratar com ...", "Tel: ...", "Zap: ...").

Classify every ad as sellerType OWNER or BROKER from its wording and give
confidenceScore (0-100) for it being an owner. If no direct links are found,
return fewer results or an empty array.`

// BuildRequest turns validated filters into the provider request.
func BuildRequest(f model.FilterState, maxResults int) Request {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	term := SearchTerm(f.PropertyType)

	neighborhood := f.Neighborhood
	if neighborhood == "" {
		neighborhood = "Any"
	}
	minPrice := strings.TrimSpace(f.MinPrice)
	if minPrice == "" {
		minPrice = "0"
	}
	maxPrice := strings.TrimSpace(f.MaxPrice)
	if maxPrice == "" {
		maxPrice = "Unlimited"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Find %d specific real estate listing URLs (deep links) for:\n", maxResults)
	fmt.Fprintf(&b, "City: %s\n", f.City)
	fmt.Fprintf(&b, "Neighborhood: %s\n", neighborhood)
	fmt.Fprintf(&b, "Type: %s (Search Term: %s)\n", displayType(f.PropertyType), term)
	fmt.Fprintf(&b, "Operation: %s\n", displayOperation(f.OperationType))
	fmt.Fprintf(&b, "Price Range: %s - %s\n", minPrice, maxPrice)
	fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(f.KeywordList(), ", "))

	b.WriteString("Run these queries:\n")
	fmt.Fprintf(&b, "1. site:olx.com.br/imoveis %q %q -list -busca\n", f.City, term)
	fmt.Fprintf(&b, "2. site:vivareal.com.br/imovel %q %q\n", f.City, term)
	fmt.Fprintf(&b, "3. site:zapimoveis.com.br/imovel %q %q\n", f.City, term)
	fmt.Fprintf(&b, "4. %q %q \"direto com proprietário\" site:mercadolivre.com.br\n\n", term, f.City)

	b.WriteString("For each result check that the URL is an item page, extract owner name and phone when present, " +
		"and discard anything that looks like a search query (?q=, &filter=).")

	return Request{
		SystemInstruction: systemInstruction,
		Prompt:            b.String(),
		LiveSearch:        true,
		MaxResults:        maxResults,
	}
}
