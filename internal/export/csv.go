// Package export formats listings as the CSV sheet offered for download.
package export

import (
	"strconv"
	"strings"

	"prophunter_backend/internal/model"
)

const (
	FileName    = "leads_imoveis_prophunter.csv"
	ContentType = "text/csv"
)

var header = []string{"ID", "Título", "Operação", "Preço", "Localização", "Tipo Vendedor", "Confiança", "Telefone", "URL"}

// CSV renders listings with a fixed header. Title and location are quoted
// with embedded quotes doubled; other fields are written as is.
func CSV(listings []model.Listing) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, l := range listings {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row(l), ","))
	}
	return b.String()
}

func row(l model.Listing) []string {
	return []string{
		l.ID,
		quote(l.Title),
		OperationLabel(l.OperationType),
		formatNumber(l.Price),
		quote(l.Location),
		SellerLabel(l.SellerType),
		formatNumber(l.ConfidenceScore),
		l.Phone,
		l.URL,
	}
}

func OperationLabel(o model.OperationType) string {
	if o == model.OperationTypeRent {
		return "Aluguel"
	}
	return "Venda"
}

func SellerLabel(s model.SellerType) string {
	if s == model.SellerTypeOwner {
		return "Proprietário"
	}
	return "Corretor"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
