package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prophunter_backend/internal/model"
)

func TestCSVHeaderOnly(t *testing.T) {
	assert.Equal(t, "ID,Título,Operação,Preço,Localização,Tipo Vendedor,Confiança,Telefone,URL", CSV(nil))
}

func TestCSVRows(t *testing.T) {
	listings := []model.Listing{
		{
			ID:              "olx-1",
			Title:           `Casa "linda" com quintal`,
			OperationType:   model.OperationTypeRent,
			Price:           2500.5,
			Location:        "Asa Norte, Brasília",
			SellerType:      model.SellerTypeOwner,
			ConfidenceScore: 92,
			Phone:           "(61) 99999-0000",
			URL:             "https://df.olx.com.br/imoveis/casa-1",
		},
		{
			ID:              "zap-2",
			Title:           "Sala comercial",
			OperationType:   model.OperationTypeSale,
			Price:           1200000,
			Location:        "Centro",
			SellerType:      model.SellerTypeBroker,
			ConfidenceScore: 15,
			URL:             "https://www.zapimoveis.com.br/imovel/2/",
		},
	}

	lines := strings.Split(CSV(listings), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		`olx-1,"Casa ""linda"" com quintal",Aluguel,2500.5,"Asa Norte, Brasília",Proprietário,92,(61) 99999-0000,https://df.olx.com.br/imoveis/casa-1`,
		lines[1])
	assert.Equal(t,
		`zap-2,"Sala comercial",Venda,1200000,"Centro",Corretor,15,,https://www.zapimoveis.com.br/imovel/2/`,
		lines[2])
}

func TestCSVEnumLabels(t *testing.T) {
	out := CSV([]model.Listing{{ID: "1", OperationType: model.OperationTypeRent, SellerType: model.SellerTypeOwner}})

	assert.Contains(t, out, "Aluguel")
	assert.Contains(t, out, "Proprietário")
}
