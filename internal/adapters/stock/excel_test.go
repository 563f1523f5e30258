package stock_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zhilovhub/EasyShop/internal/adapters/stock"
	"github.com/zhilovhub/EasyShop/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestProductsExportParseRoundTrip(t *testing.T) {
	products := []domain.Product{
		{
			ID: 1, Name: "Mug", Description: "Ceramic", Price: 100,
			Count:      intPtr(5),
			Categories: []int64{10, 20},
			Pictures:   []string{"mug.png"},
		},
		{
			ID: 2, Name: "Shirt", Price: 50,
			ExtraOptions: []domain.OptionGroup{{
				Name:          "Size",
				Kind:          domain.OptionKindPricedBlock,
				Variants:      []string{"S", "L"},
				VariantPrices: []float64{50, 70},
				Selected:      []bool{false, false},
			}},
		},
	}

	f, err := stock.ExportProducts(products)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := stock.ParseProducts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, products[0].ID, got[0].ID)
	assert.Equal(t, "Mug", got[0].Name)
	assert.Equal(t, "Ceramic", got[0].Description)
	assert.Equal(t, 100.0, got[0].Price)
	require.NotNil(t, got[0].Count)
	assert.Equal(t, 5, *got[0].Count)
	assert.Equal(t, []int64{10, 20}, got[0].Categories)
	assert.Equal(t, []string{"mug.png"}, got[0].Pictures)

	require.Len(t, got[1].ExtraOptions, 1)
	assert.Equal(t, products[1].ExtraOptions[0], got[1].ExtraOptions[0])
	assert.Nil(t, got[1].Count, "uncapped stock survives the round trip")
}

func TestParseProductsSkipsNamelessRows(t *testing.T) {
	f, err := stock.ExportProducts([]domain.Product{
		{ID: 1, Name: "Mug", Price: 100},
		{ID: 2, Name: "", Price: 1},
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := stock.ParseProducts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mug", got[0].Name)
}

func TestParseProductsRejectsBadNumericCell(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Products")
	require.NoError(t, f.SetCellValue("Products", "A1", "ID"))
	require.NoError(t, f.SetCellValue("Products", "A2", "1"))
	require.NoError(t, f.SetCellValue("Products", "B2", "Mug"))
	require.NoError(t, f.SetCellValue("Products", "D2", "not-a-price"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := stock.ParseProducts(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")
}

func TestParseProductsFallsBackToFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "Poster"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := stock.ParseProducts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Poster", got[0].Name)
}

func TestExportOrders(t *testing.T) {
	orders := []domain.Order{{
		ID:        uuid.New(),
		Status:    domain.OrderStatusInvoiceIssued,
		FromUser:  42,
		Total:     270,
		OrderedAt: time.Date(2024, 5, 2, 12, 30, 0, 0, time.UTC),
		Options:   map[string]string{"12": "ring twice", "11": "Elm St 5"},
		Items: []domain.OrderItem{{
			Name: "Shirt", Qty: 1,
			ChosenOptions: []domain.ChosenOption{{Name: "Size", SelectedVariant: "L"}},
		}},
	}}

	f, err := stock.ExportOrders(orders)
	require.NoError(t, err)
	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, orders[0].ID.String(), rows[1][0])
	assert.Equal(t, "invoice_issued", rows[1][1])
	assert.Equal(t, "Shirt x1 [Size: L]", rows[1][5])
	// option values come out sorted by field id, independent of map order
	assert.Equal(t, "11=Elm St 5; 12=ring twice", rows[1][6])
}
