// Package stock builds and parses the admin product/order spreadsheets.
package stock

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zhilovhub/EasyShop/internal/domain"
)

const productSheet = "Products"

var productHeader = []string{"ID", "Name", "Description", "Price", "Count", "Categories", "Pictures", "Options"}

// ExportProducts renders the catalog into a product sheet. Option groups are
// serialized as a JSON column so a round trip through import loses nothing.
func ExportProducts(products []domain.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", productSheet)
	for i, h := range productHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(productSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for row, p := range products {
		count := ""
		if p.Count != nil {
			count = strconv.Itoa(*p.Count)
		}
		opts := ""
		if len(p.ExtraOptions) > 0 {
			buf, err := json.Marshal(p.ExtraOptions)
			if err != nil {
				return nil, err
			}
			opts = string(buf)
		}
		values := []any{
			p.ID, p.Name, p.Description, p.Price, count,
			joinInt64(p.Categories), strings.Join(p.Pictures, ","), opts,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(productSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// ParseProducts reads a product sheet back into catalog entries. Rows with
// an empty name are skipped; a malformed numeric cell fails the whole import
// so a partial sheet is never pushed upstream.
func ParseProducts(r io.Reader) ([]domain.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := productSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("sheet %q not found", productSheet)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	products := []domain.Product{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		name := cellAt(row, 1)
		if name == "" {
			continue
		}
		p := domain.Product{Name: name, Description: cellAt(row, 2)}
		if raw := cellAt(row, 0); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad id %q", i+1, raw)
			}
			p.ID = id
		}
		if raw := cellAt(row, 3); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad price %q", i+1, raw)
			}
			p.Price = price
		}
		if raw := cellAt(row, 4); raw != "" {
			count, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad count %q", i+1, raw)
			}
			p.Count = &count
		}
		if raw := cellAt(row, 5); raw != "" {
			cats, err := splitInt64(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad categories %q", i+1, raw)
			}
			p.Categories = cats
		}
		if raw := cellAt(row, 6); raw != "" {
			p.Pictures = strings.Split(raw, ",")
		}
		if raw := cellAt(row, 7); raw != "" {
			if err := json.Unmarshal([]byte(raw), &p.ExtraOptions); err != nil {
				return nil, fmt.Errorf("row %d: bad options: %w", i+1, err)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

// ExportOrders renders the locally recorded orders for the admin download.
func ExportOrders(orders []domain.Order) (*excelize.File, error) {
	const sheet = "Orders"
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)
	header := []string{"ID", "Status", "From user", "Total", "Ordered at", "Items", "Options"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for row, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			line := fmt.Sprintf("%s x%d", it.Name, it.Qty)
			for _, ch := range it.ChosenOptions {
				line += fmt.Sprintf(" [%s: %s]", ch.Name, ch.SelectedVariant)
			}
			items = append(items, line)
		}
		opts := make([]string, 0, len(o.Options))
		for k, v := range o.Options {
			opts = append(opts, k+"="+v)
		}
		sort.Strings(opts)
		values := []any{
			o.ID.String(), string(o.Status), o.FromUser, o.Total,
			o.OrderedAt.Format("2006-01-02 15:04:05"),
			strings.Join(items, "; "), strings.Join(opts, "; "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func joinInt64(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func splitInt64(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
