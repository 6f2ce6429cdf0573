package maintenance

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ceramica/erp_backend/internal/platform/storage"
	"github.com/ceramica/erp_backend/internal/utils/accounting"
)

// RowError is a CSV row that could not be applied.
type RowError struct {
	Line   int
	SKU    string
	Reason string
}

// CostImportReport summarises an import-costs run. Line numbers count the header as line 1.
type CostImportReport struct {
	Updated   int
	Unchanged int
	NotFound  []RowError
	Invalid   []RowError
}

type costRow struct {
	line      int
	sku       string
	costPrice decimal.Decimal
	salePrice *decimal.Decimal
}

// ImportCosts reads "sku,cost_price[,sale_price]" rows from a local file or s3:// URI and
// updates the matching products, in one company or in all of them when companyID is empty.
func (r *Runner) ImportCosts(ctx context.Context, source, companyID string) (*CostImportReport, error) {
	if companyID != "" {
		if _, err := r.repo.ListCompanyIDs(ctx, companyID); err != nil {
			return nil, err
		}
	}

	rc, err := storage.Open(ctx, source, r.objects)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, report, err := parseCostRows(rc)
	if err != nil {
		return nil, err
	}
	r.printf("قراءة %s صف من %s", count(len(rows)+len(report.Invalid)), source)

	for _, row := range rows {
		products, err := r.repo.FindProductsBySKU(ctx, companyID, row.sku)
		if err != nil {
			r.logger.Error("Failed to look up SKU", "error", err, "sku", row.sku, "line", row.line)
			return report, err
		}
		if len(products) == 0 {
			report.NotFound = append(report.NotFound, RowError{Line: row.line, SKU: row.sku, Reason: "الصنف غير موجود"})
			continue
		}
		for _, p := range products {
			if p.CostPrice.Equal(row.costPrice) && (row.salePrice == nil || p.SalePrice.Equal(*row.salePrice)) {
				report.Unchanged++
				continue
			}
			if !r.dryRun {
				if err := r.repo.UpdateProductPrices(ctx, p.ProductID, row.costPrice, row.salePrice); err != nil {
					r.logger.Error("Failed to update product prices", "error", err, "product_id", p.ProductID, "line", row.line)
					return report, err
				}
			}
			report.Updated++
		}
	}

	for _, e := range report.Invalid {
		r.printf("  سطر %s (%s): %s", count(e.Line), e.SKU, e.Reason)
	}
	for _, e := range report.NotFound {
		r.printf("  سطر %s (%s): %s", count(e.Line), e.SKU, e.Reason)
	}
	r.printf("تم التحديث: %s، بدون تغيير: %s، غير موجود: %s، غير صالح: %s%s",
		count(report.Updated), count(report.Unchanged), count(len(report.NotFound)), count(len(report.Invalid)), r.modeNote())
	return report, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCostRows validates the header and every row. Bad rows are collected in the report;
// only a bad header or unreadable file is an error.
func parseCostRows(src io.Reader) ([]costRow, *CostImportReport, error) {
	br := bufio.NewReader(src)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("الملف فارغ")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("تعذر قراءة رأس الملف: %w", err)
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	skuCol, okSKU := columns["sku"]
	costCol, okCost := columns["cost_price"]
	saleCol, hasSale := columns["sale_price"]
	if !okSKU || !okCost {
		return nil, nil, fmt.Errorf("رأس الملف يجب أن يحتوي على الأعمدة sku و cost_price")
	}

	report := &CostImportReport{}
	var rows []costRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("تعذر قراءة الملف: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		sku := field(record, skuCol)
		if sku == "" {
			report.Invalid = append(report.Invalid, RowError{Line: line, Reason: "رمز الصنف فارغ"})
			continue
		}
		cost, err := decimal.NewFromString(field(record, costCol))
		if err != nil || cost.IsNegative() {
			report.Invalid = append(report.Invalid, RowError{Line: line, SKU: sku, Reason: "سعر التكلفة غير صالح"})
			continue
		}
		// values are compared with what the NUMERIC columns will hold
		row := costRow{line: line, sku: sku, costPrice: accounting.RoundCost(cost)}
		if hasSale {
			if raw := field(record, saleCol); raw != "" {
				sale, err := decimal.NewFromString(raw)
				if err != nil || sale.IsNegative() {
					report.Invalid = append(report.Invalid, RowError{Line: line, SKU: sku, Reason: "سعر البيع غير صالح"})
					continue
				}
				sale = accounting.RoundMoney(sale)
				row.salePrice = &sale
			}
		}
		rows = append(rows, row)
	}
	return rows, report, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
