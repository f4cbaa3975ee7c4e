// Package export renders ranked opportunity lists to CSV and JSON, and
// optionally archives a snapshot of each scan's export to object storage.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alanyoungcy/arbscan/internal/domain"
)

// csvHeader is the fixed column set of the CSV export.
var csvHeader = []string{
	"type", "instrument", "strategy", "prices", "investment",
	"profit", "profit_percentage", "risk", "url",
}

// CSV renders the opportunity list as CSV with a header row.
func CSV(opps []domain.Opportunity) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("export: write csv header: %w", err)
	}
	for _, opp := range opps {
		row := []string{
			string(opp.Kind),
			opp.Instrument,
			opp.Strategy,
			formatPrices(opp.Prices),
			strconv.FormatFloat(opp.Investment, 'f', 2, 64),
			strconv.FormatFloat(opp.ExpectedProfit, 'f', 2, 64),
			strconv.FormatFloat(opp.ProfitPct, 'f', 2, 64),
			string(opp.Risk),
			opp.ReferenceURL,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON renders the opportunity list as indented JSON, mirroring the CSV
// content with full structure.
func JSON(opps []domain.Opportunity) ([]byte, error) {
	if opps == nil {
		opps = []domain.Opportunity{}
	}
	data, err := json.MarshalIndent(opps, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal json: %w", err)
	}
	return data, nil
}

// formatPrices joins the price points as "source=price" pairs.
func formatPrices(points []domain.PricePoint) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, p.Source+"="+strconv.FormatFloat(p.Price, 'f', 4, 64))
	}
	return strings.Join(parts, " ")
}
