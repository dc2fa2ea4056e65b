package overview

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type OverviewRenderer interface {
	RenderYearly(summary YearlySummary) (string, error)
}

type CsvOverviewRendererImpl struct {
}

func NewCsvOverviewRenderer() *CsvOverviewRendererImpl {
	return &CsvOverviewRendererImpl{}
}

// RenderYearly writes the yearly grid as CSV: one row per category with a
// column per month and a trailing yearly total. Child categories are indented
// under their parent.
func (t *CsvOverviewRendererImpl) RenderYearly(summary YearlySummary) (string, error) {
	header := make([]string, 0, 15)
	header = append(header, "Category", "Type")
	for month := 1; month <= 12; month++ {
		header = append(header, time.Month(month).String()[:3])
	}
	header = append(header, "Total")

	data := make([][]string, 0, len(summary.Rows)+1)
	data = append(data, header)
	for _, row := range summary.Rows {
		data = append(data, yearlyRowToRecord(row))
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, record := range data {
		if err := writer.Write(record); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func yearlyRowToRecord(row YearlyRow) []string {
	name := row.Name
	if row.ParentID != 0 {
		name = "  " + name
	}
	record := make([]string, 0, 15)
	record = append(record, name, string(row.Type))
	total := decimal.Zero
	for month := 1; month <= 12; month++ {
		cell, ok := row.Months[month]
		if !ok {
			record = append(record, "")
			continue
		}
		record = append(record, cell.Amount.StringFixed(2))
		total = total.Add(cell.Amount)
	}
	record = append(record, total.StringFixed(2))
	return record
}
