package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/pagewright/internal/doctree"
)

// CSVParser handles CSV files. The header row becomes an <h2> and each data
// row a <p> of "header: value" pairs, so pages break between rows.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return doctree.Document{}, fmt.Errorf("parse csv: %w", err)
	}

	doc := doctree.Document{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	var content strings.Builder
	writeBlock(&content, "h2", strings.Join(headers, ", "))

	for _, row := range records[1:] {
		cells := make([]string, 0, len(row))
		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		writeBlock(&content, "p", strings.Join(cells, ", "))
	}

	doc.Content = content.String()
	return doc, nil
}
