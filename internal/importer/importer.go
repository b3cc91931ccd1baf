package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"sushi-orders/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads a product catalog CSV and inserts or updates products by key.
//
// Recognised columns: id, key, name, description, price, stock. Only name and
// price are required; a missing key is derived from the name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses every row and upserts it. It stops at the first invalid row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing %q column", required)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		p, skip, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if skip {
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("line %d: upsert product %q: %w", line, p.Key, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, bool, error) {
	id := pick(record, index, "id")
	key := pick(record, index, "key")
	name := pick(record, index, "name")
	desc := pick(record, index, "description")
	priceStr := pick(record, index, "price")
	stockStr := pick(record, index, "stock")

	if id == "" && key == "" && name == "" && priceStr == "" {
		return domain.Product{}, true, nil
	}
	if name == "" {
		return domain.Product{}, false, errors.New("name is required")
	}
	if key == "" {
		key = slug.Make(name)
	}
	if !slug.IsSlug(key) {
		return domain.Product{}, false, fmt.Errorf("key %q is not a slug", key)
	}
	if id != "" {
		parsed, err := domain.ParseID("product", id)
		if err != nil {
			return domain.Product{}, false, err
		}
		id = parsed
	}

	price, err := domain.ParseMoney(priceStr)
	if err != nil {
		return domain.Product{}, false, err
	}
	if price <= 0 {
		return domain.Product{}, false, fmt.Errorf("price must be positive, got %s", priceStr)
	}

	stock := 0
	if stockStr != "" {
		stock, err = strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			return domain.Product{}, false, fmt.Errorf("stock must be a non-negative integer, got %q", stockStr)
		}
	}

	return domain.Product{
		ID:          id,
		Key:         key,
		Name:        name,
		Description: desc,
		Price:       price,
		Stock:       stock,
	}, false, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
