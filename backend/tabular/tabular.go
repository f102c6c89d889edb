// Package tabular provides the generic per-entity CSV export/import
// bindings the admin API exposes: a Resource describes how an entity type
// flattens to rows, an Importer how a row becomes (or updates) a record.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"gorm.io/gorm"
)

type Resource interface {
	// Name is the entity slug used in URLs and filenames.
	Name() string
	Headers() []string
	Rows(db *gorm.DB) ([][]string, error)
}

// Importer is implemented by resources that also accept CSV uploads.
type Importer interface {
	Resource
	// ImportRow upserts one record from a CSV record. Records arrive in
	// header order.
	ImportRow(db *gorm.DB, record []string) error
}

// Export writes the resource's header row plus all data rows.
func Export(w io.Writer, db *gorm.DB, res Resource) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Headers()); err != nil {
		return err
	}
	rows, err := res.Rows(db)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import reads a CSV upload (header row first) and feeds each record to the
// resource. The whole upload runs in one transaction; a bad row aborts it so
// admins cannot half-apply a file.
func Import(db *gorm.DB, imp Importer, rd io.Reader) (int, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(imp.Headers()) {
		return 0, fmt.Errorf("expected %d columns, got %d", len(imp.Headers()), len(header))
	}

	count := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for {
			record, err := cr.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := imp.ImportRow(tx, record); err != nil {
				return fmt.Errorf("row %d: %w", count+1, err)
			}
			count++
		}
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
