// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Repository loads records from DuckDB readable sources.
type Repository interface {
	// Load reads a CSV, Parquet or JSON file, or a table of the database.
	Load(ctx context.Context, source string, schema Schema) (*Dataset, error)
	// Save replaces table with records. Attributes are stored as text.
	Save(ctx context.Context, table string, recs []Record) error
}

type sqlRepository struct {
	db *sql.DB
}

// NewSQLRepository returns a Repository backed by a DuckDB connection.
func NewSQLRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// sourceExpr maps a source to the FROM clause that reads it.
func sourceExpr(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", errors.New("empty source")
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".csv", ".tsv", ".txt":
		return "read_csv_auto(" + quoteLiteral(source) + ")", nil
	case ".parquet":
		return "read_parquet(" + quoteLiteral(source) + ")", nil
	case ".json", ".jsonl", ".ndjson":
		return "read_json_auto(" + quoteLiteral(source) + ")", nil
	default:
		return quoteIdent(source), nil
	}
}

func (r *sqlRepository) Load(ctx context.Context, source string, schema Schema) (*Dataset, error) {
	from, err := sourceExpr(source)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+from)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", source, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", source, err)
	}

	var data [][]any

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", source, err)
		}

		data = append(data, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", source, err)
	}

	ds, err := Build(columns, data, schema)
	if err != nil {
		return nil, fmt.Errorf("building records from %s: %w", source, err)
	}

	return ds, nil
}

func (r *sqlRepository) Save(ctx context.Context, table string, recs []Record) error {
	var attrs []string

	for _, rec := range recs {
		for k := range rec.Attributes {
			if !slices.Contains(attrs, k) {
				attrs = append(attrs, k)
			}
		}
	}

	slices.Sort(attrs)

	defs := []string{"id VARCHAR", "latitude DOUBLE", "longitude DOUBLE", "time TIMESTAMP"}
	names := []string{"id", "latitude", "longitude", "time"}

	types := make([]string, len(attrs))

	for i, a := range attrs {
		types[i] = attributeType(recs, a)
		defs = append(defs, quoteIdent(a)+" "+types[i])
		names = append(names, quoteIdent(a))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction for %s: %w", table, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("failed to rollback transaction for %s: %v", table, err)
		}
	}()

	ddl := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		args := []any{rec.ID, rec.Point.Lat, rec.Point.Lng, rec.Time.UTC()}

		for i, a := range attrs {
			v, ok := rec.Attributes[a]
			if !ok || v == nil {
				args = append(args, nil)

				continue
			}

			args = append(args, bindAttribute(v, types[i]))
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", table, err)
	}

	return nil
}

// attributeType is the column type holding every value of attr: DOUBLE,
// BOOLEAN or TIMESTAMP when all values agree, VARCHAR otherwise.
func attributeType(recs []Record, attr string) string {
	kind := ""

	for _, rec := range recs {
		v := rec.Attributes[attr]
		if v == nil {
			continue
		}

		var k string

		switch x := normalize(v).(type) {
		case bool:
			k = "BOOLEAN"
		case time.Time:
			k = "TIMESTAMP"
		case string:
			return "VARCHAR"
		default:
			if _, err := ToFloat(x); err != nil {
				return "VARCHAR"
			}

			k = "DOUBLE"
		}

		if kind != "" && kind != k {
			return "VARCHAR"
		}

		kind = k
	}

	if kind == "" {
		return "VARCHAR"
	}

	return kind
}

func bindAttribute(v any, typ string) any {
	switch typ {
	case "DOUBLE":
		f, _ := ToFloat(v)

		return f
	case "TIMESTAMP":
		return normalize(v).(time.Time).UTC()
	case "BOOLEAN":
		return normalize(v)
	default:
		return fmt.Sprint(v)
	}
}
