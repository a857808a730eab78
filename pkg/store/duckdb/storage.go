package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const CompositionsSchema = `
	CREATE TABLE IF NOT EXISTS compositions (
		id VARCHAR PRIMARY KEY,
		code VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		proposal_type VARCHAR NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		mandatory BOOLEAN NOT NULL DEFAULT FALSE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		reference_value DOUBLE NOT NULL DEFAULT 0,
		waste_percent DOUBLE NULL,
		scope VARCHAR NOT NULL DEFAULT 'area'
	);
`

const CompositionItemsSchema = `
	CREATE TABLE IF NOT EXISTS composition_items (
		id VARCHAR PRIMARY KEY,
		composition_id VARCHAR NOT NULL,
		code VARCHAR NOT NULL,
		description VARCHAR NOT NULL,
		unit VARCHAR NOT NULL,
		consumption_rate DOUBLE NOT NULL,
		unit_price DOUBLE NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		mandatory BOOLEAN NOT NULL DEFAULT FALSE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		weight_per_unit DOUBLE NOT NULL DEFAULT 0
	);
`

const PartitionRatesSchema = `
	CREATE TABLE IF NOT EXISTS partition_rates (
		id VARCHAR PRIMARY KEY,
		partition_type VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		code VARCHAR NOT NULL,
		description VARCHAR NOT NULL,
		unit VARCHAR NOT NULL,
		basis VARCHAR NOT NULL,
		consumption_rate DOUBLE NOT NULL,
		unit_price DOUBLE NOT NULL,
		waste_percent DOUBLE NOT NULL DEFAULT 0,
		weight_per_unit DOUBLE NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0,
		insulation_thickness_mm BIGINT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);
`

const VentilationProductsSchema = `
	CREATE TABLE IF NOT EXISTS ventilation_products (
		id VARCHAR PRIMARY KEY,
		code VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		nfva_per_unit DOUBLE NOT NULL,
		unit VARCHAR NOT NULL,
		side VARCHAR NOT NULL,
		linear BOOLEAN NOT NULL DEFAULT FALSE,
		unit_price DOUBLE NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);
`

var bootQueries = []string{
	CompositionsSchema,
	CompositionItemsSchema,
	PartitionRatesSchema,
	VentilationProductsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
