package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/takeoff/pkg/store/sqltx"
	"github.com/rs/zerolog"
)

// Writer inserts catalog fixtures. Placeholders use the $n form understood
// by both DuckDB and Postgres.
type Writer struct {
	db *sql.DB
}

func NewWriter(db *sql.DB) (*Writer, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &Writer{db: db}, nil
}

// Apply writes the whole catalog in one transaction.
func (w *Writer) Apply(ctx context.Context, catalog *Catalog) error {
	logger := zerolog.Ctx(ctx)

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	ctx = sqltx.WithTransaction(ctx, tx)

	if err := w.write(ctx, catalog); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn().Err(rbErr).Msg("failed to roll back seed transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	logger.Info().
		Int("compositions", len(catalog.Compositions)).
		Int("partition_rates", len(catalog.PartitionRates)).
		Int("ventilation_products", len(catalog.VentilationProducts)).
		Msg("catalog seeded")
	return nil
}

func (w *Writer) write(ctx context.Context, catalog *Catalog) error {
	exec := sqltx.From(ctx, w.db)

	for _, c := range catalog.Compositions {
		scope := c.Scope
		if scope == "" {
			scope = "area"
		}
		var waste sql.NullFloat64
		if c.WastePercent != nil {
			waste = sql.NullFloat64{Float64: *c.WastePercent, Valid: true}
		}
		_, err := exec.ExecContext(ctx, `
			INSERT INTO compositions (
				id, code, name, category, proposal_type, sort_order,
				mandatory, active, reference_value, waste_percent, scope
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			c.ID, c.Code, c.Name, c.Category, c.ProposalType, c.Order,
			c.Mandatory, isActive(c.Active), c.ReferenceValue, waste, scope,
		)
		if err != nil {
			return fmt.Errorf("insert composition %s: %w", c.ID, err)
		}

		for _, i := range c.Items {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO composition_items (
					id, composition_id, code, description, unit, consumption_rate,
					unit_price, sort_order, mandatory, active, weight_per_unit
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				i.ID, c.ID, i.Code, i.Description, i.Unit, i.ConsumptionRate,
				i.UnitPrice, i.Order, i.Mandatory, isActive(i.Active), i.WeightPerUnit,
			)
			if err != nil {
				return fmt.Errorf("insert composition item %s: %w", i.ID, err)
			}
		}
	}

	for _, r := range catalog.PartitionRates {
		var thickness sql.NullInt64
		if r.InsulationThickness != nil {
			thickness = sql.NullInt64{Int64: *r.InsulationThickness, Valid: true}
		}
		_, err := exec.ExecContext(ctx, `
			INSERT INTO partition_rates (
				id, partition_type, category, code, description, unit, basis,
				consumption_rate, unit_price, waste_percent, weight_per_unit,
				sort_order, insulation_thickness_mm, active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			r.ID, r.PartitionType, r.Category, r.Code, r.Description, r.Unit, r.Basis,
			r.ConsumptionRate, r.UnitPrice, r.WastePercent, r.WeightPerUnit,
			r.Order, thickness, isActive(r.Active),
		)
		if err != nil {
			return fmt.Errorf("insert partition rate %s: %w", r.ID, err)
		}
	}

	for _, p := range catalog.VentilationProducts {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO ventilation_products (
				id, code, name, nfva_per_unit, unit, side, linear, unit_price, active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.Code, p.Name, p.NFVAPerUnit, p.Unit, p.Side, p.Linear,
			p.UnitPrice, isActive(p.Active),
		)
		if err != nil {
			return fmt.Errorf("insert ventilation product %s: %w", p.ID, err)
		}
	}

	return nil
}
