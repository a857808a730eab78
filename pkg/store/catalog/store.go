package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/takeoff/pkg/models/store"
	"github.com/rs/zerolog"
)

// Store is the read-only view of the composition and product catalog.
type Store interface {
	ListCompositionItems(ctx context.Context, proposalType string) ([]store.CompositionItemRow, error)
	ListProposalTypes(ctx context.Context) ([]string, error)
	ListPartitionRates(ctx context.Context, partitionType string) ([]store.PartitionRateRow, error)
	ListVentilationProducts(ctx context.Context) ([]store.VentilationProductRow, error)
}

type catalogStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &catalogStore{db: db}, nil
}

const compositionItemsQuery = `
		SELECT
			c.id,
			c.code,
			c.name,
			c.category,
			c.proposal_type,
			c.sort_order,
			c.mandatory,
			c.reference_value,
			c.waste_percent,
			c.scope,
			i.id,
			i.code,
			i.description,
			i.unit,
			i.consumption_rate,
			i.unit_price,
			i.sort_order,
			i.mandatory,
			i.weight_per_unit
		FROM compositions AS c
		JOIN composition_items AS i
			ON i.composition_id = c.id
		WHERE c.proposal_type = $1
			AND c.active
			AND i.active
		ORDER BY c.sort_order, c.id, i.sort_order, i.id`

func (s *catalogStore) ListCompositionItems(ctx context.Context, proposalType string) ([]store.CompositionItemRow, error) {
	rows, err := s.db.QueryContext(ctx, compositionItemsQuery, proposalType)
	if err != nil {
		return nil, fmt.Errorf("composition query failed: %w", err)
	}
	defer closeRows(ctx, rows)

	var records []store.CompositionItemRow
	for rows.Next() {
		var r store.CompositionItemRow
		if err := rows.Scan(
			&r.CompositionID,
			&r.CompositionCode,
			&r.CompositionName,
			&r.Category,
			&r.ProposalType,
			&r.CompositionOrder,
			&r.CompositionRequired,
			&r.ReferenceValue,
			&r.WastePercent,
			&r.Scope,
			&r.ItemID,
			&r.ItemCode,
			&r.Description,
			&r.Unit,
			&r.ConsumptionRate,
			&r.UnitPrice,
			&r.ItemOrder,
			&r.ItemRequired,
			&r.WeightPerUnit,
		); err != nil {
			return nil, fmt.Errorf("scan composition row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate composition rows: %w", err)
	}

	return records, nil
}

const proposalTypesQuery = `
		SELECT DISTINCT proposal_type
		FROM compositions
		WHERE active
		ORDER BY proposal_type`

func (s *catalogStore) ListProposalTypes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, proposalTypesQuery)
	if err != nil {
		return nil, fmt.Errorf("proposal type query failed: %w", err)
	}
	defer closeRows(ctx, rows)

	var types []string
	for rows.Next() {
		var pt string
		if err := rows.Scan(&pt); err != nil {
			return nil, fmt.Errorf("scan proposal type: %w", err)
		}
		types = append(types, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposal types: %w", err)
	}

	return types, nil
}

const partitionRatesQuery = `
		SELECT
			id,
			partition_type,
			category,
			code,
			description,
			unit,
			basis,
			consumption_rate,
			unit_price,
			waste_percent,
			weight_per_unit,
			sort_order,
			insulation_thickness_mm
		FROM partition_rates
		WHERE partition_type = $1
			AND active
		ORDER BY sort_order, id`

func (s *catalogStore) ListPartitionRates(ctx context.Context, partitionType string) ([]store.PartitionRateRow, error) {
	rows, err := s.db.QueryContext(ctx, partitionRatesQuery, partitionType)
	if err != nil {
		return nil, fmt.Errorf("partition rate query failed: %w", err)
	}
	defer closeRows(ctx, rows)

	var records []store.PartitionRateRow
	for rows.Next() {
		var r store.PartitionRateRow
		if err := rows.Scan(
			&r.ID,
			&r.PartitionType,
			&r.Category,
			&r.Code,
			&r.Description,
			&r.Unit,
			&r.Basis,
			&r.ConsumptionRate,
			&r.UnitPrice,
			&r.WastePercent,
			&r.WeightPerUnit,
			&r.Order,
			&r.InsulationThickness,
		); err != nil {
			return nil, fmt.Errorf("scan partition rate: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partition rates: %w", err)
	}

	return records, nil
}

const ventilationProductsQuery = `
		SELECT
			id,
			code,
			name,
			nfva_per_unit,
			unit,
			side,
			linear,
			unit_price
		FROM ventilation_products
		WHERE active
		ORDER BY side, code, id`

func (s *catalogStore) ListVentilationProducts(ctx context.Context) ([]store.VentilationProductRow, error) {
	rows, err := s.db.QueryContext(ctx, ventilationProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("ventilation product query failed: %w", err)
	}
	defer closeRows(ctx, rows)

	var records []store.VentilationProductRow
	for rows.Next() {
		var r store.VentilationProductRow
		if err := rows.Scan(
			&r.ID,
			&r.Code,
			&r.Name,
			&r.NFVAPerUnit,
			&r.Unit,
			&r.Side,
			&r.Linear,
			&r.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan ventilation product: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ventilation products: %w", err)
	}

	return records, nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close catalog query rows")
	}
}
