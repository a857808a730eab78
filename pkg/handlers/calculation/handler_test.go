package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/takeoff/pkg/models/api"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMapping struct {
	mock.Mock
}

func (m *mockMapping) Calculate(ctx context.Context, pt domain.ProposalType, area float64, params domain.MappingParameters) (*domain.Calculation, error) {
	args := m.Called(ctx, pt, area, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calculation), args.Error(1)
}

type mockPartition struct {
	mock.Mock
}

func (m *mockPartition) Takeoff(ctx context.Context, input domain.PartitionInput) (*domain.PartitionTakeoff, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartitionTakeoff), args.Error(1)
}

func (m *mockPartition) SelfCheck(ctx context.Context, partitionType string) (*domain.SelfCheckReport, error) {
	args := m.Called(ctx, partitionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SelfCheckReport), args.Error(1)
}

type mockVentilation struct {
	mock.Mock
}

func (m *mockVentilation) Size(ctx context.Context, input domain.VentilationInput) (*domain.VentilationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VentilationResult), args.Error(1)
}

func (m *mockVentilation) Products(ctx context.Context, side domain.VentSide) ([]domain.VentilationProduct, error) {
	args := m.Called(ctx, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VentilationProduct), args.Error(1)
}

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) IsAvailable(ctx context.Context, pt domain.ProposalType) (bool, error) {
	args := m.Called(ctx, pt)
	return args.Bool(0), args.Error(1)
}

func (m *mockAvailability) Available(ctx context.Context) ([]domain.ProposalType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProposalType), args.Error(1)
}

type mocks struct {
	mapping      *mockMapping
	partition    *mockPartition
	ventilation  *mockVentilation
	availability *mockAvailability
}

func setupRouter() (*chi.Mux, mocks) {
	m := mocks{
		mapping:      new(mockMapping),
		partition:    new(mockPartition),
		ventilation:  new(mockVentilation),
		availability: new(mockAvailability),
	}
	h := NewHandler(Services{
		Mapping:      m.mapping,
		Partition:    m.partition,
		Ventilation:  m.ventilation,
		Availability: m.availability,
	})

	r := chi.NewRouter()
	r.Get("/proposal-types", h.ListProposalTypes)
	r.Get("/proposal-types/{type}/availability", h.GetAvailability)
	r.Post("/calculations/mapping", h.CalculateMapping)
	r.Post("/calculations/partition", h.CalculatePartition)
	r.Get("/calculations/partition/{type}/self-check", h.PartitionSelfCheck)
	r.Post("/calculations/ventilation", h.CalculateVentilation)
	r.Get("/ventilation/products", h.ListVentilationProducts)
	return r, m
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetAvailability(t *testing.T) {
	router, m := setupRouter()
	m.availability.On("IsAvailable", mock.Anything, domain.ProposalType("forro")).Return(true, nil)

	rec := do(router, http.MethodGet, "/proposal-types/forro/availability", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body api.Availability
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, api.Availability{ProposalType: "forro", Available: true}, body)
	m.availability.AssertExpectations(t)
}

func TestListProposalTypes(t *testing.T) {
	router, m := setupRouter()
	m.availability.On("Available", mock.Anything).Return([]domain.ProposalType{"forro", "telhado_shingle"}, nil)

	rec := do(router, http.MethodGet, "/proposal-types", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []api.Availability
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body, 2)
}

func TestCalculateMapping(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockMapping)
		expectedStatus int
		expectedKind   string
	}{
		{
			name: "successful calculation",
			body: `{"proposal_type":"telhado_shingle","base_area":100,"parameters":{"ridge_length":10}}`,
			setupMock: func(m *mockMapping) {
				m.On("Calculate", mock.Anything, domain.ProposalTypeRoofShingle, 100.0, domain.RoofParameters{RidgeLength: 10}).
					Return(&domain.Calculation{
						ProposalType: domain.ProposalTypeRoofShingle,
						Items: []domain.LineItem{{
							ID: "id-1", ItemCode: "SHG-TL", CommercialQuantity: 36,
							UnitPrice: decimal.RequireFromString("189.90"), ExtendedPrice: decimal.RequireFromString("6738.79"),
						}},
						Rollup: domain.Rollup{TotalPrice: decimal.RequireFromString("6738.79")},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed body",
			body:           `{"proposal_type":`,
			setupMock:      func(m *mockMapping) {},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_input",
		},
		{
			name:           "missing proposal type",
			body:           `{"base_area":10}`,
			setupMock:      func(m *mockMapping) {},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_input",
		},
		{
			name:           "parameters of another variant",
			body:           `{"proposal_type":"forro","base_area":10,"parameters":{"ridge_length":3}}`,
			setupMock:      func(m *mockMapping) {},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_input",
		},
		{
			name: "no mapping",
			body: `{"proposal_type":"steel_frame","base_area":10}`,
			setupMock: func(m *mockMapping) {
				m.On("Calculate", mock.Anything, domain.ProposalType("steel_frame"), 10.0, domain.GenericParameters{}).
					Return(nil, domain.NoMapping("mapping.Calculate", "no compositions"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "no_mapping",
		},
		{
			name: "catalog unreachable",
			body: `{"proposal_type":"forro","base_area":10}`,
			setupMock: func(m *mockMapping) {
				m.On("Calculate", mock.Anything, domain.ProposalTypeCeiling, 10.0, domain.CeilingParameters{}).
					Return(nil, domain.DataSourceFailure("catalog.Resolve", errors.New("refused")))
			},
			expectedStatus: http.StatusBadGateway,
			expectedKind:   "data_source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupRouter()
			tt.setupMock(m.mapping)

			rec := do(router, http.MethodPost, "/calculations/mapping", tt.body)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.expectedKind != "" {
				var errBody api.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
				assert.Equal(t, tt.expectedKind, errBody.Kind)
				assert.NotEmpty(t, errBody.Error)
				return
			}

			var body api.Calculation
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Len(t, body.Items, 1)
			assert.Equal(t, "SHG-TL", body.Items[0].ItemCode)
			assert.Equal(t, "6738.79", body.Rollup.TotalPrice.StringFixed(2))
			m.mapping.AssertExpectations(t)
		})
	}
}

func TestCalculateMapping_PricesAreJSONStrings(t *testing.T) {
	router, m := setupRouter()
	m.mapping.On("Calculate", mock.Anything, domain.ProposalTypeCeiling, 10.0, domain.CeilingParameters{}).
		Return(&domain.Calculation{Rollup: domain.Rollup{TotalPrice: decimal.RequireFromString("10.50")}}, nil)

	rec := do(router, http.MethodPost, "/calculations/mapping", `{"proposal_type":"forro","base_area":10}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_price":"10.5"`)
}

func TestCalculatePartition(t *testing.T) {
	router, m := setupRouter()
	expectedInput := domain.PartitionInput{
		PartitionType:     "ST-70",
		Width:             6,
		Height:            3,
		Doors:             domain.Opening{Count: 1},
		Windows:           domain.Opening{Count: 1},
		IncludeInsulation: true,
	}
	m.partition.On("Takeoff", mock.Anything, expectedInput).Return(&domain.PartitionTakeoff{
		Input:    expectedInput,
		Geometry: domain.PartitionGeometry{GrossArea: 18, OpeningArea: 3.12, NetArea: 16.44},
	}, nil)

	rec := do(router, http.MethodPost, "/calculations/partition",
		`{"partition_type":"ST-70","width":6,"height":3,"doors":{"count":1},"windows":{"count":1},"include_insulation":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body api.PartitionTakeoff
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 16.44, body.Geometry.NetArea)
	assert.Equal(t, "ST-70", body.PartitionType)
	m.partition.AssertExpectations(t)
}

func TestCalculatePartition_InvalidInput(t *testing.T) {
	router, m := setupRouter()
	m.partition.On("Takeoff", mock.Anything, mock.Anything).
		Return(nil, domain.InvalidInput("partition.Takeoff", "width must be positive, got 0"))

	rec := do(router, http.MethodPost, "/calculations/partition", `{"partition_type":"ST-70","height":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "width must be positive")
}

func TestCalculatePartition_UnknownField(t *testing.T) {
	router, _ := setupRouter()
	rec := do(router, http.MethodPost, "/calculations/partition", `{"partition_type":"ST-70","depth":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPartitionSelfCheck(t *testing.T) {
	router, m := setupRouter()
	m.partition.On("SelfCheck", mock.Anything, "ST-70").Return(&domain.SelfCheckReport{
		PartitionType:     "ST-70",
		MissingCategories: []domain.Category{domain.CategoryFinishing},
		HasGuide:          true,
		HasStud:           true,
		Findings:          []string{"no items in category ACABAMENTO"},
	}, nil)

	rec := do(router, http.MethodGet, "/calculations/partition/ST-70/self-check", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body api.SelfCheckReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Passed)
	assert.Equal(t, []string{"ACABAMENTO"}, body.MissingCategories)
}

func TestCalculateVentilation(t *testing.T) {
	router, m := setupRouter()
	exhaustRun := 20.0
	m.ventilation.On("Size", mock.Anything, domain.VentilationInput{
		Length: 10, Width: 10, RequestedRatio: 300, RegionalAdjustment: true, IntakePercent: 50,
		ExhaustProductID: "v-ridge", ExhaustLinearRun: &exhaustRun,
	}).Return(&domain.VentilationResult{
		AtticArea:      100,
		EffectiveRatio: 150,
		NFVATotal:      0.666667,
		Exhaust: domain.VentilationSide{
			Side:     domain.VentSideExhaust,
			Product:  &domain.VentilationProduct{ID: "v-ridge", Code: "CUM-VENT", Linear: true, NFVAPerUnit: 0.0144, UnitPrice: decimal.RequireFromString("79.90")},
			Quantity: 24,
		},
		QuantityExhaust: 24,
		Alerts: []domain.Alert{{
			Code: domain.AlertCapacityExceeded, Severity: domain.SeverityBlocking, Side: domain.VentSideExhaust, Message: "exceeded",
		}},
	}, nil)

	rec := do(router, http.MethodPost, "/calculations/ventilation",
		`{"length":10,"width":10,"ratio":300,"regional_adjustment":true,"exhaust_product_id":"v-ridge","exhaust_linear_run":20}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body api.VentilationResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 150.0, body.EffectiveRatio)
	assert.Equal(t, 24, body.QuantityExhaust)
	require.Len(t, body.Alerts, 1)
	assert.Equal(t, "blocking", body.Alerts[0].Severity)
	assert.Equal(t, "1917.60", body.TotalPrice.StringFixed(2))
	m.ventilation.AssertExpectations(t)
}

func TestListVentilationProducts(t *testing.T) {
	router, m := setupRouter()
	m.ventilation.On("Products", mock.Anything, domain.VentSideIntake).Return([]domain.VentilationProduct{
		{ID: "v-soffit", Code: "GR-BEIRAL", Side: domain.VentSideIntake, UnitPrice: decimal.RequireFromString("18.50")},
	}, nil)
	m.ventilation.On("Products", mock.Anything, domain.VentSide("up")).
		Return(nil, domain.InvalidInput("ventilation.Products", "unknown side \"up\""))

	rec := do(router, http.MethodGet, "/ventilation/products?side=intake", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body []api.VentilationProduct
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "intake", body[0].Side)

	rec = do(router, http.MethodGet, "/ventilation/products?side=up", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	status, kind := statusFor(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", kind)
}
