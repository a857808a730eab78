package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/takeoff/pkg/models/api"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/services/availability"
	"github.com/de-tools/takeoff/pkg/services/catalog"
	"github.com/de-tools/takeoff/pkg/services/mapping"
	"github.com/de-tools/takeoff/pkg/services/partition"
	"github.com/de-tools/takeoff/pkg/services/ventilation"
	"github.com/de-tools/takeoff/pkg/store/catalog/catalogtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceDependencies(t *testing.T) Dependencies {
	t.Helper()
	fake, err := catalogtest.Reference()
	require.NoError(t, err)

	policy := domain.DefaultPolicy()
	resolver := catalog.NewResolver(fake, catalog.Options{TTL: time.Minute, DefaultWastePercent: policy.DefaultWastePercent})

	mappingCalc, err := mapping.NewCalculator(resolver)
	require.NoError(t, err)
	partitionCalc, err := partition.NewCalculator(fake, policy.Partition)
	require.NoError(t, err)
	ventilationCalc, err := ventilation.NewCalculator(fake, policy.Ventilation)
	require.NoError(t, err)
	checker, err := availability.NewChecker(resolver)
	require.NoError(t, err)

	return Dependencies{
		Mapping:      mappingCalc,
		Parameters:   mapping.DefaultRegistry(),
		Partition:    partitionCalc,
		Ventilation:  ventilationCalc,
		Availability: checker,
		Logger:       zerolog.New(zerolog.NewTestWriter(t)),
	}
}

func TestWebAPI_Endpoints(t *testing.T) {
	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies:    referenceDependencies(t),
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		check          func(t *testing.T, data []byte)
	}{
		{
			name:           "ListProposalTypes",
			method:         http.MethodGet,
			path:           "/api/v1/proposal-types",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, data []byte) {
				body, err := unmarshalResponse[[]api.Availability](data)
				require.NoError(t, err)
				assert.Len(t, body, 3)
			},
		},
		{
			name:           "Availability_Unmapped",
			method:         http.MethodGet,
			path:           "/api/v1/proposal-types/steel_frame/availability",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, data []byte) {
				body, err := unmarshalResponse[api.Availability](data)
				require.NoError(t, err)
				assert.False(t, body.Available)
			},
		},
		{
			name:           "Mapping_ShingleRoof",
			method:         http.MethodPost,
			path:           "/api/v1/calculations/mapping",
			body:           `{"proposal_type":"telhado_shingle","base_area":100,"parameters":{"ridge_length":10}}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, data []byte) {
				body, err := unmarshalResponse[api.Calculation](data)
				require.NoError(t, err)
				assert.Len(t, body.Items, 5)
				assert.Equal(t, "10979.86", body.Rollup.TotalPrice.StringFixed(2))
			},
		},
		{
			name:           "Mapping_NoMapping",
			method:         http.MethodPost,
			path:           "/api/v1/calculations/mapping",
			body:           `{"proposal_type":"steel_frame","base_area":10}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "Partition_Canonical",
			method:         http.MethodPost,
			path:           "/api/v1/calculations/partition",
			body:           `{"partition_type":"ST-70","width":6,"height":3,"doors":{"count":1},"windows":{"count":1},"include_insulation":true}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, data []byte) {
				body, err := unmarshalResponse[api.PartitionTakeoff](data)
				require.NoError(t, err)
				assert.InDelta(t, 16.44, body.Geometry.NetArea, 1e-9)
				assert.Len(t, body.Rollup.CategoryTotals, 5)
			},
		},
		{
			name:           "Partition_SelfCheck",
			method:         http.MethodGet,
			path:           "/api/v1/calculations/partition/ST-70/self-check",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, data []byte) {
				body, err := unmarshalResponse[api.SelfCheckReport](data)
				require.NoError(t, err)
				assert.True(t, body.Passed)
				assert.True(t, body.WithinBand)
			},
		},
		{
			name:           "Ventilation_Regional",
			method:         http.MethodPost,
			path:           "/api/v1/calculations/ventilation",
			body:           `{"length":10,"width":10,"ratio":300,"regional_adjustment":true,"intake_product_id":"v-soffit","exhaust_product_id":"v-ridge","exhaust_linear_run":20}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, data []byte) {
				body, err := unmarshalResponse[api.VentilationResult](data)
				require.NoError(t, err)
				assert.Equal(t, 150.0, body.EffectiveRatio)
				assert.Equal(t, 52, body.QuantityIntake)
				assert.Equal(t, 24, body.QuantityExhaust)
				assert.Len(t, body.Items, 2)
				assert.Len(t, body.Alerts, 4)
			},
		},
		{
			name:           "Ventilation_ZeroArea",
			method:         http.MethodPost,
			path:           "/api/v1/calculations/ventilation",
			body:           `{"length":0,"width":10}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "VentilationProducts",
			method:         http.MethodGet,
			path:           "/api/v1/ventilation/products?side=exhaust",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, data []byte) {
				body, err := unmarshalResponse[[]api.VentilationProduct](data)
				require.NoError(t, err)
				assert.Len(t, body, 3)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, bytes.NewBufferString(tc.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, data)
			}
		})
	}
}

func TestWebAPI_UnknownRoute(t *testing.T) {
	router := ConfigureRouter(Config{Dependencies: referenceDependencies(t)})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workspaces", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	w := NewWebAPI(zerolog.Nop(), Config{Addr: "127.0.0.1:0", Dependencies: referenceDependencies(t)})
	assert.Equal(t, defaultShutdownTimeout, w.shutdownTimeout)
	assert.Equal(t, "127.0.0.1:0", w.server.Addr)
}

func unmarshalResponse[T any](data []byte) (T, error) {
	var response T
	err := json.Unmarshal(data, &response)
	return response, err
}
