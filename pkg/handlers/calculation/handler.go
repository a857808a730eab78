package calculation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/api"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/services/availability"
	"github.com/de-tools/takeoff/pkg/services/mapping"
	"github.com/de-tools/takeoff/pkg/services/partition"
	"github.com/de-tools/takeoff/pkg/services/ventilation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	mapping      mapping.Calculator
	parameters   mapping.Registry
	partition    partition.Calculator
	ventilation  ventilation.Calculator
	availability availability.Checker
}

type Services struct {
	Mapping      mapping.Calculator
	Parameters   mapping.Registry
	Partition    partition.Calculator
	Ventilation  ventilation.Calculator
	Availability availability.Checker
}

func NewHandler(s Services) *Handler {
	params := s.Parameters
	if params == nil {
		params = mapping.DefaultRegistry()
	}
	return &Handler{
		mapping:      s.Mapping,
		parameters:   params,
		partition:    s.Partition,
		ventilation:  s.Ventilation,
		availability: s.Availability,
	}
}

func (h *Handler) ListProposalTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	types, err := h.availability.Available(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response := make([]api.Availability, 0, len(types))
	for _, t := range types {
		response = append(response, api.Availability{ProposalType: string(t), Available: true})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	proposalType := chi.URLParam(r, "type")

	ok, err := h.availability.IsAvailable(ctx, domain.ProposalType(proposalType))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.Availability{ProposalType: proposalType, Available: ok})
}

func (h *Handler) CalculateMapping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.MappingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProposalType == "" {
		writeError(w, r, domain.InvalidInput("mapping.Calculate", "proposal_type is required"))
		return
	}

	proposalType := domain.ProposalType(req.ProposalType)
	params, err := h.parameters.Decode(proposalType, req.Parameters)
	if err != nil {
		writeError(w, r, err)
		return
	}

	calc, err := h.mapping.Calculate(ctx, proposalType, req.BaseArea, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainCalculationToApi(*calc))
}

func (h *Handler) CalculatePartition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.PartitionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	takeoff, err := h.partition.Takeoff(ctx, adapters.MapApiPartitionRequestToDomain(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainPartitionTakeoffToApi(*takeoff))
}

func (h *Handler) PartitionSelfCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partitionType := chi.URLParam(r, "type")

	report, err := h.partition.SelfCheck(ctx, partitionType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainSelfCheckReportToApi(*report))
}

func (h *Handler) CalculateVentilation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.VentilationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.ventilation.Size(ctx, adapters.MapApiVentilationRequestToDomain(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainVentilationResultToApi(*result))
}

func (h *Handler) ListVentilationProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	side := domain.VentSide(r.URL.Query().Get("side"))

	products, err := h.ventilation.Products(ctx, side)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response := make([]api.VentilationProduct, 0, len(products))
	for _, p := range products {
		response = append(response, adapters.MapDomainVentilationProductToApi(p))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: "malformed request body: " + err.Error(), Kind: "invalid_input"})
		return false
	}
	return true
}

// statusFor maps calculation failures onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNoMapping):
		return http.StatusUnprocessableEntity, "no_mapping"
	case errors.Is(err, domain.ErrDataSource):
		return http.StatusBadGateway, "data_source"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())
	status, kind := statusFor(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Msg("calculation request failed")

	writeJSON(w, r, status, api.ErrorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
