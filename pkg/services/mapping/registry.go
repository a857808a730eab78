package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/takeoff/pkg/models/domain"
)

const opDecode = "mapping.DecodeParameters"

// ParametersDecoder builds the parameter variant of one proposal type from
// its JSON form.
type ParametersDecoder func(raw json.RawMessage) (domain.MappingParameters, error)

// Registry maps proposal types to the decoder of their parameter variant.
type Registry interface {
	Register(proposalType domain.ProposalType, decoder ParametersDecoder) error
	// Decode returns the variant for proposalType. Empty input yields the
	// zero variant; a type without a decoder only accepts empty input.
	Decode(proposalType domain.ProposalType, raw json.RawMessage) (domain.MappingParameters, error)
	ProposalTypes() []domain.ProposalType
}

type registry struct {
	mu       sync.RWMutex
	decoders map[domain.ProposalType]ParametersDecoder
}

func NewRegistry() Registry {
	return &registry{
		decoders: make(map[domain.ProposalType]ParametersDecoder),
	}
}

// DefaultRegistry knows every parameter variant in the domain model.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(domain.ProposalTypeGeneric, decodeGeneric)
	_ = r.Register(domain.ProposalTypeRoofShingle, decodeRoof)
	_ = r.Register(domain.ProposalTypeWaterproofing, decodeWaterproofing)
	_ = r.Register(domain.ProposalTypeCeiling, decodeCeiling)
	return r
}

func (r *registry) Register(proposalType domain.ProposalType, decoder ParametersDecoder) error {
	if proposalType == "" {
		return fmt.Errorf("proposal type cannot be empty")
	}
	if decoder == nil {
		return fmt.Errorf("decoder cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.decoders[proposalType]; exists {
		return fmt.Errorf("proposal type %q is already registered", proposalType)
	}
	r.decoders[proposalType] = decoder
	return nil
}

func (r *registry) Decode(proposalType domain.ProposalType, raw json.RawMessage) (domain.MappingParameters, error) {
	r.mu.RLock()
	decoder, exists := r.decoders[proposalType]
	r.mu.RUnlock()

	if isEmpty(raw) {
		if params, ok := domain.DefaultParameters(proposalType); ok {
			return params, nil
		}
		return domain.GenericParameters{}, nil
	}
	if !exists {
		return nil, domain.InvalidInput(opDecode, "proposal type %q accepts no extra parameters", proposalType)
	}
	return decoder(raw)
}

func (r *registry) ProposalTypes() []domain.ProposalType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.ProposalType, 0, len(r.decoders))
	for t := range r.decoders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

func strictUnmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.InvalidInput(opDecode, "malformed parameters: %v", err)
	}
	return nil
}

func nonNegative(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if values[name] < 0 {
			return domain.InvalidInput(opDecode, "%s must not be negative", name)
		}
	}
	return nil
}

func decodeGeneric(raw json.RawMessage) (domain.MappingParameters, error) {
	var p domain.GenericParameters
	if err := strictUnmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeRoof(raw json.RawMessage) (domain.MappingParameters, error) {
	var p domain.RoofParameters
	if err := strictUnmarshal(raw, &p); err != nil {
		return nil, err
	}
	if err := nonNegative(map[string]float64{
		"ridge_length":  p.RidgeLength,
		"eave_length":   p.EaveLength,
		"valley_length": p.ValleyLength,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeWaterproofing(raw json.RawMessage) (domain.MappingParameters, error) {
	var p domain.WaterproofingParameters
	if err := strictUnmarshal(raw, &p); err != nil {
		return nil, err
	}
	if err := nonNegative(map[string]float64{
		"perimeter":     p.Perimeter,
		"upturn_height": p.UpturnHeight,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeCeiling(raw json.RawMessage) (domain.MappingParameters, error) {
	var p domain.CeilingParameters
	if err := strictUnmarshal(raw, &p); err != nil {
		return nil, err
	}
	if err := nonNegative(map[string]float64{"perimeter": p.Perimeter}); err != nil {
		return nil, err
	}
	return p, nil
}
