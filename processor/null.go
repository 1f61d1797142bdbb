package processor

import "github.com/nao1215/csvchain"

// ConvertNullToProcessor substitutes a default for missing values
type ConvertNullToProcessor struct {
	chain
	value any
}

// ConvertNullTo returns value for nil input and the input unchanged
// otherwise. The result is always passed on to next.
func ConvertNullTo(value any, next ...csvchain.CellProcessor) *ConvertNullToProcessor {
	return &ConvertNullToProcessor{chain: newChain(next), value: value}
}

// Execute substitutes the default for nil and forwards
func (p *ConvertNullToProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if value == nil {
		value = p.value
	}
	return p.forward(value, ctx)
}

// OptionalProcessor stops the chain for missing values
type OptionalProcessor struct {
	chain
}

// Optional returns nil for nil input without running next; any other value
// is passed on to next.
func Optional(next ...csvchain.CellProcessor) *OptionalProcessor {
	return &OptionalProcessor{chain: newChain(next)}
}

// Execute short-circuits nil input
func (p *OptionalProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if value == nil {
		return nil, nil
	}
	return p.forward(value, ctx)
}

// IdentityProcessor passes values through unchanged
type IdentityProcessor struct {
	chain
}

// IdentityTransform returns its input unchanged, including nil and the empty string.
func IdentityTransform(next ...csvchain.CellProcessor) *IdentityProcessor {
	return &IdentityProcessor{chain: newChain(next)}
}

// Execute forwards value unchanged
func (p *IdentityProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	return p.forward(value, ctx)
}

// NotNullProcessor rejects missing values
type NotNullProcessor struct {
	chain
}

// NotNull fails with a constraint violation for nil input.
func NotNull(next ...csvchain.CellProcessor) *NotNullProcessor {
	return &NotNullProcessor{chain: newChain(next)}
}

// Execute rejects nil and forwards anything else
func (p *NotNullProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if value == nil {
		return nil, csvchain.NewConstraintViolation(p, value, ctx, "null value encountered")
	}
	return p.forward(value, ctx)
}

// TokenProcessor replaces one marker value
type TokenProcessor struct {
	chain
	token       any
	replacement any
}

// Token replaces input equal to token with replacement, for markers such as
// "N/A" or "-1". Other input is forwarded unchanged.
func Token(token, replacement any, next ...csvchain.CellProcessor) *TokenProcessor {
	return &TokenProcessor{chain: newChain(next), token: bytesAsString(token), replacement: replacement}
}

// Execute replaces the token and forwards
func (p *TokenProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	key, err := lookupKey(p, value, ctx)
	if err != nil {
		return nil, err
	}
	if key == p.token {
		value = p.replacement
	}
	return p.forward(value, ctx)
}

// HashMapperProcessor maps values through a lookup table
type HashMapperProcessor struct {
	chain
	mapping  map[any]any
	fallback any
}

// HashMapper replaces input with mapping[input], or with fallback when the
// input is not a key. Byte slice input is looked up as a string.
func HashMapper(mapping map[any]any, fallback any, next ...csvchain.CellProcessor) *HashMapperProcessor {
	return &HashMapperProcessor{chain: newChain(next), mapping: mapping, fallback: fallback}
}

// Execute maps value and forwards the result
func (p *HashMapperProcessor) Execute(value any, ctx csvchain.Context) (any, error) {
	if err := requireValue(p, value, ctx); err != nil {
		return nil, err
	}
	key, err := lookupKey(p, value, ctx)
	if err != nil {
		return nil, err
	}
	mapped, ok := p.mapping[key]
	if !ok {
		mapped = p.fallback
	}
	return p.forward(mapped, ctx)
}
