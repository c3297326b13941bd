package types

import "errors"

// Erros do pipeline de pontuação. São sempre propagados ao chamador, sem retry.
var (
	ErrMalformedRecord    = errors.New("malformed record")
	ErrEmptyInput         = errors.New("empty input: no records to score")
	ErrEmptyBatch         = errors.New("empty batch: no client sequences to normalize")
	ErrNumericOverflow    = errors.New("numeric overflow: non-finite value after scaling")
	ErrInvalidModelOutput = errors.New("invalid model output")
	ErrShapeMismatch      = errors.New("tensor shape does not match classifier input")
)

var (
	ErrNoSourcesGiven     = errors.New("no record sources given. Use --input or set 'inputs' in the config file")
	ErrNoClassifierConfig = errors.New("no classifier configured. Use --model-url or set 'model_url' in the config file")
)
