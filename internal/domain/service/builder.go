package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
)

var knownKeys = func() map[string]bool {
	keys := map[string]bool{
		entity.KeyClientID: true,
		entity.KeyPeriod:   true,
		entity.KeyLabel:    true,
	}
	for _, name := range entity.FeatureNames {
		keys[name] = true
	}
	return keys
}()

// BuildSequences groups records by client in input order. Records are not
// re-sorted by period: a caller that supplies months out of order gets them out
// of order.
func BuildSequences(records []entity.RawRecord) (*entity.SequenceSet, error) {
	if len(records) == 0 {
		return nil, types.ErrEmptyInput
	}

	set := entity.NewSequenceSet()
	for i, raw := range records {
		record, err := ParseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		set.Append(record)
	}
	return set, nil
}

// ParseRecord validates the fixed record shape: client id, period, the six
// features and an optional 0/1 label. Missing or unknown keys are rejected.
func ParseRecord(raw entity.RawRecord) (entity.Record, error) {
	for key := range raw {
		if !knownKeys[key] {
			return entity.Record{}, fmt.Errorf("%w: unknown field %q", types.ErrMalformedRecord, key)
		}
	}

	id, err := parseClientID(raw)
	if err != nil {
		return entity.Record{}, err
	}

	period, ok := raw[entity.KeyPeriod]
	if !ok || period == nil {
		return entity.Record{}, fmt.Errorf("%w: missing field %q", types.ErrMalformedRecord, entity.KeyPeriod)
	}

	record := entity.Record{
		ClientID: id,
		Period:   strings.TrimSpace(fmt.Sprint(period)),
	}

	for i, name := range entity.FeatureNames {
		v, ok := raw[name]
		if !ok || v == nil {
			return entity.Record{}, fmt.Errorf("%w: missing field %q", types.ErrMalformedRecord, name)
		}
		f, err := toFloat(v)
		if err != nil {
			return entity.Record{}, fmt.Errorf("%w: field %q: %v", types.ErrMalformedRecord, name, err)
		}
		record.Features[i] = f
	}

	if v, ok := raw[entity.KeyLabel]; ok && v != nil && v != "" {
		f, err := toFloat(v)
		if err != nil || (f != 0 && f != 1) {
			return entity.Record{}, fmt.Errorf("%w: field %q must be 0 or 1, got %v", types.ErrMalformedRecord, entity.KeyLabel, v)
		}
		label := int(f)
		record.Label = &label
	}

	return record, nil
}

func parseClientID(raw entity.RawRecord) (entity.ClientID, error) {
	v, ok := raw[entity.KeyClientID]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: missing field %q", types.ErrMalformedRecord, entity.KeyClientID)
	}

	switch id := v.(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("%w: empty field %q", types.ErrMalformedRecord, entity.KeyClientID)
		}
		return entity.ClientID(strings.TrimSpace(id)), nil
	case int, int32, int64, uint, uint32, uint64:
		return entity.ClientID(fmt.Sprint(id)), nil
	default:
		// JSON decodes integers as float64; only integral values are valid ids.
		f, err := toFloat(v)
		if err != nil || f != math.Trunc(f) {
			return "", fmt.Errorf("%w: field %q has unsupported value %v", types.ErrMalformedRecord, entity.KeyClientID, v)
		}
		return entity.ClientID(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}
