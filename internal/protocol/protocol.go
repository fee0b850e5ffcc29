package protocol

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prism/internal/corpus"
	"prism/internal/keys"
)

// Task is the protocol family every PRISM protocol belongs to.
const Task = "SpeakerRecognition"

var (
	// ErrUnknownProtocol is returned for names missing from a Registry.
	ErrUnknownProtocol = errors.New("unknown protocol")
	// ErrUnknownSegment is returned when a trial list names a segment the key table lacks.
	ErrUnknownSegment = errors.New("segment not found in keys")
)

// Subset selects a part of a protocol.
type Subset string

const (
	SubsetTrain      Subset = "train"
	SubsetDevEnroll  Subset = "dev-enroll"
	SubsetDevTest    Subset = "dev-test"
	SubsetTestEnroll Subset = "test-enroll"
	SubsetTestTest   Subset = "test-test"
)

// Subsets lists every subset in iteration order.
var Subsets = []Subset{SubsetTrain, SubsetDevEnroll, SubsetDevTest, SubsetTestEnroll, SubsetTestTest}

// ParseSubset validates a subset name.
func ParseSubset(value string) (Subset, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, s := range Subsets {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown subset %q (want one of train, dev-enroll, dev-test, test-enroll, test-test)", value)
}

// Item is one protocol entry.
type Item struct {
	UniqueName string            `json:"unique_name"`
	Record     keys.Record       `json:"-"`
	Fields     map[string]string `json:"fields"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Protocol yields items for each subset and the trial keymask.
type Protocol interface {
	Name() string
	Items(ctx context.Context, subset Subset) ([]Item, error)
	KeyMask(ctx context.Context) (*KeyMask, error)
}

// Source is what protocols are built from.
type Source struct {
	Keys          *keys.Table
	Layout        corpus.Layout
	Preprocessors Preprocessors
}

func (s Source) item(rec keys.Record) (Item, error) {
	extra, err := s.Preprocessors.Apply(rec)
	if err != nil {
		return Item{}, fmt.Errorf("preprocess %s: %w", rec.UniqueName, err)
	}
	return Item{UniqueName: rec.UniqueName, Record: rec, Fields: rec.Map(), Extra: extra}, nil
}

func (s Source) items(ctx context.Context, records []keys.Record, limit int) ([]Item, error) {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	out := make([]Item, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := s.item(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s Source) resolve(names []string) ([]keys.Record, error) {
	out := make([]keys.Record, 0, len(names))
	for _, name := range names {
		rec, ok := s.Keys.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSegment, name)
		}
		out = append(out, rec)
	}
	return out, nil
}
