// Package timeframe maps the dashboard's human timeframe tokens (5m, 1h,
// daily, ...) to the upstream enum form and computes weighted confluence
// scores across timeframes.
package timeframe

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/suar-net/ghost-gateway/internal/model"
)

//go:embed timeframes.yaml
var defaultTable []byte

var (
	ErrUnknownTimeframe = errors.New("unknown timeframe")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNoTimeframes     = errors.New("no valid timeframes found for confluence calculation")
)

// Categories accepted by ByCategory.
const (
	ShortTerm  = "short_term"
	MediumTerm = "medium_term"
	LongTerm   = "long_term"
)

// apiFormats is the fixed canonical -> upstream enum mapping.
var apiFormats = map[string]string{
	"1m":  "minute1",
	"5m":  "minute5",
	"15m": "minute15",
	"30m": "minute30",
	"1h":  "hour1",
	"4h":  "hour4",
	"1d":  "daily",
	"1w":  "weekly",
	"1M":  "monthly",
}

// multiTemporalSet is the balanced set used for multi-timeframe analysis.
var multiTemporalSet = []string{"15m", "1h", "4h", "1d", "1w"}

// Table is an immutable timeframe configuration.
type Table struct {
	cfg    model.TimeframesConfigResponse
	byName map[string]int
}

var builtin = mustParse(defaultTable)

// Default returns the table compiled into the binary.
func Default() *Table {
	return builtin
}

// Parse decodes a YAML (or JSON) timeframe configuration.
func Parse(data []byte) (*Table, error) {
	var cfg model.TimeframesConfigResponse
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode timeframe table: %w", err)
	}
	return New(cfg)
}

// New builds a Table from an already decoded configuration, such as one
// fetched from the upstream's timeframes endpoint.
func New(cfg model.TimeframesConfigResponse) (*Table, error) {
	if len(cfg.Timeframes) == 0 {
		return nil, errors.New("timeframe table is empty")
	}

	byName := make(map[string]int, len(cfg.Timeframes))
	for i, tf := range cfg.Timeframes {
		if tf.Name == "" {
			return nil, fmt.Errorf("timeframe %d has no name", i)
		}
		if _, dup := byName[tf.Name]; dup {
			return nil, fmt.Errorf("duplicate timeframe %q", tf.Name)
		}
		if tf.Weight <= 0 {
			return nil, fmt.Errorf("timeframe %q must have a positive weight", tf.Name)
		}
		byName[tf.Name] = i
	}
	for alias, canonical := range cfg.Aliases {
		if _, ok := byName[canonical]; !ok {
			return nil, fmt.Errorf("alias %q points at unknown timeframe %q", alias, canonical)
		}
	}

	return &Table{cfg: cfg, byName: byName}, nil
}

func mustParse(data []byte) *Table {
	t, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Config returns a copy of the full configuration.
func (t *Table) Config() model.TimeframesConfigResponse {
	cfg := t.cfg
	cfg.Timeframes = t.Timeframes()
	return cfg
}

// Timeframes lists every timeframe in table order.
func (t *Table) Timeframes() []model.TimeframeMetadata {
	return slices.Clone(t.cfg.Timeframes)
}

// Lookup resolves a canonical name or alias to its metadata.
func (t *Table) Lookup(name string) (model.TimeframeMetadata, error) {
	if canonical, ok := t.cfg.Aliases[name]; ok {
		name = canonical
	}
	if i, ok := t.byName[name]; ok {
		return t.cfg.Timeframes[i], nil
	}
	for _, tf := range t.cfg.Timeframes {
		if slices.Contains(tf.Aliases, name) {
			return tf, nil
		}
	}
	return model.TimeframeMetadata{}, fmt.Errorf("%w: %s", ErrUnknownTimeframe, name)
}

// ToAPIFormat converts a canonical name or alias to the upstream enum token:
// "5m" -> "minute5", "daily" -> "daily", "1M" -> "monthly".
func (t *Table) ToAPIFormat(name string) (string, error) {
	tf, err := t.Lookup(name)
	if err != nil {
		return "", err
	}
	api, ok := apiFormats[tf.Name]
	if !ok {
		return "", fmt.Errorf("%w: %s has no API format", ErrUnknownTimeframe, tf.Name)
	}
	return api, nil
}

// Weight returns the confluence weight of a canonical name or alias.
func (t *Table) Weight(name string) (float64, error) {
	tf, err := t.Lookup(name)
	if err != nil {
		return 0, err
	}
	return tf.Weight, nil
}

// ByCategory lists the timeframes of one category in table order.
func (t *Table) ByCategory(category string) ([]model.TimeframeMetadata, error) {
	names, ok := t.cfg.Categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	var out []model.TimeframeMetadata
	for _, tf := range t.cfg.Timeframes {
		if slices.Contains(names, tf.Name) {
			out = append(out, tf)
		}
	}
	return out, nil
}

// MultiTemporal returns the recommended analysis set ordered by ascending weight.
func (t *Table) MultiTemporal() []model.TimeframeMetadata {
	var out []model.TimeframeMetadata
	for _, tf := range t.cfg.Timeframes {
		if slices.Contains(multiTemporalSet, tf.Name) {
			out = append(out, tf)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}

// Confluence is the weight-normalised average of scores keyed by timeframe
// name or alias. Unrecognised keys are ignored; it is an error when none
// remain.
func (t *Table) Confluence(scores map[string]float64) (float64, error) {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var weighted, total float64
	for _, k := range keys {
		w, err := t.Weight(k)
		if err != nil {
			continue
		}
		weighted += scores[k] * w
		total += w
	}
	if total <= 0 {
		return 0, ErrNoTimeframes
	}
	return weighted / total, nil
}
