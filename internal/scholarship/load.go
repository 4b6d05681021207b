package scholarship

import (
	_ "embed"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var recordSchema string

var schemaLoader = gojsonschema.NewStringLoader(recordSchema)

// LoadFile reads a YAML or JSON list of records. Any record breaking the shape contract fails the
// whole load.
func LoadFile(path string) (*Records, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scholarships file %q: %w", path, err)
	}

	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// Parse decodes records from YAML or JSON bytes. Records without an id get a fresh UUID.
func Parse(data []byte) (*Records, error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	records := &Records{Items: make([]*Record, 0, len(raw))}
	for idx, item := range raw {
		record, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("record #%d: %w", idx, err)
		}
		records.Items = append(records.Items, record)
	}

	if err := records.Validate(); err != nil {
		return nil, err
	}

	return records, nil
}

func decodeRecord(item any) (*Record, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a mapping, got %T", ErrMalformedRecord, item)
	}

	if err := validateSchema(fields); err != nil {
		return nil, err
	}

	var record Record
	cfg := &mapstructure.DecoderConfig{
		Result:           &record,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(timeToStringHook),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	provider, err := ParseProvider(string(record.Provider))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	record.Provider = provider

	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	if record.Requirements.Docs == nil {
		record.Requirements.Docs = []string{}
	}
	if record.Requirements.Essays == nil {
		record.Requirements.Essays = []string{}
	}

	return &record, nil
}

// timeToStringHook keeps unquoted YAML dates such as `deadline: 2026-03-01` as free text.
func timeToStringHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	t, ok := data.(time.Time)
	if !ok || to.Kind() != reflect.String {
		return data, nil
	}
	if t.Equal(t.Truncate(24*time.Hour)) && t.Location() == time.UTC {
		return t.Format(time.DateOnly), nil
	}
	return t.Format(time.RFC3339), nil
}

func validateSchema(fields map[string]any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(fields))
	if err != nil {
		return fmt.Errorf("%w: schema validation: %w", ErrMalformedRecord, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrMalformedRecord, strings.Join(errs, "; "))
	}

	return nil
}
