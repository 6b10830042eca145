package scoring

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ValidatePercentage returns the canonical form of a percentage-bearing
// value. Accepted values are the OVERQUALIFIED sentinel in any letter case
// and an integer in [0,100] followed by '%'. Anything else yields false.
func ValidatePercentage(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if strings.EqualFold(value, Overqualified) {
		return Overqualified, true
	}

	number, ok := strings.CutSuffix(value, "%")
	if !ok {
		return "", false
	}

	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil || n < 0 || n > 100 {
		return "", false
	}

	return strconv.Itoa(n) + "%", true
}

// Validation describes how a located object was turned into a Record.
type Validation struct {
	// Invalid lists keys whose values were present but rejected.
	Invalid []string
	// Unused lists top-level keys the schema does not read.
	Unused []string
}

// Validate maps a decoded top-level object onto a Record. Only top-level
// keys are read and they must match exactly; values that are not strings
// count as missing.
func Validate(obj map[string]any, schema Schema) (Record, Validation, error) {
	var (
		record Record
		meta   mapstructure.Metadata
		report Validation
	)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringsOnly,
		MatchName:  exactKey,
		Metadata:   &meta,
		Result:     &record,
	})
	if err != nil {
		return Record{}, report, fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := decoder.Decode(obj); err != nil {
		return Record{}, report, fmt.Errorf("failed to decode record: %w", err)
	}

	if schema == SchemaSimple {
		record.clearBreakdown()
	}

	for key, field := range record.percentageFields() {
		if *field == "" {
			continue
		}
		canonical, ok := ValidatePercentage(*field)
		if !ok {
			report.Invalid = append(report.Invalid, key)
		}
		*field = canonical
	}

	report.Unused = meta.Unused
	sort.Strings(report.Invalid)
	sort.Strings(report.Unused)

	return record, report, nil
}

// stringsOnly blanks non-string values headed for string fields so that
// numbers, objects and arrays read as missing rather than failing the decode.
func stringsOnly(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if from == nil || from.Kind() != reflect.String {
		return "", nil
	}
	return data, nil
}

// exactKey keeps key matching case-sensitive, as JSON keys are.
func exactKey(mapKey, fieldName string) bool {
	return mapKey == fieldName
}
