package record

import (
	"fmt"
	"strconv"
)

// Value kinds as they appear in write events.
const (
	kindText  = "text"
	kindBytes = "bytes"
	kindInt   = "int"
	kindFloat = "float"
)

// Decoder converts stored bytes back into a caller-facing value.
// A nil Decoder passed to Get returns the raw bytes untouched.
type Decoder func(data []byte) (any, error)

func TextDecoder(data []byte) (any, error) {
	return string(data), nil
}

func IntDecoder(data []byte) (any, error) {
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func FloatDecoder(data []byte) (any, error) {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// encodeValue flattens a supported scalar into bytes plus its kind label.
// Strings and byte slices are stored verbatim, numbers in their shortest
// decimal form.
func encodeValue(value any) ([]byte, string, *RecordError) {
	switch v := value.(type) {
	case string:
		return []byte(v), kindText, nil
	case []byte:
		return v, kindBytes, nil
	case int:
		return []byte(strconv.FormatInt(int64(v), 10)), kindInt, nil
	case int64:
		return []byte(strconv.FormatInt(v, 10)), kindInt, nil
	case float64:
		return []byte(strconv.FormatFloat(v, 'g', -1, 64)), kindFloat, nil
	default:
		return nil, "", &RecordError{
			Message:   fmt.Sprintf("cannot store values of type %T", value),
			Retryable: false,
			Cause:     ErrCauseUnsupportedKind,
		}
	}
}
