package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field limits, in characters
const (
	ParamsLimit   = 2000
	DataLimit     = 5000
	ResponseLimit = 2000
)

const ellipsis = "..."

// Markers stored in place of values that could not be captured
const (
	MarkerParamsUnreadable   = "[parameters unreadable]"
	MarkerResponseUnreadable = "[response unreadable]"
)

// Truncate cuts s to limit characters and appends an ellipsis when anything was cut
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + ellipsis
}

// placeholder substitutes values that cannot be meaningfully serialized
func placeholder(arg any) (string, bool) {
	switch v := arg.(type) {
	case *multipart.FileHeader:
		if v == nil {
			return "", false
		}
		return fmt.Sprintf("[File: %s, size: %d bytes]", v.Filename, v.Size), true
	case []byte:
		return fmt.Sprintf("[Binary: %d bytes]", len(v)), true
	case *http.Request:
		return "[HttpRequest]", true
	case http.ResponseWriter:
		return "[HttpResponse]", true
	case io.Reader:
		return "[InputStream]", true
	case io.Writer:
		return "[OutputStream]", true
	}
	return "", false
}

func sanitizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		if p, ok := placeholder(arg); ok {
			out[i] = p
			continue
		}
		out[i] = arg
	}
	return out
}

func marshal(v any) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during serialization: %v", r)
		}
	}()
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// serializeArgs renders the call arguments for the request-params field
func serializeArgs(args []any) string {
	s, err := marshal(sanitizeArgs(args))
	if err != nil {
		return MarkerParamsUnreadable
	}
	return Truncate(s, ParamsLimit)
}

// serializeData renders an entity snapshot, degrading to an error marker
func serializeData(v any) string {
	s, err := marshal(v)
	if err != nil {
		return serializationFailed(err)
	}
	return Truncate(s, DataLimit)
}

func serializeResponse(v any) string {
	s, err := marshal(v)
	if err != nil {
		return MarkerResponseUnreadable
	}
	return Truncate(s, ResponseLimit)
}

func lookupFailed(err error) string {
	return Truncate("[lookup failed: "+err.Error()+"]", DataLimit)
}

func serializationFailed(err error) string {
	return Truncate("[serialization failed: "+err.Error()+"]", DataLimit)
}

// firstObject returns the first argument that is neither nil, a primitive nor a string
func firstObject(args []any) (any, bool) {
	for _, arg := range args {
		if _, ok := placeholder(arg); ok {
			continue
		}
		if isObject(arg) {
			return arg, true
		}
	}
	return nil, false
}

func isObject(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Invalid, reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}
	return true
}

// CoerceID converts an id argument of any integer, integral float or numeric string form to uint
func CoerceID(v any) (uint, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return 0, fmt.Errorf("id argument is nil")
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < 0 {
			return 0, fmt.Errorf("id argument %d is negative", n)
		}
		return uint(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f < 0 || f != math.Trunc(f) || f > math.MaxUint32 {
			return 0, fmt.Errorf("id argument %v is not a valid id", f)
		}
		return uint(f), nil
	case reflect.String:
		n, err := strconv.ParseUint(strings.TrimSpace(rv.String()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("id argument %q is not numeric", rv.String())
		}
		return uint(n), nil
	}
	return 0, fmt.Errorf("id argument of type %T is not supported", v)
}
