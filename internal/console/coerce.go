package console

import (
	"reflect"
	"regexp"
	"strconv"
)

var (
	// Numeric fields keep digits and minus signs; float fields also keep dots.
	intStrip   = regexp.MustCompile(`[^\d-]`)
	floatStrip = regexp.MustCompile(`[^\d.-]`)
)

// Coerce converts operator text into a value of p's type. It returns the
// typed value and the text the field should display afterwards. Numeric
// parse failures fall back to the zero value, never the previous value.
// Bool fields are toggles: text is the toggle's "True"/"False" rendering.
func Coerce(text string, p Param) (reflect.Value, string) {
	zero := reflect.New(p.Type).Elem()

	switch p.Kind {
	case KindString:
		v := reflect.New(p.Type).Elem()
		v.SetString(text)
		return v, text

	case KindInt:
		stripped := intStrip.ReplaceAllString(text, "")
		v := reflect.New(p.Type).Elem()
		switch p.Type.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(stripped, 10, p.Type.Bits())
			if err != nil {
				return zero, stripped
			}
			v.SetUint(n)
		default:
			n, err := strconv.ParseInt(stripped, 10, p.Type.Bits())
			if err != nil {
				return zero, stripped
			}
			v.SetInt(n)
		}
		return v, stripped

	case KindFloat:
		stripped := floatStrip.ReplaceAllString(text, "")
		f, err := strconv.ParseFloat(stripped, p.Type.Bits())
		if err != nil {
			return zero, stripped
		}
		v := reflect.New(p.Type).Elem()
		v.SetFloat(f)
		return v, stripped

	case KindBool:
		b, _ := strconv.ParseBool(text)
		v := reflect.New(p.Type).Elem()
		v.SetBool(b)
		return v, FormatBool(b)
	}

	return zero, ""
}

// ZeroField returns the initial value and display text for a new form field.
func ZeroField(p Param) (reflect.Value, string) {
	zero := reflect.New(p.Type).Elem()
	switch p.Kind {
	case KindInt, KindFloat:
		return zero, "0"
	case KindBool:
		return zero, FormatBool(false)
	default:
		return zero, ""
	}
}

// FormatBool renders a toggle state the way the form displays it.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
