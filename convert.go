package inibind

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/language"
)

// ValueConverter is a bidirectional text/value transformation for a
// single destination type.  Parse turns raw configuration text into a
// value of that type; Format renders such a value back to text.
//
// Parse reports undecodable text with FormatError and out-of-range
// numerics with OverflowError.  Format reports a value of the wrong
// type with ArgumentError.  Converters are stateless and safe for
// concurrent use.
type ValueConverter interface {
	Parse(text string) (interface{}, error)
	Format(value interface{}) (string, error)
}

// boolConverter accepts the relaxed boolean vocabulary plus any
// integer literal (nonzero is true).  Formatting always produces the
// canonical "True"/"False", never the spelling that was parsed.
type boolConverter struct{}

func (boolConverter) Parse(text string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	n, err := ParseInt(text, 64)
	if err != nil {
		return nil, FormatError(errors.Errorf("%q is not a boolean", strings.TrimSpace(text)))
	}
	return n != 0, nil
}

func (boolConverter) Format(value interface{}) (string, error) {
	b, ok := value.(bool)
	if !ok {
		return "", ArgumentError(errors.Errorf("expected bool, got %T", value))
	}
	if b {
		return "True", nil
	}
	return "False", nil
}

// intConverter handles one signed width.  The parsed value is already
// the exact destination type so binding can assign it directly.
type intConverter struct {
	typ     reflect.Type
	bitSize int
}

func (c intConverter) Parse(text string) (interface{}, error) {
	n, err := ParseInt(text, c.bitSize)
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(n).Convert(c.typ).Interface(), nil
}

func (c intConverter) Format(value interface{}) (string, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Type() != c.typ {
		return "", ArgumentError(errors.Errorf("expected %s, got %T", c.typ, value))
	}
	return strconv.FormatInt(v.Int(), 10), nil
}

type uintConverter struct {
	typ     reflect.Type
	bitSize int
}

func (c uintConverter) Parse(text string) (interface{}, error) {
	n, err := ParseUint(text, c.bitSize)
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(n).Convert(c.typ).Interface(), nil
}

func (c uintConverter) Format(value interface{}) (string, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Type() != c.typ {
		return "", ArgumentError(errors.Errorf("expected %s, got %T", c.typ, value))
	}
	return strconv.FormatUint(v.Uint(), 10), nil
}

// floatConverter tries plain decimal first and falls back to the
// integer literal grammar only when the text carries a base marker.
// Formatting uses the shortest decimal rendering; original base
// notation is not round-tripped.
type floatConverter struct {
	typ     reflect.Type
	bitSize int
}

func (c floatConverter) Parse(text string) (interface{}, error) {
	s := strings.TrimSpace(text)
	f, err := strconv.ParseFloat(s, c.bitSize)
	if err != nil {
		if hasBaseIndicator(s) {
			n, nerr := ParseInt(s, 64)
			if nerr != nil {
				return nil, nerr
			}
			f = float64(n)
		} else if errors.Is(err, strconv.ErrRange) {
			return nil, OverflowError(errors.Errorf("%q does not fit in a %d-bit float", text, c.bitSize))
		} else {
			return nil, FormatError(errors.Errorf("%q is not a valid number", text))
		}
	}
	return reflect.ValueOf(f).Convert(c.typ).Interface(), nil
}

func (c floatConverter) Format(value interface{}) (string, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Type() != c.typ {
		return "", ArgumentError(errors.Errorf("expected %s, got %T", c.typ, value))
	}
	return strconv.FormatFloat(v.Float(), 'g', -1, c.bitSize), nil
}

// localeConverter resolves BCP 47 tags such as "en-US".
type localeConverter struct{}

func (localeConverter) Parse(text string) (interface{}, error) {
	tag, err := language.Parse(strings.TrimSpace(text))
	if err != nil {
		return nil, FormatError(errors.Wrapf(err, "%q is not a recognized locale", strings.TrimSpace(text)))
	}
	return tag, nil
}

func (localeConverter) Format(value interface{}) (string, error) {
	tag, ok := value.(language.Tag)
	if !ok {
		return "", ArgumentError(errors.Errorf("expected language.Tag, got %T", value))
	}
	return tag.String(), nil
}

// encodingConverter resolves IANA character set names such as "utf-8".
type encodingConverter struct{}

func (encodingConverter) Parse(text string) (interface{}, error) {
	name := strings.TrimSpace(text)
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, FormatError(errors.Wrapf(err, "%q is not a recognized encoding", name))
	}
	if enc == nil {
		// registered with IANA but not implemented here
		return nil, FormatError(errors.Errorf("encoding %q is not available", name))
	}
	return enc, nil
}

func (encodingConverter) Format(value interface{}) (string, error) {
	enc, ok := value.(textencoding.Encoding)
	if !ok {
		return "", ArgumentError(errors.Errorf("expected encoding.Encoding, got %T", value))
	}
	name, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return "", ArgumentError(errors.Wrap(err, "encoding has no IANA name"))
	}
	return name, nil
}

// stringConverter is the identity conversion.  It exists so Get can
// answer for string destinations; Register refuses it so the identity
// can never be shadowed.
type stringConverter struct{}

func (stringConverter) Parse(text string) (interface{}, error) { return text, nil }

func (stringConverter) Format(value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", ArgumentError(errors.Errorf("expected string, got %T", value))
	}
	return s, nil
}

// baselineConverter is synthesized on demand for types with no
// registered converter, delegating to the stock string conversion
// rules for the type.
type baselineConverter struct {
	typ    reflect.Type
	setter func(reflect.Value, string) error
}

func newBaselineConverter(t reflect.Type) (ValueConverter, error) {
	setter, err := reflectutils.MakeStringSetter(t)
	if err != nil {
		return nil, UnsupportedTypeError(errors.Wrapf(err, "no conversion available for %s", t))
	}
	return baselineConverter{
		typ:    t,
		setter: setter,
	}, nil
}

func (c baselineConverter) Parse(text string) (interface{}, error) {
	v := reflect.New(c.typ).Elem()
	err := c.setter(v, text)
	if err != nil {
		return nil, FormatError(errors.Wrapf(err, "cannot convert %q to %s", text, c.typ))
	}
	return v.Interface(), nil
}

func (c baselineConverter) Format(value interface{}) (string, error) {
	if reflect.TypeOf(value) != c.typ {
		return "", ArgumentError(errors.Errorf("expected %s, got %T", c.typ, value))
	}
	if m, ok := value.(encoding.TextMarshaler); ok {
		b, err := m.MarshalText()
		if err != nil {
			return "", errors.Wrapf(err, "format %s", c.typ)
		}
		return string(b), nil
	}
	return fmt.Sprint(value), nil
}
