package inibind

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/language"
)

// Registry is a type-keyed store of ValueConverters.  Lookups for
// types with no entry synthesize a baseline converter lazily and
// cache it, so Get never hands back a nil converter without an error.
//
// Registries are safe for concurrent use: the lazy insert during Get
// is the only mutation after construction and runs under the lock.
type Registry struct {
	lock       sync.Mutex
	converters map[reflect.Type]ValueConverter
}

// NewDefaultRegistry creates an empty registry that grows lazily as
// types are looked up.
func NewDefaultRegistry() *Registry {
	return &Registry{
		converters: make(map[reflect.Type]ValueConverter),
	}
}

// NewExtendedRegistry creates a registry pre-seeded with converters
// that understand multi-base integer notation (0xFF, FFh, 0o77, 77o,
// 0b101, 101b), the relaxed boolean vocabulary (yes/no/on/off and
// numerics), locale tags, and IANA encoding names.  This is the
// registry the binder uses unless told otherwise.
func NewExtendedRegistry() *Registry {
	r := NewDefaultRegistry()
	r.converters[reflect.TypeOf(false)] = boolConverter{}
	r.converters[reflect.TypeOf("")] = stringConverter{}
	for _, t := range []reflect.Type{
		reflect.TypeOf(int(0)),
		reflect.TypeOf(int8(0)),
		reflect.TypeOf(int16(0)),
		reflect.TypeOf(int32(0)),
		reflect.TypeOf(int64(0)),
	} {
		r.converters[t] = intConverter{typ: t, bitSize: t.Bits()}
	}
	for _, t := range []reflect.Type{
		reflect.TypeOf(uint(0)),
		reflect.TypeOf(uint8(0)),
		reflect.TypeOf(uint16(0)),
		reflect.TypeOf(uint32(0)),
		reflect.TypeOf(uint64(0)),
	} {
		r.converters[t] = uintConverter{typ: t, bitSize: t.Bits()}
	}
	for _, t := range []reflect.Type{
		reflect.TypeOf(float32(0)),
		reflect.TypeOf(float64(0)),
	} {
		r.converters[t] = floatConverter{typ: t, bitSize: t.Bits()}
	}
	r.converters[reflect.TypeOf(language.Tag{})] = localeConverter{}
	r.converters[reflect.TypeOf((*textencoding.Encoding)(nil)).Elem()] = encodingConverter{}
	return r
}

// Get returns the converter for t, synthesizing and caching a
// baseline converter when none is registered.  Types with no
// baseline conversion strategy report UnsupportedTypeError.
func (r *Registry) Get(t reflect.Type) (ValueConverter, error) {
	if t == nil {
		return nil, ArgumentError(errors.New("converter lookup requires a type"))
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if c, ok := r.converters[t]; ok {
		return c, nil
	}
	c, err := newBaselineConverter(t)
	if err != nil {
		return nil, err
	}
	debug("registry: synthesized baseline converter for", t)
	r.converters[t] = c
	return c, nil
}

// has reports whether t already has an entry, without triggering the
// lazy baseline synthesis that Get performs.
func (r *Registry) has(t reflect.Type) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	_, ok := r.converters[t]
	return ok
}

// Register inserts or replaces the converter for t.  The string
// identity converter is refused with ArgumentError, leaving any
// existing entry untouched: string conversion is always identity and
// may not be shadowed.
func (r *Registry) Register(t reflect.Type, converter ValueConverter) error {
	if t == nil {
		return ArgumentError(errors.New("converter registration requires a type"))
	}
	if converter == nil {
		return ArgumentError(errors.Errorf("nil converter for %s", t))
	}
	if _, ok := converter.(stringConverter); ok {
		return ArgumentError(errors.Errorf("the string identity converter cannot be registered for %s", t))
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.converters[t] = converter
	return nil
}

// Lookup is index-style access to the registry.  The key must be a
// non-nil reflect.Type; anything else is an ArgumentError.  With a
// valid key it behaves exactly like Get.
func (r *Registry) Lookup(key interface{}) (ValueConverter, error) {
	t, ok := key.(reflect.Type)
	if !ok || t == nil {
		return nil, ArgumentError(errors.Errorf("registry keys must be types, got %T", key))
	}
	return r.Get(t)
}
