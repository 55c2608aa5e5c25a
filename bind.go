package inibind

import (
	"encoding"
	"reflect"
	"sync"

	"github.com/AlekSi/pointer"
	"github.com/muir/commonerrors"
	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// Validate is a subset of the Validate provided by
// https://github.com/go-playground/validator, allowing
// other implementations to be provided if desired
type Validate interface {
	Struct(s interface{}) error
}

// Binder populates struct fields from the flat (section, entry) raw
// values an external format loader supplies, using a Registry to turn
// text into typed values.  A Binder is safe for concurrent use; each
// Bind call is self-contained and touches nothing but its target.
type Binder struct {
	registry    *Registry
	tagName     string
	validator   Validate
	lock        sync.Mutex
	descriptors map[reflect.Type]*modelDescriptor
}

type BinderFuncArg func(*Binder)

// WithRegistry selects the converter registry to bind with.  The
// default is a fresh NewExtendedRegistry().
func WithRegistry(registry *Registry) BinderFuncArg {
	return func(b *Binder) {
		b.registry = registry
	}
}

// WithTag overrides the struct tag the binder reads routing from.
// The default tag is "ini".
func WithTag(tagName string) BinderFuncArg {
	return func(b *Binder) {
		b.tagName = tagName
	}
}

// WithValidate adds a post-bind validation step.  Validation failures
// are hard errors.
func WithValidate(v Validate) BinderFuncArg {
	return func(b *Binder) {
		b.validator = v
	}
}

func NewBinder(options ...BinderFuncArg) *Binder {
	b := &Binder{
		registry:    NewExtendedRegistry(),
		tagName:     "ini",
		descriptors: make(map[reflect.Type]*modelDescriptor),
	}
	for _, f := range options {
		f(b)
	}
	return b
}

// Per-field routing lives in the binder's struct tag:
//
//	type Web struct {
//		Host  string `ini:"host"`
//		Ports []int  `ini:"port,section=listen"`
//		Skip  string `ini:"-"`
//	}
//
// The positional name overrides the entry name (default: the field
// name).  "section" overrides the section (default: the name of the
// struct type declaring the field).  "partial" controls what happens
// when some elements of a sequence fail to convert: true (the
// default) keeps the elements that did convert, false discards the
// whole assignment.
type bindTag struct {
	Name    string `pt:"0"`
	Section string `pt:"section"`
	Partial *bool  `pt:"partial"`
}

type fieldBinding struct {
	fieldName string
	index     []int
	key       Key
	isPtr     bool
	sequence  bool
	partial   bool
	valueType reflect.Type // field type with any pointer removed
	convType  reflect.Type // type whose converter does the work
}

type modelDescriptor struct {
	fields []fieldBinding
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// descriptor builds (or fetches) the binding schema for a struct
// type.  It is derived once and reused for every Bind and Export of
// that type.
func (b *Binder) descriptor(t reflect.Type) (*modelDescriptor, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if d, ok := b.descriptors[t]; ok {
		return d, nil
	}
	d := &modelDescriptor{}
	err := b.walkFields(t, nil, d)
	if err != nil {
		return nil, err
	}
	debugf("bind: descriptor for %s has %d entries", t, len(d.fields))
	b.descriptors[t] = d
	return d, nil
}

func (b *Binder) walkFields(t reflect.Type, index []int, d *modelDescriptor) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		var tag bindTag
		err := reflectutils.SplitTag(f.Tag).Set().Get(b.tagName).Fill(&tag)
		if err != nil {
			return commonerrors.ProgrammerError(errors.Wrap(err, f.Name))
		}
		if tag.Name == "-" {
			continue
		}
		if tag.Partial == nil {
			tag.Partial = pointer.ToBool(true)
		}
		idx := make([]int, len(index), len(index)+1)
		copy(idx, index)
		idx = append(idx, i)

		ft := f.Type
		isPtr := ft.Kind() == reflect.Ptr
		if isPtr {
			ft = ft.Elem()
		}
		if !isPtr && ft.Kind() == reflect.Struct &&
			tag.Name == "" && tag.Section == "" && !b.bindableStruct(ft) {
			err := b.walkFields(ft, idx, d)
			if err != nil {
				return errors.Wrap(err, f.Name)
			}
			continue
		}

		fb := fieldBinding{
			fieldName: f.Name,
			index:     idx,
			isPtr:     isPtr,
			partial:   pointer.GetBool(tag.Partial),
			valueType: ft,
			convType:  ft,
		}
		switch ft.Kind() {
		case reflect.Slice, reflect.Array:
			fb.sequence = true
			fb.convType = ft.Elem()
		}
		fb.key = Key{
			Section: tag.Section,
			Entry:   tag.Name,
		}
		if fb.key.Section == "" {
			fb.key.Section = t.Name()
		}
		if fb.key.Entry == "" {
			fb.key.Entry = f.Name
		}
		d.fields = append(d.fields, fb)
	}
	return nil
}

// bindableStruct reports struct types that convert as a single value
// (language.Tag, time.Time, anything with a registered converter)
// rather than being descended into field by field.
func (b *Binder) bindableStruct(t reflect.Type) bool {
	if reflect.PtrTo(t).Implements(textUnmarshalerType) {
		return true
	}
	return b.registry.has(t)
}

// Failure records one raw value that could not be converted during a
// best-effort bind.  The destination field keeps its previous value.
type Failure struct {
	Key   Key
	Field string
	Raw   string
	Err   error
}

// Bind populates model (a non-nil pointer to a struct) from values.
// Binding is best-effort: entries missing from values and raw text
// that fails to convert leave the destination field unchanged, and
// binding continues with the remaining fields.  Hard errors --
// a destination type no converter can serve, registry misuse, or a
// validation failure -- abort and surface to the caller.
func (b *Binder) Bind(model interface{}, values Values) error {
	_, err := b.BindCollect(model, values)
	return err
}

// BindCollect is Bind, additionally reporting the conversion failures
// that best-effort binding skipped over.
func (b *Binder) BindCollect(model interface{}, values Values) ([]Failure, error) {
	v := reflect.ValueOf(model)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Type().Elem().Kind() != reflect.Struct {
		return nil, commonerrors.ProgrammerError(errors.Errorf(
			"bind target must be a non-nil pointer to a struct, not %T", model))
	}
	root := v.Elem()
	d, err := b.descriptor(root.Type())
	if err != nil {
		return nil, err
	}
	var failures []Failure
	for _, fb := range d.fields {
		raws, ok := values.Lookup(fb.key.Section, fb.key.Entry)
		if !ok {
			continue
		}
		converter, err := b.registry.Get(fb.convType)
		if err != nil {
			return failures, errors.Wrap(err, fb.fieldName)
		}
		target := root.FieldByIndex(fb.index)
		if fb.sequence {
			f, err := bindSequence(target, fb, converter, raws)
			failures = append(failures, f...)
			if err != nil {
				return failures, errors.Wrap(err, fb.fieldName)
			}
			continue
		}
		// a scalar entry repeated in the source takes the last value
		raw := raws[len(raws)-1]
		parsed, err := converter.Parse(raw)
		if err != nil {
			if IsFormatError(err) || IsOverflowError(err) {
				debug("bind: skipping", fb.fieldName, "-", err)
				failures = append(failures, Failure{
					Key:   fb.key,
					Field: fb.fieldName,
					Raw:   raw,
					Err:   err,
				})
				continue
			}
			return failures, errors.Wrap(err, fb.fieldName)
		}
		converted, err := coerce(parsed, fb.convType)
		if err != nil {
			return failures, errors.Wrap(err, fb.fieldName)
		}
		assign(target, fb, converted)
	}
	if b.validator != nil {
		err := b.validator.Struct(model)
		if err != nil {
			return failures, commonerrors.ConfigurationError(errors.Wrap(err, root.Type().String()))
		}
	}
	return failures, nil
}

// bindSequence converts each raw value independently and assigns a
// freshly built sequence.  With partial=true (the default) elements
// that fail are dropped and the survivors are kept in order; with
// partial=false, or when nothing converts, the field is untouched.
func bindSequence(target reflect.Value, fb fieldBinding, converter ValueConverter, raws []string) ([]Failure, error) {
	var failures []Failure
	converted := make([]reflect.Value, 0, len(raws))
	for _, raw := range raws {
		parsed, err := converter.Parse(raw)
		if err != nil {
			if IsFormatError(err) || IsOverflowError(err) {
				failures = append(failures, Failure{
					Key:   fb.key,
					Field: fb.fieldName,
					Raw:   raw,
					Err:   err,
				})
				continue
			}
			return failures, err
		}
		v, err := coerce(parsed, fb.convType)
		if err != nil {
			return failures, err
		}
		converted = append(converted, v)
	}
	if len(converted) == 0 {
		return failures, nil
	}
	if len(failures) > 0 && !fb.partial {
		return failures, nil
	}
	var out reflect.Value
	switch fb.valueType.Kind() {
	case reflect.Slice:
		out = reflect.MakeSlice(fb.valueType, len(converted), len(converted))
		for i, v := range converted {
			out.Index(i).Set(v)
		}
	case reflect.Array:
		out = reflect.New(fb.valueType).Elem()
		for i := 0; i < len(converted) && i < out.Len(); i++ {
			out.Index(i).Set(converted[i])
		}
	}
	assign(target, fb, out)
	return failures, nil
}

func assign(target reflect.Value, fb fieldBinding, v reflect.Value) {
	if fb.isPtr {
		p := reflect.New(fb.valueType)
		p.Elem().Set(v)
		target.Set(p)
		return
	}
	target.Set(v)
}

// coerce bridges the converter's returned value to the destination
// type.  Registered converters normally produce the exact type; a
// mismatch that cannot be converted is a broken converter contract.
func coerce(parsed interface{}, t reflect.Type) (reflect.Value, error) {
	v := reflect.ValueOf(parsed)
	if !v.IsValid() {
		return reflect.Value{}, commonerrors.LibraryError(errors.Errorf("converter for %s produced no value", t))
	}
	if v.Type() == t {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, commonerrors.LibraryError(errors.Errorf("converter produced %s where %s was needed", v.Type(), t))
}

// Export walks the same descriptor in the opposite direction,
// formatting each bound field's current value so an external loader
// can merge the result back into its own serialization.  Sequence
// fields produce one raw string per element.  Nil pointer fields are
// omitted.
func (b *Binder) Export(model interface{}) (Values, error) {
	v := reflect.ValueOf(model)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Type().Elem().Kind() != reflect.Struct {
		return nil, commonerrors.ProgrammerError(errors.Errorf(
			"export source must be a non-nil pointer to a struct, not %T", model))
	}
	root := v.Elem()
	d, err := b.descriptor(root.Type())
	if err != nil {
		return nil, err
	}
	out := make(Values)
	for _, fb := range d.fields {
		field := root.FieldByIndex(fb.index)
		if fb.isPtr {
			if field.IsNil() {
				continue
			}
			field = field.Elem()
		}
		if field.Kind() == reflect.Interface && field.IsNil() {
			continue
		}
		converter, err := b.registry.Get(fb.convType)
		if err != nil {
			return nil, errors.Wrap(err, fb.fieldName)
		}
		if fb.sequence {
			for i := 0; i < field.Len(); i++ {
				text, err := converter.Format(field.Index(i).Interface())
				if err != nil {
					return nil, errors.Wrap(err, fb.fieldName)
				}
				out.Add(fb.key.Section, fb.key.Entry, text)
			}
			continue
		}
		text, err := converter.Format(field.Interface())
		if err != nil {
			return nil, errors.Wrap(err, fb.fieldName)
		}
		out.Add(fb.key.Section, fb.key.Entry, text)
	}
	return out, nil
}
