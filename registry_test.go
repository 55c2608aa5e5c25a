package inibind

import (
	"reflect"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryGrowsLazily(t *testing.T) {
	reg := NewDefaultRegistry()
	assert.False(t, reg.has(reflect.TypeOf("")), "starts empty")

	c, err := reg.Get(reflect.TypeOf(""))
	require.NoError(t, err, "get string")
	require.NotNil(t, c, "get string")
	assert.True(t, reg.has(reflect.TypeOf("")), "cached after get")

	// the lazily built converter follows stock rules, not the
	// extended literal grammar
	c, err = reg.Get(reflect.TypeOf(int32(0)))
	require.NoError(t, err, "get int32")
	_, err = c.Parse("100h")
	assert.Error(t, err, "baseline int32 does not know suffix notation")
	v, err := c.Parse("100")
	require.NoError(t, err, "baseline int32 decimal")
	assert.Equal(t, int32(100), v, "baseline int32 decimal")
}

func TestExtendedRegistrySeeded(t *testing.T) {
	reg := NewExtendedRegistry()
	for _, typ := range []reflect.Type{
		reflect.TypeOf(false),
		reflect.TypeOf(int(0)),
		reflect.TypeOf(int8(0)),
		reflect.TypeOf(int16(0)),
		reflect.TypeOf(int32(0)),
		reflect.TypeOf(int64(0)),
		reflect.TypeOf(uint(0)),
		reflect.TypeOf(uint8(0)),
		reflect.TypeOf(uint16(0)),
		reflect.TypeOf(uint32(0)),
		reflect.TypeOf(uint64(0)),
		reflect.TypeOf(float32(0)),
		reflect.TypeOf(float64(0)),
	} {
		assert.True(t, reg.has(typ), "seeded with %s", typ)
	}
	c, err := reg.Get(reflect.TypeOf(int16(0)))
	require.NoError(t, err, "int16")
	v, err := c.Parse("0x7FFF")
	require.NoError(t, err, "0x7FFF")
	assert.Equal(t, int16(32767), v, "0x7FFF")
}

func TestRegistryUnsupportedType(t *testing.T) {
	reg := NewDefaultRegistry()
	_, err := reg.Get(reflect.TypeOf(func() {}))
	require.Error(t, err, "func type")
	assert.True(t, IsUnsupportedTypeError(err), "func type: %v", err)
}

type answerConverter struct{}

func (answerConverter) Parse(string) (interface{}, error)  { return int32(42), nil }
func (answerConverter) Format(interface{}) (string, error) { return "42", nil }

func TestRegistryRegisterOverrides(t *testing.T) {
	reg := NewExtendedRegistry()
	require.NoError(t, reg.Register(reflect.TypeOf(int32(0)), answerConverter{}), "register")
	c, err := reg.Get(reflect.TypeOf(int32(0)))
	require.NoError(t, err, "get")
	v, err := c.Parse("anything")
	require.NoError(t, err, "parse")
	assert.Equal(t, int32(42), v, "override wins")
}

func TestRegistryRefusesStringIdentity(t *testing.T) {
	reg := NewExtendedRegistry()
	identity, err := reg.Get(reflect.TypeOf(""))
	require.NoError(t, err, "string converter")

	err = reg.Register(reflect.TypeOf(int32(0)), identity)
	require.Error(t, err, "register identity")
	assert.True(t, IsArgumentError(err), "register identity: %v", err)

	// the int32 entry is untouched
	c, err := reg.Get(reflect.TypeOf(int32(0)))
	require.NoError(t, err, "get int32")
	v, err := c.Parse("0x10")
	require.NoError(t, err, "0x10")
	assert.Equal(t, int32(16), v, "0x10")
}

func TestRegistryLookupKeyContract(t *testing.T) {
	reg := NewExtendedRegistry()

	_, err := reg.Lookup("int32")
	require.Error(t, err, "string key")
	assert.True(t, IsArgumentError(err), "string key: %v", err)

	_, err = reg.Lookup(nil)
	require.Error(t, err, "nil key")
	assert.True(t, IsArgumentError(err), "nil key: %v", err)

	c, err := reg.Lookup(reflect.TypeOf(false))
	require.NoError(t, err, "type key")
	require.NotNil(t, c, "type key")

	err = reg.Register(reflect.TypeOf(0), nil)
	require.Error(t, err, "nil converter")
	assert.True(t, IsArgumentError(err), "nil converter: %v", err)
}

func TestRegistryConcurrentGet(t *testing.T) {
	reg := NewDefaultRegistry()
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := reg.Get(reflect.TypeOf(uint16(0)))
			if err != nil {
				errs <- err
				return
			}
			if _, err := c.Parse("99"); err != nil {
				errs <- errors.Wrap(err, "parse")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
