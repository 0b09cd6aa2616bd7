package ytag

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTemperature struct {
	Celsius float64
}

func registerTemperature(t *testing.T, reg *Registry, opts ...BindingOption) {
	t.Helper()
	err := RegisterScalar(reg,
		func(s string) (testTemperature, error) {
			v, err := strconv.ParseFloat(s, 64)
			return testTemperature{Celsius: v}, err
		},
		func(v testTemperature) (string, error) {
			return strconv.FormatFloat(v.Celsius, 'g', -1, 64), nil
		},
		append([]BindingOption{WithTag("Temperature")}, opts...)...)
	require.NoError(t, err)
}

func TestRegistryDuplicateTag(t *testing.T) {
	reg := New()
	registerTemperature(t, reg)

	err := RegisterScalar(reg,
		func(s string) (testTemperature, error) { return testTemperature{}, nil },
		func(v testTemperature) (string, error) { return "", nil },
		WithTag("Temperature"))

	var dup *DuplicateTagError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Temperature", dup.Tag)
	assert.Equal(t, KindScalar, dup.Kind)
}

func TestRegistrySameTagDifferentKind(t *testing.T) {
	// One tag may be bound once per kind; the namespaces are independent.
	reg := New()
	registerTemperature(t, reg)

	err := RegisterSequence(reg,
		func(items []any) ([]testTemperature, error) { return nil, nil },
		func(v []testTemperature) ([]any, error) { return nil, nil },
		WithTag("Temperature"))
	require.NoError(t, err)
}

func TestRegistryUnknownTag(t *testing.T) {
	reg := New()
	_, err := reg.Unmarshal([]byte("!NoSuchType 42"))
	var unknown *UnknownTagError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "NoSuchType", unknown.Tag)
}

func TestRegistryKindMismatch(t *testing.T) {
	reg := New()
	registerTemperature(t, reg)

	_, err := reg.Unmarshal([]byte("!Temperature {value: 3}"))
	var mismatch *KindMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Temperature", mismatch.Tag)
	assert.Equal(t, KindScalar, mismatch.Want)
	assert.Equal(t, KindMapping, mismatch.Got)
}

func TestRegistryUnavailableTag(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterUnavailable("Legacy", "removed in v3"))

	for _, doc := range []string{
		"!Legacy 5",
		"!Legacy {a: 1}",
		"!Legacy [1, 2]",
	} {
		_, err := reg.Unmarshal([]byte(doc))
		var na *NotAvailableError
		require.ErrorAs(t, err, &na, "doc %q", doc)
		assert.Equal(t, "Legacy", na.Tag)
		assert.Equal(t, "removed in v3", na.Reason)
	}
}

func TestRegistrySeal(t *testing.T) {
	reg := New()
	reg.Seal()
	assert.True(t, reg.Sealed())

	err := RegisterScalar(reg,
		func(s string) (testTemperature, error) { return testTemperature{}, nil },
		func(v testTemperature) (string, error) { return "", nil },
		WithTag("Temperature"))
	require.ErrorIs(t, err, ErrSealed)

	require.ErrorIs(t, reg.RegisterUnavailable("Legacy", "nope"), ErrSealed)

	err = RegisterImplicitScalar(reg, `\d+`,
		func(s string) (testTemperature, error) { return testTemperature{}, nil },
		func(v testTemperature) (string, error) { return "", nil },
		WithTag("Other"))
	require.ErrorIs(t, err, ErrSealed)
}

func TestRegistryBindingLookups(t *testing.T) {
	reg := New()
	registerTemperature(t, reg)
	reg.Seal()

	b, err := reg.Binding("Temperature", KindScalar)
	require.NoError(t, err)
	assert.Equal(t, "Temperature", b.Tag())
	assert.Equal(t, KindScalar, b.Kind())

	_, err = reg.Binding("Temperature", KindMapping)
	var mismatch *KindMismatchError
	require.ErrorAs(t, err, &mismatch)

	b, err = reg.BindingFor(testTemperature{})
	require.NoError(t, err)
	assert.Equal(t, "Temperature", b.Tag())

	_, err = reg.BindingFor("plain string")
	var unbound *UnboundTypeError
	require.ErrorAs(t, err, &unbound)
}

func TestRegistryClone(t *testing.T) {
	reg := New()
	registerTemperature(t, reg)
	reg.Seal()

	// A clone carries the bindings but reopens registration.
	clone := reg.Clone()
	assert.False(t, clone.Sealed())
	require.NoError(t, clone.RegisterUnavailable("Legacy", "removed in v3"))
	clone.Seal()

	v, err := clone.Unmarshal([]byte("!Temperature 21.5"))
	require.NoError(t, err)
	assert.Equal(t, testTemperature{Celsius: 21.5}, v)

	// The original never learns the clone's tags.
	_, err = reg.Unmarshal([]byte("!Legacy 1"))
	var unknown *UnknownTagError
	require.ErrorAs(t, err, &unknown)
}

func TestRegistryEncodeUnboundType(t *testing.T) {
	type notRegistered struct{ X int }

	reg := New()
	_, err := reg.EncodeValue(notRegistered{X: 1})
	var unbound *UnboundTypeError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, reflect.TypeOf(notRegistered{}), unbound.Type)
}

func TestRegistryEncodeRegisteredType(t *testing.T) {
	reg := New()
	registerTemperature(t, reg)
	reg.Seal()

	out, err := reg.Marshal(testTemperature{Celsius: 36.6})
	require.NoError(t, err)
	assert.Equal(t, "!Temperature 36.6\n", string(out))
}

func TestRegistryDefaultTagIsTypeName(t *testing.T) {
	type Pressure struct{ Pa float64 }

	reg := New()
	err := RegisterScalar(reg,
		func(s string) (Pressure, error) {
			v, err := strconv.ParseFloat(s, 64)
			return Pressure{Pa: v}, err
		},
		func(v Pressure) (string, error) {
			return strconv.FormatFloat(v.Pa, 'g', -1, 64), nil
		})
	require.NoError(t, err)

	v, err := reg.Unmarshal([]byte("!Pressure 101325"))
	require.NoError(t, err)
	assert.Equal(t, Pressure{Pa: 101325}, v)
}
