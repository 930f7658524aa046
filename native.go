package asn1crypto

/*
native.go adds the consumer-facing Load/Dump/Native/Retag/Untag/Copy
surface spec.md §6.1 names as the minimum external interface, as thin
wrappers over the teacher's Marshal/Unmarshal/PDU machinery. It is the
module's only new entry point for the "native form" conversion
described in spec.md §3.3/§6.1 (a recursive, language-neutral
materialization of a decoded value: maps for SEQUENCE/SET, slices for
SEQUENCE OF/SET OF, strings for OIDs, byte strings for OCTET STRING,
timestamps for time types, and so on).
*/

import (
	"reflect"
	"time"
)

/*
Load decodes data against x (a non-nil pointer to a schema struct,
exactly as required by [Unmarshal]) using [DefaultEncoding]. When
strict is true, any bytes left over after the outermost TLV cause a
[KindTrailingBytes] error, per spec.md's decode invariant 3 (BER
tolerance) and testable property 4 (strict rejection).
*/
func Load(data []byte, x any, strict bool) error {
	if strict {
		full, err := parseFullBytes(data, 0, DefaultEncoding)
		if err != nil {
			return err
		}
		if len(full) < len(data) {
			return kindErrorf(KindTrailingBytes,
				"Load: ", len(data)-len(full), " trailing byte(s) after outermost TLV")
		}
	}

	pkt := DefaultEncoding.New(data...)
	pkt.SetOffset(0)
	return Unmarshal(pkt, x)
}

/*
Dump serializes x (a schema struct, or pointer to one) to DER and
returns the encoded bytes. force exists for API symmetry with spec.md's
dump(force) contract; this module always emits DER regardless, since
[Marshal] has no BER-preserving "as loaded" path to fall back from.
*/
func Dump(x any, force ...bool) ([]byte, error) {
	pkt, err := Marshal(x, With(DER))
	if err != nil {
		return nil, err
	}
	return pkt.Data(), nil
}

/*
Copy returns a deep copy of x by round-tripping it through DER encode
and decode. dst must be a non-nil pointer of the same type x (or a
pointer to it) holds.
*/
func Copy(x any, dst any) error {
	data, err := Dump(x)
	if err != nil {
		return err
	}
	return Load(data, dst, false)
}

/*
Native recursively converts a decoded schema value into its
language-neutral materialization: a map keyed by field name for a
SEQUENCE/SET struct, a slice for a SEQUENCE OF/SET OF slice, and a
plain Go scalar (string, []byte, bool, int64, *big.Int, time.Time) for
each recognized primitive wrapper type. Unrecognized struct kinds fall
back to a generic field-name map; unrecognized scalar kinds fall back
to v.Interface() unchanged.
*/
func Native(x any) any {
	if x == nil {
		return nil
	}
	return nativeValue(reflect.ValueOf(x))
}

func nativeValue(v reflect.Value) any {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}

	switch iv := v.Interface().(type) {
	case Integer:
		if iv.IsBig() {
			return iv.Big()
		}
		return iv.Native()
	case Boolean:
		return iv.Bool()
	case Null:
		return nil
	case ObjectIdentifier:
		return iv.String()
	case Enumerated:
		return int64(iv)
	case BitString:
		return append([]byte{}, iv.Bytes...)
	case OctetString:
		return []byte(iv)
	case RawContent:
		return []byte(iv)
	case Choice:
		return nativeValue(reflect.ValueOf(iv.Value))
	case GeneralizedTime:
		return iv.Cast()
	case UTCTime:
		return iv.Cast()
	case time.Time:
		return iv
	case OpenType:
		if parsed, ok := iv.Parsed(); ok {
			return nativeValue(reflect.ValueOf(parsed))
		}
		return iv.Raw()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return b
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = nativeValue(v.Index(i))
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" || f.Type == rawContentType {
				continue
			}
			out[f.Name] = nativeValue(v.Field(i))
		}
		return out
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Interface()
	case reflect.Invalid:
		return nil
	default:
		if v.CanInterface() {
			return v.Interface()
		}
		return nil
	}
}

/*
Retag returns a new [Options] describing an alternative tagging for a
field: explicit wraps the value in an additional outer TLV, implicit
rewrites its class/tag in place. Use with [With] when calling [Marshal]
or pass directly as a field's runtime override via [RegisterOverrideOptions].
*/
func Retag(explicit bool, class, tag int) Options {
	opts := Options{Explicit: explicit}
	opts.SetClass(class)
	opts.SetTag(tag)
	return opts
}

/*
Untag returns an [Options] with no class/tag override, equivalent to
the value's spec-declared (universal, for built-ins) identity.
*/
func Untag() Options { return implicitOptions() }
