package asn1crypto

/*
opentype.go implements the two schema extension points spec.md calls
for that the teacher's struct-tag schema has no equivalent of: OID-
dispatched open types (oid_pair/oid_specs) and context-sensitive spec
callbacks (spec_callbacks). Both are expressed as Go interfaces a
SEQUENCE struct can implement, resolved against the struct's raw open
field (an OCTET STRING/ANY captured as []byte by an ordinary
[Unmarshal] call) once [ResolveOpenType] is invoked.
*/

import (
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

/*
OIDDispatcher is implemented by a SEQUENCE struct carrying an open field
whose effective type is selected by a sibling [ObjectIdentifier] field's
value, e.g.:

	type AlgorithmIdentifier struct {
	    Algorithm  ObjectIdentifier
	    Parameters []byte `asn1:"optional"`
	}

	func (AlgorithmIdentifier) OIDField() (string, string) { return "Algorithm", "Parameters" }
	func (AlgorithmIdentifier) OIDSpecs() map[string]reflect.Type {
	    return map[string]reflect.Type{
	        "1.2.840.113549.1.1.1": reflect.TypeOf(Null{}),
	    }
	}

An OID not present in the map leaves the open field unresolved
(equivalent to the spec's "defaults to Any when the OID is unknown");
[ResolveOpenType] simply omits it from the returned map.
*/
type OIDDispatcher interface {
	OIDField() (oidField, openField string)
	OIDSpecs() map[string]reflect.Type
}

/*
SpecCallbacker is implemented by a SEQUENCE struct with one or more
fields whose effective type depends on already-parsed sibling fields,
e.g. CMS's version-gated encapsulated content. Each returned function
receives the container (the struct pointer passed to [ResolveOpenType])
and returns the concrete type the named field's raw bytes should be
parsed against, or nil to leave it unresolved.
*/
type SpecCallbacker interface {
	SpecCallbacks() map[string]func(parent any) reflect.Type
}

var dispatchGroup singleflight.Group

var (
	oidSpecCacheMu sync.RWMutex
	oidSpecCache   = map[string]map[string]reflect.Type{}
)

func schemaKey(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}

// cachedOIDSpecs memoizes d.OIDSpecs() per concrete type exactly once,
// collapsing concurrent first-use from multiple goroutines into a single
// build via singleflight, per spec.md §5's shared schema-table policy:
// initialization is made visible to all threads exactly once rather than
// recomputed (racy-but-safe) on every call.
func cachedOIDSpecs(d OIDDispatcher) (map[string]reflect.Type, error) {
	key := schemaKey(derefTypePtr(reflect.TypeOf(d)))

	oidSpecCacheMu.RLock()
	specs, ok := oidSpecCache[key]
	oidSpecCacheMu.RUnlock()
	if ok {
		return specs, nil
	}

	v, err, _ := dispatchGroup.Do(key, func() (any, error) {
		oidSpecCacheMu.RLock()
		cached, hit := oidSpecCache[key]
		oidSpecCacheMu.RUnlock()
		if hit {
			return cached, nil
		}
		built := d.OIDSpecs()
		oidSpecCacheMu.Lock()
		oidSpecCache[key] = built
		oidSpecCacheMu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]reflect.Type), nil
}

// rawBytesOf extracts the raw content octets of the named field,
// accepting []byte, RawContent, or an OctetString-kind value.
func rawBytesOf(elem reflect.Value, fieldName string) ([]byte, error) {
	fv := elem.FieldByName(fieldName)
	if !fv.IsValid() {
		return nil, kindErrorf(KindSchemaError, "ResolveOpenType: no such field ", fieldName)
	}
	switch b := fv.Interface().(type) {
	case []byte:
		return b, nil
	case RawContent:
		return []byte(b), nil
	case OctetString:
		return []byte(b), nil
	default:
		return nil, kindErrorf(KindSchemaError,
			"ResolveOpenType: field ", fieldName, " must be []byte, RawContent or OctetString")
	}
}

/*
ResolveOpenType inspects container (a pointer to a SEQUENCE struct
already populated by [Unmarshal]) for the [OIDDispatcher] and/or
[SpecCallbacker] interfaces and, for each that it implements, parses
the relevant open field's raw bytes against the type its OID sibling
(or callback) selects.

The result maps field name to the decoded native value (the pointee of
the spec type's zero value after decode). A container implementing
neither interface returns an empty, non-nil map and a nil error.
*/
func ResolveOpenType(container any) (map[string]any, error) {
	v := reflect.ValueOf(container)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, codecErrorf("ResolveOpenType: container must be a non-nil pointer")
	}
	elem := v.Elem()
	results := make(map[string]any)

	if d, ok := container.(OIDDispatcher); ok {
		oidField, openField := d.OIDField()
		oidVal := elem.FieldByName(oidField)
		if !oidVal.IsValid() {
			return nil, kindErrorf(KindSchemaError, "ResolveOpenType: no such OID field ", oidField)
		}
		oid, ok := oidVal.Interface().(ObjectIdentifier)
		if !ok {
			return nil, kindErrorf(KindSchemaError, "ResolveOpenType: field ", oidField, " is not an ObjectIdentifier")
		}

		specs, err := cachedOIDSpecs(d)
		if err != nil {
			return nil, err
		}

		if typ, known := specs[oid.String()]; known {
			parsed, err := parseOpenField(elem, openField, typ, DefaultEncoding)
			if err != nil {
				return nil, err
			}
			results[openField] = parsed
		}
	}

	if cb, ok := container.(SpecCallbacker); ok {
		for field, fn := range cb.SpecCallbacks() {
			typ := fn(container)
			if typ == nil {
				continue
			}
			parsed, err := parseOpenField(elem, field, typ, DefaultEncoding)
			if err != nil {
				return nil, err
			}
			results[field] = parsed
		}
	}

	return results, nil
}

func parseOpenField(elem reflect.Value, fieldName string, typ reflect.Type, rule EncodingRule) (any, error) {
	raw, err := rawBytesOf(elem, fieldName)
	if err != nil {
		return nil, err
	}
	ot := NewOpenType(raw, rule)
	ptr := reflect.New(typ)
	return ot.Parse(ptr.Interface())
}
