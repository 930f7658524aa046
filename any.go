package asn1crypto

/*
any.go contains the OpenType value, the re-parseable container used
to defer interpretation of an ASN.1 ANY (or OID-dispatched open type)
field until a caller supplies the concrete spec to decode it against.
See opentype.go for the OID-dispatch and spec-callback machinery built
on top of it.
*/

import (
	"reflect"
	"sync"
)

/*
OpenType implements a deferred-parse ASN.1 value. It holds raw content
octets -- typically the bytes of an OCTET STRING or ANY field already
captured by an ordinary [Unmarshal] call -- and defers interpretation
until [OpenType.Parse] is called with a concrete Go type to decode them
into.

A second call to [OpenType.Parse] with a different spec type re-parses
the content rather than returning the cache from the first call; a call
with the same spec type as the last successful parse returns the cached
value instead of decoding twice.
*/
type OpenType struct {
	raw []byte
	rv  EncodingRule

	mu     sync.Mutex
	parsed any
	as     reflect.Type
}

/*
NewOpenType wraps raw into an [OpenType] ready for [OpenType.Parse].
rule declares which [EncodingRule] the bytes in raw were encoded under;
if omitted, [DefaultEncoding] is assumed.
*/
func NewOpenType(raw []byte, rule ...EncodingRule) OpenType {
	r := DefaultEncoding
	if len(rule) > 0 && rule[0].Enabled() {
		r = rule[0]
	}
	return OpenType{raw: append([]byte{}, raw...), rv: r}
}

/*
Raw returns the undecoded contents octets held by the receiver.
*/
func (o *OpenType) Raw() []byte { return append([]byte{}, o.raw...) }

/*
IsZero returns true if the receiver holds no content.
*/
func (o *OpenType) IsZero() bool { return o == nil || len(o.raw) == 0 }

/*
Parse decodes the receiver's raw contents into a new instance of the
type spec refers to (spec must be a non-nil pointer, exactly as required
by [Unmarshal]) and returns the parsed value.

Parsing against the same spec type twice in a row returns the cached
result of the first call rather than decoding again; parsing against a
different type always re-decodes and replaces the cache.
*/
func (o *OpenType) Parse(spec any) (any, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rv := reflect.ValueOf(spec)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, codecErrorf("OpenType.Parse: spec must be a non-nil pointer")
	}

	typ := rv.Type()
	if o.parsed != nil && o.as == typ {
		return o.parsed, nil
	}

	pkt := o.rv.New(o.raw...)
	pkt.SetOffset(0)
	if err := Unmarshal(pkt, spec); err != nil {
		return nil, compositeErrorf("OpenType.Parse: ", err)
	}

	o.parsed = rv.Elem().Interface()
	o.as = typ
	return o.parsed, nil
}

/*
Parsed returns the most recently cached result of [OpenType.Parse], or
nil alongside false if nothing has been parsed yet.
*/
func (o *OpenType) Parsed() (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.parsed, o.parsed != nil
}
