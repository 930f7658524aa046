package asn1crypto

/*
err.go contains error constructors and literals used frequently.
throughout this package.
*/

import (
	"errors"
	"sync"
)

/*
ErrorKind classifies the coarse failure category of an error returned
by this package, per the symbolic kinds a caller can match against with
[errors.Is].
*/
type ErrorKind int

const (
	KindTruncated     ErrorKind = iota + 1 // input ended inside a header, length, contents or before an EOC
	KindMalformed                          // non-minimal tag/length, invalid identifier, indefinite-on-primitive
	KindUnexpectedTag                      // parsed (class, method, tag) does not match the spec's expectation
	KindTrailingBytes                      // strict-mode bytes left over after the outermost TLV
	KindDepthExceeded                      // recursion bound hit while scanning indefinite-length nesting
	KindMissingField                       // required field absent in a SET
	KindInvalidValue                       // primitive-specific value fault (bad ASCII, malformed time, bad OID, ...)
	KindSchemaError                        // static schema configuration fault (e.g. implicit tag on a CHOICE)
)

func (k ErrorKind) String() string {
	switch k {
	case KindTruncated:
		return "Truncated"
	case KindMalformed:
		return "Malformed"
	case KindUnexpectedTag:
		return "UnexpectedTag"
	case KindTrailingBytes:
		return "TrailingBytes"
	case KindDepthExceeded:
		return "DepthExceeded"
	case KindMissingField:
		return "MissingField"
	case KindInvalidValue:
		return "InvalidValue"
	case KindSchemaError:
		return "SchemaError"
	}
	return "Unknown"
}

/*
sentinel error values, one per [ErrorKind], for use with [errors.Is].
Every error this package returns that carries a kind wraps one of these.
*/
var (
	ErrTruncated     error = mkerr("Truncated")
	ErrMalformed     error = mkerr("Malformed")
	ErrUnexpectedTag error = mkerr("UnexpectedTag")
	ErrTrailingBytes error = mkerr("TrailingBytes")
	ErrDepthExceeded error = mkerr("DepthExceeded")
	ErrMissingField  error = mkerr("MissingField")
	ErrInvalidValue  error = mkerr("InvalidValue")
	ErrSchemaError   error = mkerr("SchemaError")
)

func sentinelFor(k ErrorKind) error {
	switch k {
	case KindTruncated:
		return ErrTruncated
	case KindMalformed:
		return ErrMalformed
	case KindUnexpectedTag:
		return ErrUnexpectedTag
	case KindTrailingBytes:
		return ErrTrailingBytes
	case KindDepthExceeded:
		return ErrDepthExceeded
	case KindMissingField:
		return ErrMissingField
	case KindInvalidValue:
		return ErrInvalidValue
	case KindSchemaError:
		return ErrSchemaError
	}
	return ErrMalformed
}

/*
kindError carries an [ErrorKind] alongside a formatted message, and
unwraps to the kind's sentinel so callers can test with
"errors.Is(err, asn1crypto.ErrTruncated)" etc.
*/
type kindError struct {
	kind ErrorKind
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return sentinelFor(e.kind) }

// kindErrorf joins parts the same way mkerrf does, but tags the result
// with kind and, if any part is itself an error wrapping a kind, keeps
// that existing kind instead of overriding it (context wrapping should
// not discard the cause's classification).
func kindErrorf(kind ErrorKind, parts ...any) error {
	for _, p := range parts {
		if e, ok := p.(error); ok {
			var ke *kindError
			if errors.As(e, &ke) {
				kind = ke.kind
				break
			}
		}
	}

	b := newStrBuilder()
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			b.WriteString(v)
		case int:
			b.WriteString(itoa(v))
		case error:
			b.WriteString(v.Error())
		default:
			b.WriteString("<not supported>")
		}
	}

	return &kindError{kind: kind, msg: b.String()}
}

/*
codecErrorf builds a package error for TLV/PDU-level codec faults:
truncated input, bad length octets, unrecognized encoding rule. Kind
defaults to [KindMalformed] unless a wrapped error already carries a
more specific kind.
*/
func codecErrorf(parts ...any) error { return kindErrorf(KindMalformed, parts...) }

/*
primitiveErrorf builds a package error for primitive-type value faults:
non-ASCII content in an ASCII string type, a malformed time string, an
OID subidentifier with no terminating octet, an unmapped ENUMERATED
integer. Maps to [KindInvalidValue] per spec.
*/
func primitiveErrorf(parts ...any) error { return kindErrorf(KindInvalidValue, parts...) }

/*
compositeErrorf builds a package error for constructed-type (SEQUENCE,
SET, CHOICE) faults, typically wrapping a field-level cause with a
field-path breadcrumb. The wrapped cause's [ErrorKind] is preserved.
*/
func compositeErrorf(parts ...any) error { return kindErrorf(KindMalformed, parts...) }

/*
generalErrorf builds a package error for assertion/constraint faults
that don't fit the TLV codec or a specific primitive type.
*/
func generalErrorf(parts ...any) error { return kindErrorf(KindInvalidValue, parts...) }

/*
unexpectedTagErrorf builds a package error for a parsed (class, method,
tag) triple that does not match what the schema expected at that
position -- a wrong universal tag, a context-specific tag the CHOICE
registry doesn't recognize, a SEQUENCE header where SET was required.
Maps to [KindUnexpectedTag].
*/
func unexpectedTagErrorf(parts ...any) error { return kindErrorf(KindUnexpectedTag, parts...) }

/*
missingFieldErrorf builds a package error for a required (non-optional,
no default) field that is absent from a decoded SET or SEQUENCE. Maps
to [KindMissingField].
*/
func missingFieldErrorf(parts ...any) error { return kindErrorf(KindMissingField, parts...) }

var (
	errorAmbiguousChoice       error = mkerr("ambiguous alternative: multiple registered alternatives match the instance")
	errorNoChoicesAvailable    error = mkerr("no CHOICE alternatives available")
	errorNoChoiceForType       error = mkerr("no matching alternative found for input type")
	errorNilInput              error = mkerr("nil input instance")
	errorNilReceiver           error = mkerr("nil receiver instance")
	errorNoPrimitiveRead       error = mkerr("type does not implement read method")
	errorNoCompoundChoices     error = mkerr("no compound CHOICE alternatives available")
	errorNoCompoundChoiceMatch error = mkerr("no compound CHOICE alternatives matched the data")
	errorEmptyASN1Parameters   error = mkerr("ASN.1 parameters missing or truncated")
	errorEmptyIdentifier       error = mkerr("empty identifier")
	errorTagTooLarge           error = mkerr("tag too large (≥ 2^28)")
	errorTruncatedTag          error = mkerr("truncated high-tag-number form")
	errorOutOfBounds           error = mkerr("content and offset out of bounds")
	errorIndefiniteProhibited  error = mkerr("Indefinite lengths not supported by encoding rule")
	errorInvalidPacket         error = mkerr("invalid Packet instance")
	errorEmptyLength           error = mkerr("length bytes not found")
	errorTruncatedContent      error = mkerr("packet content is truncated")
	errorTruncatedLength       error = mkerr("packet length is truncated")
	errorLengthTooLarge        error = mkerr("length bytes too large (>4 octets)")

	errorNilValue                error = mkerr("nil reflect.Value passed to encode")
	errorAbsentNotNilPtr          error = mkerr("ABSENT field must not carry a value")
	errorSeqEmptyNonOptField      error = mkerr("non-OPTIONAL field is empty")
	errorComponentsNotAnonymous   error = mkerr("COMPONENTS OF field must be an anonymous embedded struct")
	errorExtensionNotFieldZero    error = mkerr("RawContent must be the first field in a struct")
)

func errorNoChoiceMatched(name string) (err error) {
	return mkerrf(errorNoChoiceForType.Error() + " " + name)
}

func errorASN1Expect(a, b any, typ string) (err error) {
	switch typ {
	case "Tag":
		i, j := a.(int), b.(int)
		err = mkerrf("Expect" + typ + ": wrong tag: got " + itoa(j) + " (" +
			TagNames[j] + "), want " + itoa(i) + " (" + TagNames[i] + ")")
	case "Class":
		i, j := a.(int), b.(int)
		err = mkerrf("Expect" + typ + ": wrong class: got " + itoa(j) + " (" +
			ClassNames[j] + "), want " + itoa(i) + " (" + ClassNames[i] + ")")
	case "Length":
		i, j := a.(int), b.(int)
		err = mkerrf("Expect" + typ + ": wrong length: got " + itoa(j) + ", want " + itoa(i))
	case "Compound":
		i, j := a.(bool), b.(bool)
		err = mkerrf("Expect" + typ + ": wrong compound: got " + bool2str(j) + " (" +
			CompoundNames[j] + "), want " + bool2str(i) + " (" + CompoundNames[i] + ")")
	}

	return
}

func errorASN1TagInClass(expectClass, expectTag, class, tag int) (err error) {
	if class != expectClass || tag != expectTag {
		err = mkerrf("expected tag " + TagNames[expectTag] + " in class " +
			ClassNames[expectClass] + ", got tag " + itoa(tag) +
			" in class " + itoa(class))
	}

	return
}

func errorASN1ConstructedTagClass(wantTLV, gotTLV TLV) error {
	return mkerrf("Constructed: expected compound element with class " + itoa(wantTLV.Class) +
		" and tag " + itoa(wantTLV.Tag) + ", got class " + itoa(gotTLV.Class) + " and tag " + itoa(gotTLV.Tag) +
		", compound:" + bool2str(gotTLV.Compound))
}

var errCache sync.Map

func mkerrf(parts ...any) error {
	if len(parts) == 1 {
		if s, ok := parts[0].(string); ok {
			if v, hit := errCache.Load(s); hit {
				return v.(error)
			}
		}
	}

	b := newStrBuilder()
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			b.WriteString(v)
		case int:
			b.WriteString(itoa(v))
		default:
			b.WriteString("<not supported>")
		}
	}
	msg := b.String()

	if v, hit := errCache.Load(msg); hit {
		return v.(error)
	}
	e := mkerr(msg)
	errCache.Store(msg, e)
	return e
}
