package asn1crypto

/*
set.go implements the ASN.1 SET and SET OF types: a SET is a SEQUENCE
whose fields get written in a canonical, re-sortable order (DER sorts
the encoded elements by their raw bytes; BER preserves field order), a
SET OF is a Go slice, and a SET OF CHOICE additionally dispatches each
element to its registered alternative by wire tag (see choice.go).
*/

import (
	"bytes"
	"reflect"
	"slices"
)

// isSet returns true if the target's type is a slice.
func isSet(target any, opts *Options) (set bool) {
	t := derefTypePtr(refTypeOf(target))
	if t.Kind() == reflect.Slice {
		tag := -1
		if opts != nil {
			tag = opts.Tag()
		}
		if t.Elem().Kind() != reflect.Uint8 {
			set = hasSfx(t.Name(), "SET") || (opts != nil && tag == TagSet)
		}
	} else if hasSfx(t.Name(), "SET") {
		set = true
	}

	return
}

/*
marshalSet returns an error following an attempt to encode a SET.
Each element is encoded with its own implicit defaults.
*/
func marshalSet(v reflect.Value, pkt PDU, opts *Options) (err error) {
	v = derefValuePtr(v)

	switch v.Kind() {
	case reflect.Struct:
		slice, found := firstSliceField(v)
		if !found {
			return codecErrorf("marshalSet: no suitable slice field found in struct")
		}
		v = slice
	case reflect.Slice:
		// already the collection to encode
	default:
		return codecErrorf("marshalSet: value is not a slice or struct containing a slice")
	}

	elements := make([][]byte, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		tmp := pkt.Type().New()
		subOpts := clearChildOpts(opts)
		subOpts.incDepth()

		if err = encodeElement(v.Index(i), tmp, subOpts); err != nil {
			return compositeErrorf("marshalSet: error marshaling slice element: ", err)
		}
		elements = append(elements, tmp.Data())
	}

	if pkt.Type() == DER {
		slices.SortFunc(elements, func(a, b []byte) int { return bytes.Compare(a, b) })
	}

	bufPtr := getBuf()
	concatenated := *bufPtr
	for _, e := range elements {
		concatenated = append(concatenated, e...)
	}

	tlv := pkt.Type().newTLV(ClassUniversal, TagSet, len(concatenated), true, concatenated...)
	encoded := encodeTLV(tlv, nil)
	putBuf(bufPtr)

	pkt.Append(encoded...)
	return
}

// firstSliceField locates the first exported slice field of a struct
// standing in for a SET (the idiom used when a named SET type wraps a
// single collection field rather than being a bare slice type).
func firstSliceField(v reflect.Value) (reflect.Value, bool) {
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).PkgPath != "" {
			continue
		}
		if f := derefValuePtr(v.Field(i)); f.Kind() == reflect.Slice {
			return f, true
		}
	}
	return reflect.Value{}, false
}

/*
unmarshalSet returns an error following an attempt to decode a SET
from pkt into the value v. v is expected to be either a slice (e.g.
[]Integer) or a struct whose only field is an exported slice.
*/
func unmarshalSet(v reflect.Value, pkt PDU, opts *Options) (err error) {
	if v.Kind() == reflect.Struct {
		if v, err = extractSetSlice(v); err != nil {
			return
		}
	} else if v.Kind() != reflect.Slice {
		return codecErrorf("unmarshalSet: target value is not a slice or struct containing a slice")
	}

	pkt = unwrapSetContainer(pkt)

	elemType := v.Type().Elem()
	subOpts := clearChildOpts(opts)

	var elements []reflect.Value
	for pkt.HasMoreData() {
		var tmp reflect.Value
		if elemType.Kind() == reflect.Ptr {
			tmp = reflect.New(elemType.Elem())
		} else {
			tmp = reflect.New(elemType).Elem()
		}

		if err = decodeElement(pkt, tmp, subOpts); err != nil {
			return compositeErrorf("unmarshalSet: error unmarshaling SET element: ", err)
		}
		elements = append(elements, tmp)
	}

	newSlice := reflect.MakeSlice(v.Type(), len(elements), len(elements))
	for i, el := range elements {
		newSlice.Index(i).Set(el)
	}
	v.Set(newSlice)
	return
}

// unwrapSetContainer peels off an outer universal SET (class 0, tag
// 17) wrapper if pkt's next byte declares one, returning a fresh [PDU]
// positioned at the start of its contents; otherwise it returns pkt
// unchanged (the caller is already positioned at the element stream).
func unwrapSetContainer(pkt PDU) PDU {
	cur := pkt.Offset()
	if cur >= pkt.Len() {
		return pkt
	}
	raw := pkt.Data()[cur]
	if (raw&0xC0) != 0 || (raw&0x1F) != 17 {
		return pkt
	}
	outerTLV, err := pkt.TLV()
	if err != nil {
		return pkt
	}
	sub := pkt.Type().New(outerTLV.Value...)
	sub.SetOffset(0)
	return sub
}

func extractSetSlice(v reflect.Value) (reflect.Value, error) {
	if v.NumField() != 1 {
		return v, codecErrorf("unmarshalSet: no suitable slice field found in struct")
	}
	field := v.Type().Field(0)
	if field.PkgPath != "" {
		return v, codecErrorf("unmarshalSet: no suitable slice field found in struct")
	}
	f := derefValuePtr(v.Field(0))
	if f.Kind() != reflect.Slice {
		return v, codecErrorf("unmarshalSet: struct field ", field.Name, " is not a slice; got ", f.Kind().String())
	}
	return f, nil
}

// setPickChoiceAlternative reads the next TLV off pkt -- the outer,
// registered-tag wrapper of one CHOICE alternative -- and returns its
// wire tag plus a fresh [PDU] positioned at the start of the
// alternative's own complete natural encoding (header and all), ready
// for decodeElement to read directly. CHOICE alternatives dispatched
// through a registry are always written double-wrapped (see
// marshalChoiceWrapper), so no separate "explicit vs bare" branching
// is needed here: the outer tag is always the registry key, and the
// outer content is always the inner TLV's own bytes.
func setPickChoiceAlternative(pkt PDU, opts *Options) (tag int, payload []byte, sub PDU, childOpts *Options, err error) {
	outer, err := pkt.TLV()
	if err != nil {
		return
	}
	tag = outer.Tag

	if payload, _, err = contentSlice(pkt, outer); err != nil {
		return
	}

	sub = pkt.Type().New(payload...)
	sub.SetOffset(0)
	childOpts = clearChildOpts(opts)
	return
}
