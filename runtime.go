package asn1crypto

/*
runtime.go is the encode/decode engine: it walks a Go value with
reflect, matching each field against its [Options] (explicit/implicit
tagging, SET vs SEQUENCE, CHOICE alternatives, registered adapters,
built-in primitives) and drives the lower-level [PDU]/[TLV] machinery
in ber.go/der.go/tlv.go to read or write the wire bytes. Every exported
entry point funnels through encodeElement/decodeElement below.
*/

import "reflect"

/*
Marshal returns an instance of [PDU] alongside an error following an attempt
to encode x using the specified ASN.1 encoding.

The variadic [EncodingOption] input value is used to further user control using
one or more of:

  - [EncodingRule] (e.g.: [BER], [DER])
  - [EncodingOption] (e.g.: to declare a value to be of an INDEFINITE-LENGTH, or for a class override)

If an [EncodingRule] is not specified, the value of [DefaultEncoding] is used,
which is [BER] by default.

See also [MustMarshal], [MustUnmarshal], [Unmarshal] and [With].
*/
func Marshal(x any, with ...EncodingOption) (pkt PDU, err error) {
	cfg := &encodingConfig{rule: DefaultEncoding}
	for _, o := range with {
		o(cfg)
	}

	debugEnter(x, cfg.rule, cfg.opts)
	defer func() { debugExit(pkt, newLItem(err)) }()

	if err = validateEncodeOptions(cfg.rule, cfg.opts); err != nil {
		return
	}
	pkt = cfg.rule.New()
	err = encodeElement(refValueOf(x), pkt, cfg.opts)
	return
}

/*
MustMarshal returns an instance of [PDU] and panics if [Marshal] returned an
error during processing.
*/
func MustMarshal(x any, with ...EncodingOption) PDU {
	pkt, err := Marshal(x, with...)
	if err != nil {
		panic(err)
	}
	return pkt
}

// validateEncodeOptions rejects an [EncodingRule]/[Options] combination
// that cannot be honored before any bytes are written -- currently only
// an INDEFINITE request against a rule that forbids it (DER).
func validateEncodeOptions(rule EncodingRule, o *Options) (err error) {
	debugEnter(rule, o)
	defer func() { debugExit(newLItem(err)) }()

	if o != nil && !rule.allowsIndefinite() && o.Indefinite {
		err = errorIndefiniteProhibited
	}

	return
}

// encodeElement is the single recursive entry point for writing v's
// wire form into pkt. Every branch (pointer, interface, CHOICE,
// registered alternative, primitive, composite) funnels back through
// here so that a field nested at any depth gets the same treatment a
// top-level value would.
func encodeElement(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, pkt, opts)
	defer func() { debugExit(newLItem(err)) }()

	if !v.IsValid() {
		if !optsIsAbsent(opts) {
			err = errorNilValue
		}
		return
	}

	opts = deferOverrideOptions(v, opts)

	if v.Kind() == reflect.Ptr {
		return encodeElement(v.Elem(), pkt, opts)
	}

	var iface any
	canIf := v.CanInterface()
	if canIf {
		iface = v.Interface()
	}

	// A Choice wrapper, whether arriving boxed in an interface or as a
	// concrete value, always dispatches to the alternative codec rather
	// than falling through to struct/slice handling.
	if v.Kind() == reflect.Interface {
		if !v.IsNil() && canIf {
			if _, ok := iface.(Choice); ok {
				return marshalChoiceWrapper(nil, pkt, deferImplicit(opts), v)
			}
		}
		return encodeElement(v.Elem(), pkt, opts)
	}
	if canIf {
		if _, ok := iface.(Choice); ok {
			return marshalChoiceWrapper(nil, pkt, deferImplicit(opts), v)
		}
	}

	if handled, herr := encodeRegisteredAlternative(v, pkt, opts); handled {
		return herr
	}
	return encodeConcrete(v.Kind(), v, pkt, opts)
}

// encodeHandlers are tried, in order, by encodeConcrete before it falls
// back to composite (SEQUENCE/SET/SEQUENCE OF/SET OF) handling: first
// any user-registered adapter, then the package's built-in primitive
// codecs.
var encodeHandlers = []func(reflect.Value, PDU, *Options) (bool, error){
	encodeAdapted,
	encodePrimitiveValue,
}

func encodeConcrete(k reflect.Kind, v reflect.Value, pkt PDU, opts *Options) (err error) {
	switch {
	case k == reflect.Invalid:
		err = codecErrorf("Nil value passed to Marshal")
	case ptrIsNil(v):
		err = codecErrorf("Marshal: input must be non-nil")
	default:
		v = derefValuePtr(v)

		for _, handler := range encodeHandlers {
			var handled bool
			if handled, err = handler(v, pkt, opts); handled {
				return
			}
		}

		err = encodeAggregate(v, pkt, opts)
		pkt.SetOffset(0)
	}

	return
}

// encodeAggregate handles the two constructed shapes: a Go slice
// becomes either SEQUENCE OF or SET OF (a named "...SET" type, an
// interface-element CHOICE collection, or an explicit "set" option all
// force SET; everything else is SEQUENCE OF), a Go struct becomes
// SEQUENCE (or SET, if opts.Set).
func encodeAggregate(v reflect.Value, pkt PDU, opts *Options) (err error) {
	opts = deferImplicit(opts)

	var overridden bool
	if o, _ := lookupOverrideOptions(v.Interface()); o != nil {
		overridden = true
		opts = o
	}
	opts.incDepth()

	switch v.Kind() {
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Interface || isSet(v.Interface(), opts) {
			err = marshalSet(v, pkt, opts)
		} else {
			err = marshalSequenceOfSlice(v, pkt, opts)
		}
	case reflect.Struct:
		if opts.HasTag() && (!opts.HasClass() || opts.Class() == ClassUniversal) && !overridden {
			opts.tag = nil
		}
		err = marshalSequence(v, pkt, opts)
	default:
		err = compositeErrorf("encodeElement: unsupported type ", v.Kind().String())
	}

	return
}

// encodeRegisteredAlternative writes v through a [Choices] registry
// entry keyed by opts.Choices, when one was configured for this field
// (a struct field tagged "choices:<name>" holding a concrete member of
// an interface-family CHOICE rather than a [Choice] wrapper value).
func encodeRegisteredAlternative(v reflect.Value, pkt PDU, opts *Options) (handled bool, err error) {
	if !optsHasChoices(opts) {
		return
	}

	typ := pkt.Type()
	reg, _ := GetChoices(opts.Choices)

	concreteT := v.Type()
	var desc *choiceDescriptor
	if _, desc, handled = reg.lookupDescriptorByConcrete(concreteT); !handled {
		return
	}

	tag := desc.typeToTag[concreteT]
	cls := desc.class[tag]
	exp := desc.explicit[tag]

	tmp := typ.New()
	tmp.SetOffset(0)

	switch v.Kind() {
	case reflect.Slice:
		// a registered CHOICE alternative whose own type is a slice is
		// always written as a SET (the registry dispatches by wire tag,
		// not by declared order).
		err = marshalSet(v, tmp, opts)
	case reflect.Struct:
		err = marshalSequence(v, tmp, opts)
	default:
		opts.Choices = ""
		err = encodeElement(v, tmp, opts)
	}

	if err == nil {
		tlv := typ.newTLV(cls, tag, tmp.Len(), exp, tmp.Data()...)
		err = pkt.WriteTLV(tlv)
	}

	return
}

func encodeAdapted(v reflect.Value, pkt PDU, opts *Options) (handled bool, err error) {
	opts = deferImplicit(opts)

	ad, handled := adapterForValue(v, opts.Identifier)
	if !handled {
		return
	}

	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(handled, "adapter handled"), newLItem(err)) }()

	codec := ad.newCodec()
	if err = ad.fromGo(v.Interface(), codec, opts); err != nil {
		return
	}

	if opts.Explicit {
		err = wrapExplicitTag(pkt, codec.(codecRW), opts)
	} else {
		_, err = codec.(codecRW).write(pkt, opts)
	}

	return
}

func encodePrimitiveValue(v reflect.Value, pkt PDU, opts *Options) (handled bool, err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(handled, "primitive handled"), newLItem(err)) }()

	if !isPrimitive(v.Interface()) {
		return false, nil
	}

	opts = deferImplicit(opts)
	raw := toPtr(v).Interface()

	switch {
	case func() bool { _, ok := raw.(codecRW); return ok }():
		handled = true
		c := raw.(codecRW)
		if opts.Explicit {
			err = wrapExplicitTag(pkt, c, opts)
		} else {
			_, err = c.write(pkt, opts)
		}
	default:
		if bx, ok := createCodecForPrimitive(raw); ok {
			handled = true
			if opts.Explicit {
				err = wrapExplicitTag(pkt, bx, opts)
			} else {
				_, err = bx.write(pkt, opts)
			}
		} else {
			err = codecErrorf("no codec found for primitive")
		}
	}

	return
}

// wrapExplicitTag encodes prim into a scratch [PDU] under its own
// (implicit) identity, then re-emits that as the contents of an outer
// constructed TLV carrying opts' class/tag -- the EXPLICIT tagging
// rule of X.690 §8.14.
func wrapExplicitTag(pkt PDU, prim codecRW, opts *Options) (err error) {
	debugEnter(prim, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	typ := pkt.Type()
	tmp := typ.New()
	innerOpts := clearChildOpts(opts)

	if _, err = prim.write(tmp, innerOpts); err != nil {
		return
	}

	content := tmp.Data()
	id := emitHeader(opts.Class(), opts.Tag(), true)
	debugPrim(newLItem(id, "EXPLICIT tag"))
	pkt.Append(id)

	bufPtr := getBuf()
	encodeLengthInto(typ, bufPtr, len(content))
	pkt.Append(*bufPtr...)
	putBuf(bufPtr)
	pkt.Append(content...)

	return
}

/*
Unmarshal returns an error following an attempt to decode the input [PDU] instance
into x. x MUST be a pointer.

The variadic [EncodingOption] input value allows for [Options] directives meant to
further control the decoding process.

It is not necessary to declare a particular [EncodingRule] using the [With] package-level
function, as the input instance of [PDU] already has this information. Providing an
[EncodingRule] to Unmarshal -- whether valid or not -- will produce no perceptible effect.

See also [Marshal], [MustMarshal], [MustUnmarshal] and [With].
*/
func Unmarshal(pkt PDU, x any, with ...EncodingOption) (err error) {
	rv := refValueOf(x)

	debugEnter(x, with, pkt)
	defer func() { debugExit(newLItem(err)) }()
	defer pkt.Free()

	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return codecErrorf("Unmarshal: target must be a non-nil pointer")
	}

	pkt.SetOffset(0)

	cfg := &encodingConfig{rule: pkt.Type()}
	for _, o := range with {
		o(cfg)
	}

	err = decodeElement(pkt, rv.Elem(), cfg.opts)
	return
}

/*
MustUnmarshal panics if [Unmarshal] returned an error during processing.
*/
func MustUnmarshal(pkt PDU, x any, with ...EncodingOption) {
	if err := Unmarshal(pkt, x, with...); err != nil {
		panic(err)
	}
}

// decodeElement is encodeElement's counterpart: the
// single recursive entry point invoked by Unmarshal, and again at every
// nested field/element while walking a SEQUENCE, SET, or CHOICE.
func decodeElement(pkt PDU, v reflect.Value, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	if !v.IsValid() {
		return codecErrorf("decodeElement: invalid reflect.Value")
	}

	opts = deferOverrideOptions(v, opts)

	if v.Kind() == reflect.Ptr {
		return decodePointer(v, pkt, opts)
	}

	if isInterfaceChoice(v, opts) {
		return decodeChoiceAlternative(v, pkt, opts)
	}

	if v.Kind() == reflect.Invalid {
		return codecErrorf("decodeElement: input pointer is invalid")
	}

	opts = deferImplicit(opts)

	if ad, ok := adapterForValue(v, opts.Identifier); ok {
		return decodeViaAdapter(pkt, v, ad, opts)
	}

	if isPrimitive(v.Interface()) {
		return decodePrimitiveValue(pkt, v, opts)
	}

	switch v.Kind() {
	case reflect.Slice:
		if (optsHasChoices(opts) && v.Type().Elem().Kind() == reflect.Interface) || isSet(v.Interface(), opts) {
			err = decodeSetBranch(v, pkt, opts)
		} else {
			err = decodeSequenceOfSlice(v, pkt, opts)
		}
	case reflect.Struct:
		err = unmarshalSequence(v, pkt, opts)
	default:
		err = codecErrorf("decodeElement: unsupported type ", v.Kind().String())
	}
	return
}

func decodeViaAdapter(pkt PDU, v reflect.Value, ad adapter, opts *Options) (err error) {
	codec := ad.newCodec()

	var tlv TLV
	if tlv, err = pkt.TLV(); err != nil {
		return
	}
	outerLen := tlv.Length
	start := pkt.Offset()

	if err = reconcileFieldTag(opts.Identifier, pkt, &tlv, opts); err != nil {
		return
	}
	if err = codec.(codecRW).read(pkt, tlv, opts); err != nil {
		return
	}
	pkt.SetOffset(start + outerLen)

	goVal := refValueOf(ad.toGo(codec))
	if !goVal.Type().AssignableTo(v.Type()) {
		return codecErrorf("type mismatch decoding ", opts.Identifier)
	}
	return refSetValue(v, goVal)
}

func decodePointer(v reflect.Value, pkt PDU, opts *Options) (err error) {
	if v.IsNil() {
		err = refSetValue(v, refNew(v.Type().Elem()))
	}
	if err == nil {
		err = decodeElement(pkt, v.Elem(), opts)
	}
	return
}

func decodeChoiceAlternative(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	// strip the [n] EXPLICIT header and identify the wire tag
	tag, _, sub, chopts, err := setPickChoiceAlternative(pkt, opts)
	if err != nil {
		return
	}

	reg, _ := GetChoices(opts.Choices)
	_, cd, ok := reg.lookupDescriptorByTag(tag)
	if !ok {
		return unexpectedTagErrorf("alternative tag ", tag, " not registered")
	}

	inner := refNew(cd.tagToType[tag]).Elem()
	if err = decodeElement(sub, inner, chopts); err != nil {
		return codecErrorf("decodeChoiceAlternative[", cd.tagToType[tag].String(), "]: ", err)
	}

	if derefTypePtr(v.Type()) == choiceType {
		return refSetValue(v, refValueOf(NewChoice(inner.Interface(), tag)))
	}
	return refSetValue(v, inner)
}

// contentSlice slices the definite-length content octets of tlv out of
// pkt's backing array, starting at pkt's current offset, and advances
// pkt past the whole element (header already consumed + tlv.Length
// content bytes). Shared by every decode path that needs the raw bytes
// of one TLV's contents as a standalone buffer.
func contentSlice(pkt PDU, tlv TLV) (data []byte, end int, err error) {
	start := pkt.Offset()
	end = start + tlv.Length
	if end > pkt.Len() {
		err = codecErrorf("contentSlice: truncated content")
		return
	}
	data = pkt.Data()[start:end]
	pkt.SetOffset(end)
	return
}

func decodeSequenceOfSlice(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	var tlv TLV
	if tlv, err = pkt.TLV(); err != nil {
		return compositeErrorf("decodeSequenceOfSlice: no SEQUENCE header: ", err)
	}
	if !tlv.matchClassAndTag(ClassUniversal, TagSequence) {
		return unexpectedTagErrorf("expected UNIVERSAL SEQUENCE (16); got class ",
			tlv.Class, " / tag ", tlv.Tag)
	}

	data, _, err := contentSlice(pkt, tlv)
	if err != nil {
		return compositeErrorf("decodeSequenceOfSlice: ", err)
	}

	sub := pkt.Type().New(data...)
	sub.SetOffset(0)

	elemType := v.Type().Elem()

	// A "SEQUENCE OF <registered CHOICE alternative>" (opts.Choices set,
	// elements a concrete, non-Choice, non-interface type) carries each
	// element wrapped in its own "[n] EXPLICIT" alternative header; peel
	// that off per element before decoding the alternative's natural TLV.
	choiceElems := optsHasChoices(opts) && elemType != choiceType && elemType.Kind() != reflect.Interface

	var elemOpts Options
	if opts != nil {
		elemOpts = *opts
	}

	for sub.Offset() < len(data) {
		elem := refNew(elemType).Elem()
		if choiceElems {
			var childPK PDU
			if _, _, childPK, _, err = setPickChoiceAlternative(sub, opts); err != nil {
				return compositeErrorf("decodeSequenceOfSlice: ", err)
			}
			io := implicitOptions()
			err = decodeElement(childPK, elem, &io)
		} else {
			err = decodeElement(sub, elem, &elemOpts)
		}
		if err != nil {
			return compositeErrorf("decodeSequenceOfSlice: element decode failed: ", err)
		}
		if err = refSetValue(v, refAppend(v, elem)); err != nil {
			return
		}
	}

	return
}

func decodeSetBranch(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	typ := pkt.Type()

	if optsHasChoices(opts) {
		return decodeSetOfChoice(v, pkt, typ, opts)
	}

	if opts != nil && (opts.HasTag() || opts.Class() != ClassUniversal) {
		var outer TLV
		if outer, err = pkt.TLV(); err != nil {
			return
		}
		hdrEnd := pkt.Offset()
		subPkt := typ.New(outer.Value...)
		subPkt.SetOffset(0)
		if err = unmarshalSet(v, subPkt, opts); err == nil {
			pkt.SetOffset(hdrEnd + len(outer.Value))
		}
		return
	}

	return unmarshalSet(v, pkt, opts)
}

// decodeSetOfChoice handles SET OF CHOICE: each "[n] EXPLICIT"-tagged
// element inside the SET wrapper is dispatched to its registered
// alternative by wire tag rather than by a single fixed element type.
func decodeSetOfChoice(v reflect.Value, pkt PDU, typ EncodingRule, opts *Options) (err error) {
	rtyp := v.Type()
	reg, ok := GetChoices(opts.Choices)
	if !ok {
		return compositeErrorf("no CHOICE registry ", opts.Choices)
	}

	elemType := rtyp.Elem()
	cd, ok := reg.reg[elemType]
	if !ok {
		return compositeErrorf("decodeSetOfChoice: no descriptor for type ", elemType)
	}

	var outer TLV
	if outer, err = pkt.TLV(); err != nil {
		return
	}
	pkt.AddOffset(outer.Length)
	sub := typ.New(outer.Value...)
	sub.SetOffset(0)

	result := refMkSl(rtyp, 0, 0)

	for sub.HasMoreData() {
		tag, _, childPK, childOpts, e := setPickChoiceAlternative(sub, opts)
		if e != nil {
			return e
		}

		childType, found := cd.tagToType[tag]
		if !found {
			return unexpectedTagErrorf("CHOICE tag ", tag, " not registered")
		}

		innerVal := refNew(childType).Elem()
		if err = decodeElement(childPK, innerVal, childOpts); err != nil {
			return
		}
		result = refAppend(result, innerVal.Convert(elemType))
	}

	return refSetValue(v, result)
}

func decodePrimitiveValue(pkt PDU, v reflect.Value, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	tlv, err := pkt.TLV()
	if err != nil {
		return
	}
	start := pkt.Offset()

	if c, ok := toPtr(v).Interface().(codecRW); ok {
		err = c.read(pkt, tlv, opts)
	} else if bx, ok := createCodecForPrimitive(v.Interface()); ok {
		if err = bx.read(pkt, tlv, opts); err == nil {
			err = refSetValue(v, refValueOf(bx.getVal()))
		}
	} else {
		err = primitiveErrorf("no codec for primitive")
	}

	if err == nil {
		pkt.SetOffset(start + tlv.Length)
	}
	return
}

// reconcileFieldTag checks tlv's identifier against opts' declared
// class/tag for an adapter-backed field (kw names the adapter, used
// only for the error message) and, for EXPLICIT tagging, peels off the
// outer wrapper so tlv becomes the inner element's header before the
// adapter's own read runs.
func reconcileFieldTag(kw string, pkt PDU, tlv *TLV, opts *Options) (err error) {
	debugEnter(newLItem(kw, "keyword", tlv, opts, pkt))
	defer func() { debugExit(newLItem(err)) }()

	opts = deferImplicit(opts)
	if !opts.HasTag() {
		return
	}
	if !tlv.matchClassAndTag(opts.Class(), opts.Tag()) {
		return unexpectedTagErrorf("identifier mismatch decoding ", kw)
	}
	if !opts.Explicit {
		return
	}

	inner := pkt.Type().New(tlv.Value...)
	var innerTLV TLV
	if innerTLV, err = inner.TLV(); err == nil {
		*tlv = innerTLV
		opts.Explicit = false
		opts.tag = nil
		opts.class = nil
	}
	return
}
