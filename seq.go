package asn1crypto

/*
seq.go implements the ASN.1 SEQUENCE composite type, which in Go
manifests as a struct: each exported field walks through
[extractOptions] to read its "asn1:" tag, then through encodeElement/
decodeElement (runtime.go) to read or write its wire form. RawContent
capture, extensible ("...") trailers, embedded ("componentsOf") fields,
and per-field CHOICE wrapping are all handled here; SET is a SEQUENCE
whose fields get re-sorted by tag before writing (see set.go).
*/

import "reflect"

/*
RawContent implements a []byte slice in the same context
as the [encoding/asn1.RawContent] type.
*/
type RawContent []byte

/*
marshalSequence returns an error following an
attempt to marshal sequence (struct) v into pkt.
*/
func marshalSequence(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	if isSet(v.Interface(), opts) {
		return marshalSet(v, pkt, opts)
	}

	typ := v.Type()
	fields := structFields(typ)
	rawIdx := findRawContentIndex(typ, fields)
	seqTag := sequenceTagFor(opts)

	extIdx, err := extensionFieldIndex(fields, opts)
	if err != nil {
		return
	}

	sub := pkt.Type().New()
	auto := optsIsAutoTag(opts)

	for i := 0; i < len(fields) && err == nil; i++ {
		field := fields[i]
		if field.PkgPath != "" || rawIdx == i {
			continue
		}

		var fOpts *Options
		if fOpts, err = extractOptions(field, i, auto); err != nil {
			break
		}

		switch {
		case i == extIdx:
			err = encodeExtensionField(v.Field(i), sub, fOpts)
		case fOpts.ComponentsOf:
			err = encodeEmbeddedFields(field, v.Field(i), sub, fOpts, auto)
		default:
			err = encodeSequenceField(field.Name, v, v.Field(i), sub, fOpts)
		}
	}

	if err == nil {
		err = wrapSequenceTLV(sub, pkt, opts, seqTag)
	}
	return
}

/*
structFields returns slices of [reflect.StructField].
*/
func structFields(t reflect.Type) (fields []reflect.StructField) {
	t = derefTypePtr(t)
	if t.Kind() != reflect.Struct {
		return nil
	}
	fields = make([]reflect.StructField, t.NumField())
	for i := range fields {
		fields[i] = t.Field(i)
	}
	return
}

func encodeExtensionField(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	tlvs, ok := v.Interface().([]TLV)
	if !ok {
		return generalErrorf("Assertion error: expected []TLV, got ", v.Type())
	}
	for i := 0; i < len(tlvs) && err == nil; i++ {
		err = writeTLV(pkt, tlvs[i], opts)
	}
	return
}

func encodeSequenceField(name string, v, fv reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(newLItem(name, "field"), v, fv, pkt, opts)
	defer func() { debugExit(newLItem(err)) }()

	if opts.defaultEquals(fv.Interface()) {
		return // matches the declared default; elide per DER
	}
	if optsIsOmit(opts) && fv.IsZero() {
		return // zero value, omitempty declared
	}

	if err = checkFieldPresence(name, fv, opts); err != nil {
		return
	}
	if err = applyFieldConstraints(fv.Interface(), opts.Constraints, '^'); err != nil {
		return
	}

	if handled, herr := encodeFieldChoice(v, fv, pkt, opts); handled {
		err = herr
		return
	}

	opts.incDepth()
	err = encodeElement(fv, pkt, opts)
	return
}

func encodeEmbeddedFields(
	field reflect.StructField,
	v reflect.Value,
	sub PDU,
	opts *Options,
	auto bool,
) (err error) {
	debugEnter(newLItem(field.Name, "field"), newLItem(auto, "auto tag"), v, sub, opts)
	defer func() { debugExit(newLItem(err)) }()

	if !field.Anonymous {
		return errorComponentsNotAnonymous
	}

	t := v.Type()
	for i := 0; i < t.NumField() && err == nil; i++ {
		if field = t.Field(i); field.PkgPath != "" {
			continue
		}
		var fOpts *Options
		if fOpts, err = extractOptions(field, i, auto); err == nil {
			fOpts.copyDepth(opts)
			err = encodeSequenceField(field.Name, v, v.Field(i), sub, fOpts)
		}
	}
	return
}

func encodeFieldChoice(v, fv reflect.Value, pkt PDU, opts *Options) (handled bool, err error) {
	debugEnter(v, fv, pkt, opts)
	defer func() { debugExit(newLItem(handled, "handled"), newLItem(err)) }()

	switch {
	case isChoice(fv, opts):
		// fv already holds a genuine Choice wrapper.
		handled = true
		err = marshalChoiceWrapper(v, pkt, opts, fv)
	case isInterfaceChoice(fv, opts):
		// Field's static type isn't Choice, but opts marks it as one:
		// box it artificially before wrapping.
		handled = true
		ch := refValueOf(NewChoice(fv.Interface(), opts.Tag()))
		err = marshalChoiceWrapper(v, pkt, opts, ch)
	}
	return
}

// sequenceTagFor resolves the universal/overridden tag a SEQUENCE
// header should carry: the caller's explicit tag if given, else tag 0
// when the class was changed away from UNIVERSAL, else UNIVERSAL 16.
func sequenceTagFor(o *Options) int {
	debugEnter(o)
	seqTag := TagSequence
	switch {
	case o == nil:
	case o.HasTag():
		seqTag = o.Tag()
	case o.Class() != ClassUniversal:
		seqTag = 0
	}
	debugExit(newLItem(seqTag, "seq tag"))
	return seqTag
}

func marshalSequenceOfSlice(v reflect.Value, pkt PDU, _ *Options) (err error) {
	debugEnter(v, pkt)
	defer func() { debugExit(newLItem(err)) }()

	typ := pkt.Type()
	sub := typ.New()
	for i := 0; i < v.Len() && err == nil; i++ {
		err = encodeElement(v.Index(i), sub, implicitOptions())
	}
	if err != nil {
		return
	}

	id := emitHeader(ClassUniversal, TagSequence, true)
	debugPrim(newLItem(id, "header"))
	pkt.Append(id)

	content := sub.Data()
	bufPtr := getBuf()
	encodeLengthInto(typ, bufPtr, len(content))
	pkt.Append(*bufPtr...)
	putBuf(bufPtr)
	pkt.Append(content...)

	return
}

// checkFieldPresence validates a field's Go-level nil/zero state
// against its ABSENT/OPTIONAL declaration before encoding: ABSENT
// forbids a non-nil pointer, and a non-OPTIONAL field must actually
// hold something.
func checkFieldPresence(name string, fv reflect.Value, opts *Options) (err error) {
	debugEnter(newLItem(name, "field"), fv, opts)
	defer func() { debugExit(newLItem(err)) }()

	k := fv.Kind()
	if k == reflect.Ptr {
		if opts.Absent && !fv.IsNil() {
			return errorAbsentNotNilPtr
		}
	} else if opts.Absent {
		return errorAbsentNotNilPtr
	}

	if !opts.Optional && (k == reflect.Invalid || fv.Interface() == nil) {
		err = missingFieldErrorf(errorSeqEmptyNonOptField, ": ", name)
	}
	return
}

func wrapSequenceTLV(sub, pkt PDU, opts *Options, seqTag int) (err error) {
	debugEnter(sub, pkt, opts, newLItem(seqTag, "seq tag"))
	defer func() { debugExit(newLItem(err)) }()

	sub.SetOffset(0)
	content := sub.Data()

	class, tag := ClassUniversal, TagSequence
	switch {
	case opts == nil:
	case opts.depth == 1:
		class, tag = opts.Class(), seqTag
	case opts.HasTag():
		class, tag = opts.Class(), opts.Tag()
	}

	tlv := pkt.Type().newTLV(class, tag, len(content), true, content...)
	pkt.Append(encodeTLV(tlv, opts)...)
	return
}

/*
unmarshalSequence returns an error following an attempt to write pkt into sequence (struct) v.
*/
func unmarshalSequence(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, pkt, opts)
	defer func() { debugExit(newLItem(err)) }()

	tlv, err := pkt.TLV()
	if err != nil {
		return compositeErrorf("unmarshalSequence: reading SEQUENCE TL header failed: ", err)
	}

	seqContent, _, err := contentSlice(pkt, tlv)
	if err != nil {
		return compositeErrorf("unmarshalSequence: insufficient data for SEQUENCE content: ", err)
	}

	sub := pkt.Type().New(seqContent...)
	sub.SetOffset(0)

	typ := v.Type()
	fields := structFields(typ)

	if findRawContentIndex(typ, fields) == 0 {
		if err = refSetValue(v.Field(0), refValueOf(tlv.Value)); err != nil {
			return
		}
	}

	extIdx, err := extensionFieldIndex(fields, opts)
	if err != nil {
		return
	}

	auto := optsIsAutoTag(opts)
	for i := 0; i < len(fields) && err == nil; i++ {
		field := fields[i]
		if field.PkgPath != "" {
			continue
		}

		var fOpts *Options
		if fOpts, err = extractOptions(field, i, auto); err != nil {
			break
		}

		switch {
		case i == extIdx:
			err = decodeExtensionField(v.Field(i), sub, fOpts)
		case field.Type == rawContentType && i != 0:
			err = errorExtensionNotFieldZero
		case fOpts.ComponentsOf:
			err = decodeEmbeddedFields(field, v.Field(i), sub, fOpts, auto)
		default:
			err = decodeSequenceField(field.Name, v.Field(i), sub, fOpts)
		}
	}

	return
}

func decodeExtensionField(v reflect.Value, pkt PDU, opts *Options) (err error) {
	debugEnter(v, opts, pkt)
	defer func() { debugExit(newLItem(err)) }()

	var exts []TLV
	for pkt.HasMoreData() && err == nil {
		var tlv TLV
		if tlv, err = pkt.TLV(); err == nil {
			pkt.AddOffset(tlv.Length)
			exts = append(exts, tlv)
		}
	}
	debugComposite(newLItem(len(exts), "TLVs unmarshaled"))

	if err == nil {
		err = refSetValue(v, refValueOf(exts))
	}
	return
}

func decodeSequenceField(name string, fv reflect.Value, sub PDU, opts *Options) (err error) {
	debugEnter(newLItem(name, "field"), fv, opts, sub)
	defer func() { debugExit(newLItem(err)) }()

	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			err = refSetValue(fv, refNew(fv.Type().Elem()))
		}
		if err == nil {
			err = decodeSequenceField(name, fv.Elem(), sub, opts)
		}
		return
	}

	if handled, herr := skipAbsentOrOptionalField(sub, opts); herr != nil {
		return herr
	} else if handled {
		return nil
	}

	if err = decodeElement(sub, fv, opts); err != nil {
		// Fall back to a declared default before giving up.
		def := opts.Default
		if def == nil {
			def, _ = lookupDefaultValue(opts.defaultKeyword)
		}
		if def != nil {
			err = refSetValue(fv, refValueOf(def))
		} else {
			cause := compositeErrorf("decodeSequenceField: failed for field ", name, ": ", err)
			if berr := checkFieldPresence(name, fv, opts); berr != nil {
				cause = berr
			}
			err = cause
		}
	}

	if err == nil {
		err = applyFieldConstraints(fv.Interface(), opts.Constraints, '$')
	}
	return
}

// skipAbsentOrOptionalField decides, before attempting to decode a
// field, whether there is nothing to decode at all: ABSENT fields are
// always skipped, OPTIONAL fields are skipped when the data is
// exhausted or the next TLV's tag doesn't match what this field
// expects.
func skipAbsentOrOptionalField(sub PDU, opts *Options) (handled bool, err error) {
	debugEnter(opts, sub)
	defer func() { debugExit(err) }()

	mask := EventComposite | EventTrace
	abs := optsIsAbsent(opts)

	if !optsIsOptional(opts) && !(abs || optsHasDefault(opts)) {
		debugEvent(mask, newLItem(handled, "handled"), newLItem("skip non-ABSENT/non-OPTIONAL"))
		return
	}
	if abs {
		handled = true
		debugEvent(mask, newLItem(handled, "handled"), newLItem("skip ABSENT"))
		return
	}
	if !sub.HasMoreData() {
		handled = true
		debugEvent(mask, newLItem(handled, "handled"), newLItem("skip OPTIONAL (no more data)"))
		return
	}

	tlv, perr := sub.PeekTLV()
	if perr != nil {
		handled = true
		debugEvent(mask, newLItem(handled, "handled"), newLItem("skip OPTIONAL (peek error)"))
		return
	}

	if tlv.matchClassAndTag(opts.Class(), opts.Tag()) {
		debugEvent(mask, newLItem(handled, "handled"), newLItem("parse OPTIONAL: class/tag matched"))
		return
	}

	handled = true
	debugEvent(mask, newLItem(handled, "handled"),
		newLItem("skip OPTIONAL (next tag is", tlv.Class, "/", tlv.Tag, ")"))
	return
}

func decodeEmbeddedFields(
	field reflect.StructField,
	v reflect.Value,
	sub PDU,
	opts *Options,
	auto bool,
) (err error) {
	debugEnter(field, v, opts, newLItem(auto, "auto tag"), sub)
	defer func() { newLItem(err) }()

	if !field.Anonymous {
		return errorComponentsNotAnonymous
	}

	t := v.Type()
	for i := 0; i < t.NumField() && err == nil; i++ {
		if field = t.Field(i); field.PkgPath != "" {
			continue
		}
		var fOpts *Options
		if fOpts, err = extractOptions(field, i, auto); err == nil {
			fOpts.copyDepth(opts)
			err = decodeSequenceField(field.Name, v.Field(i), sub, fOpts)
		}
	}
	return
}

func extensionFieldIndex(fields []reflect.StructField, opts *Options) (idx int, err error) {
	debugEnter(opts)
	defer func() { debugExit(newLItem(err)) }()

	idx = -1
	auto := optsIsAutoTag(opts)
	for i, sf := range fields {
		if sf.PkgPath != "" {
			continue
		}
		var fOpts *Options
		if fOpts, err = extractOptions(sf, i, auto); err != nil || !fOpts.Extension {
			continue
		}
		if sf.Type.Kind() != reflect.Slice || sf.Type.Elem() != tLVType {
			err = compositeErrorf("extension field ", i, " must be []TLV")
		} else {
			idx = i
		}
		break
	}

	debugEvent(EventComposite|EventTrace, newLItem(idx, "extensible index"))
	return
}

func findRawContentIndex(typ reflect.Type, fields []reflect.StructField) (idx int) {
	debugEnter(typ)
	idx = -1
	if typ.Kind() == reflect.Struct && len(fields) > 0 {
		if sf := fields[0]; sf.PkgPath == "" && sf.Type == rawContentType {
			idx = 0
		}
	}
	debugEvent(EventComposite|EventTrace, newLItem(idx, "raw content index"))
	return
}
