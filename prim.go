package asn1crypto

/*
prim.go contains all types and methods pertaining to the general
implementation of ASN.1 primitives for this package.
*/

import "reflect"

/*
Primitive encompasses all ASN.1 primitive types:

  - [BMPString]
  - [BitString]
  - [Date]
  - [DateTime]
  - [Duration]
  - [Enumerated]
  - [GeneralString]
  - [GeneralizedTime]
  - [GraphicString]
  - [IA5String]
  - [Integer]
  - [NumericString]
  - [ObjectDescriptor]
  - [ObjectIdentifier]
  - [OctetString]
  - [PrintableString]
  - [RelativeOID]
  - [T61String]
  - [Time]
  - [TimeOfDay]
  - [UTCTime]
  - [UTF8String]
  - [UniversalString]
  - [VideotexString]
  - [VisibleString]
*/
type Primitive interface {
	Tag() int
	String() string
	IsPrimitive() bool

	write(Packet, Options) (int, error)
	read(Packet, TLV, Options) error
}

func primitiveCheckExplicitRead(tag int, pkt Packet, tlv TLV, opts Options) (data []byte, err error) {
	if !(tlv.Class == opts.Class() && tlv.Tag == opts.Tag() && tlv.Compound) {
		return nil, mkerr("Invalid explicit " + TagNames[tag] + " header in " +
			pkt.Type().String() + " packet; received TLV: " + tlv.String())
	}
	if len(pkt.Data()) < 2 {
		return nil, mkerr("Truncated explicit TLV header")
	}

	// An explicit wrapper's value is itself a complete inner TLV; unwrap
	// it by re-parsing the wrapped bytes as their own packet.
	bufPtr := getBuf()
	defer putBuf(bufPtr)

	inner := pkt.Type().New((*bufPtr)...)
	inner.Append(tlv.Value...)
	inner.SetOffset(0)

	innerTLV, iErr := inner.TLV()
	if iErr != nil {
		return nil, iErr
	}

	data = innerTLV.Value
	if len(data) > innerTLV.Length {
		data = data[:innerTLV.Length]
	}
	return data, nil
}

func primitiveCheckImplicitRead(tag int, pkt Packet, tlv TLV, opts Options) (data []byte, err error) {
	switch {
	case opts.HasClass() && tlv.Class != opts.Class():
		err = mkerr("Class mismatch for implicit tag")
	case opts.HasTag() && tlv.Tag != opts.Tag():
		err = mkerr("Tag mismatch for implicit tag")
	case !(opts.HasTag() || opts.HasClass()) &&
		(tlv.Class != ClassUniversal || tlv.Tag != tag || tlv.Compound):
		// No tag/class override: the header must be the plain universal one.
		err = mkerr("Invalid " + TagNames[tag] + " header in " +
			pkt.Type().String() + " packet; received TLV: " + tlv.String())
	}
	if err != nil {
		return nil, err
	}

	data = tlv.Value
	if tlv.Length >= 0 && len(data) > tlv.Length {
		data = data[:tlv.Length]
	}
	return data, nil
}

func primitiveCheckRead(tag int, pkt Packet, tlv TLV, opts Options) (data []byte, err error) {
	if data, err = primitiveCheckReadOverride(tag, pkt, tlv, opts); err == nil {
		if len(data) == 0 {
			if tag != TagNull {
				err = mkerr("Empty " + TagNames[tag] + " content")
			}
		} else {
			// Chop the indefinite 0x00 0x00 markers IF we're
			// in INDEFINITE mode AND if Packet type is BER
			// WITH a length of 0x80.
			//
			// TODO: revisit this approach.
			if pkt.Type() == BER && pkt.Data()[1] == 0x80 {
				if data[len(data)-1] == 0x00 &&
					data[len(data)-2] == 0x00 {
					data = data[:len(data)-2]
				}
			}
		}
	}

	if len(data) == 0 && tag != TagNull {
		err = mkerr("Empty " + TagNames[tag] + " content in " +
			pkt.Type().String() + " Packet")
	}

	return
}

func primitiveCheckReadOverride(tag int, pkt Packet, tlv TLV, opts Options) (data []byte, err error) {
	// If a tagging override was provided, handle it.
	if opts.HasTag() {
		if opts.Explicit {
			data, err = primitiveCheckExplicitRead(tag, pkt, tlv, opts)
		} else {
			// Implicit tagging: the TLV itself was retagged.
			data, err = primitiveCheckImplicitRead(tag, pkt, tlv, opts)
		}
	} else {
		// No tagging override: treat as UNIVERSAL.
		if tlv.Class != ClassUniversal || tlv.Tag != tag || tlv.Compound {
			err = mkerr("Invalid " + TagNames[tag] + " header in " +
				pkt.Type().String() + " packet; received TLV: " + tlv.String())
			return
		}

		if len(pkt.Data()) < 2 {
			err = mkerr("Truncated TLV header")
		} else {
			if full := tlv.Value; len(full) > tlv.Length && tlv.Length != -1 {
				data = full[:tlv.Length]
			} else {
				data = full
			}
		}
	}

	return
}

/*
isPrimitive returns a Boolean value indicative of one (1) of the
following conditions being satisfied:

  - Instance qualifies the Primitive interface type, or ...
  - Instance bears an "IsPrimitive() bool" method AND returns true
*/
var primitiveIface = reflect.TypeOf((*Primitive)(nil)).Elem()

func isPrimitive(target any) bool {
	if target == nil {
		return false
	}
	if _, ok := target.(Primitive); ok {
		return true
	}

	t := derefTypePtr(reflect.TypeOf(target))
	return t.Implements(primitiveIface) || reflect.PtrTo(t).Implements(primitiveIface)
}
