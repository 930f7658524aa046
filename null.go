package asn1crypto

/*
null.go contains all types and methods pertaining to the ASN.1
NULL type.
*/

/*
Null implements the ASN.1 NULL type (tag 5).

There is no constructor for instances of this type.
*/
type Null struct{}

/*
Tag returns the integer constant [TagNull].
*/
func (_ Null) Tag() int { return TagNull }

/*
Len always returns zero (0).
*/
func (_ Null) Len() int { return 0 }

/*
String returns the string representation of the receiver instance.
*/
func (_ Null) String() string { return string(rune(0)) }

/*
IsPrimitive returns true, indicating the receiver is considered an
ASN.1 primitive type. This method serves as a marker to differentiate
qualified instances from other interfaces of a similar design.
*/
func (_ Null) IsPrimitive() bool { return true }

func (r Null) write(pkt Packet, opts *Options) (n int, err error) {
	if t := pkt.Type(); t == BER || t == DER {
		tag, class := effectiveTag(r.Tag(), 0, opts)
		if err = writeTLV(pkt, t.newTLV(class, tag, 0, false), opts); err == nil {
			pkt.SetOffset(0)
		}
	}
	return
}

func (r *Null) read(pkt Packet, tlv TLV, opts *Options) error {
	if pkt == nil {
		return mkerr("Nil Packet encountered during read")
	}
	if pkt.Type() != BER && pkt.Type() != DER {
		return nil
	}

	if _, err := primitiveCheckRead(r.Tag(), pkt, tlv, opts); err != nil {
		return err
	}
	switch {
	case pkt.Offset()+tlv.Length > pkt.Len():
		return errorASN1Expect(pkt.Offset()+tlv.Length, pkt.Len(), "Length")
	case tlv.Length != 0:
		return mkerrf("Invalid NULL length: expected 0, got ", itoa(tlv.Length))
	}

	pkt.SetOffset(pkt.Offset() + tlv.Length)
	return nil
}
