package asn1crypto

/*
ber.go contains BER-focused components. See also der.go.
*/

import (
	"io"
	"sync"
)

/*
BERPacket implements a data encapsulation and transport type to store
[ITU-T Rec. X.690] [BER]-encoded content. It qualifies the [Packet]
interface.

Instances of this type may be created using [Marshal] with the [BER]
encoding rule constant.

See also [DERPacket], which extends from this type.
*/
type BERPacket struct {
	id     string
	data   []byte
	offset int
}

/*
Type returns [BER], identifying the receiver as an ASN.1 Basic Encoding
Rules [Packet] qualifier.
*/
func (r BERPacket) Type() EncodingRule { return BER }

/*
ID returns a unique hexadecimal debugging identifier, or a zero string
if this package was not run or built with '-tags asn1_debug'.
*/
func (r BERPacket) ID() string { return r.id }

/*
Dump returns an error following an attempt to write the receiver
instance into the io.Writer.
*/
func (r *BERPacket) Dump(w io.Writer, wrapAt ...int) error { return dumpPacket(r, w, wrapAt...) }

/*
AddOffset increments the underlying buffer offset using the magnitude
of the input integer.
*/
func (r *BERPacket) AddOffset(n int) { r.offset = incPacketOffset(r, n) }

/*
Class returns an integer alongside an error following an attempt to parse
the outermost class identifier present within the underlying receiver buffer.
*/
func (r BERPacket) Class() (int, error) {
	buf := r.Data()
	if r.Offset() >= len(buf) {
		return 0, errorOutOfBounds
	}
	return parseClassIdentifier(buf[r.Offset():])
}

/*
Tag returns an integer alongside an error following an attempt to parse
the outermost tag identifier present within the underlying receiver buffer.
*/
func (r BERPacket) Tag() (int, error) {
	buf := r.Data()
	if r.Offset() >= len(buf) {
		return 0, errorOutOfBounds
	}
	tag, _, err := parseTagIdentifier(buf[r.Offset():])
	return tag, err
}

/*
Compound returns a Boolean alongside an error following an attempt to parse the
outermost compound identifier present within the underlying receiver buffer.
*/
func (r BERPacket) Compound() (bool, error) {
	buf := r.Data()
	if r.Offset() >= len(buf) {
		return false, errorOutOfBounds
	}
	return parseCompoundIdentifier(buf[r.Offset():])
}

/*
Bytes returns the "body" of the underlying buffer alongside an error following an attempt
to extract all but the outermost header information (omit class, tag, etc.) up to and not
including the next payload.
*/
func (r BERPacket) Bytes() ([]byte, error) {
	return parseBody(r.Data(), r.Offset(), r.Type())
}

/*
FullBytes returns the complete TLV (header and content) that begins at the
current offset.
*/
func (r BERPacket) FullBytes() ([]byte, error) {
	return parseFullBytes(r.Data(), r.Offset(), r.Type())
}

/*
Hex returns the hexadecimal encoding of the underlying encoded value
within the receiver instance.
*/
func (r BERPacket) Hex() string { return formatHex(&r) }

/*
Len returns the integer length of the underlying byte buffer within
the receiver instance.
*/
func (r BERPacket) Len() int { return len(r.data) }

/*
HasMoreData returns a Boolean value indicative of whether there are more bytes remaining
to be processed.
*/
func (r BERPacket) HasMoreData() bool { return r.offset < len(r.data) }

/*
Data returns the underlying byte slice.
*/
func (r BERPacket) Data() []byte { return r.data }

/*
Append appends data to the receiver instance.
*/
func (r *BERPacket) Append(data ...byte) {
	if r == nil || len(data) == 0 {
		return
	}
	need := len(r.data) + len(data)

	if cap(r.data) < need {
		bufPtr := bufPool.Get().(*[]byte)
		if cap(*bufPtr) < need {
			*bufPtr = make([]byte, 0, need*2)
		}
		newBuf := append((*bufPtr)[:0], r.data...)

		if cap(r.data) != 0 {
			old := r.data[:0]
			bufPool.Put(&old)
		}
		r.data = newBuf
	}

	r.data = append(r.data, data...)
}

/*
Offset returns the current offset position index of the underlying value within the receiver
instance.
*/
func (r *BERPacket) Offset() int { return r.offset }

/*
SetOffset replaces the current offset position index of the underlying value within the receiver
instance with a user-supplied value.

This method is intended for use in special cases where a particular packet may need to be re-read
for some reason, or if it is necessary to write additional data.

Supplying an integer of negative one (-1) will set the offset to the final character in the
underlying buffer if non-zero in length.

If no variadic input is provided,, the offset position index is set to zero (0).
*/
func (r *BERPacket) SetOffset(offset ...int) { r.offset = setPacketOffset(r, offset...) }

/*
Free frees the receiver instance.
*/
func (r *BERPacket) Free() {
	if cap(r.data) != 0 {
		buf := r.data[:0]
		bufPool.Put(&buf)
	}
	*r = BERPacket{}
	berPktPool.Put(r)
}

/*
PeekTLV returns [TLV] alongside an error. This method is similar to the standard
[Packet.TLV] method, except this method does not advance the offset.
*/
func (r *BERPacket) PeekTLV() (TLV, error) {
	sub := r.Type().New(r.Data()...)
	sub.SetOffset(r.Offset())
	return getTLV(sub, nil)
}

/*
TLV returns an instance of [TLV] alongside an error following an attempt
to read the next [BER] tag/length header.
*/
func (r *BERPacket) TLV() (TLV, error) { return getTLV(r, nil) }

/*
WriteTLV returns an error following an attempt to write a [BER] tag/length
header to the receiver buffer.
*/
func (r *BERPacket) WriteTLV(tlv TLV) error { return writeTLV(r, tlv, nil) }

/*
Packet returns an instance of [Packet] alongside an error following an attempt to read
the next L (length) bytes from the receiver instance into the return [Packet].

This method is used in cases where a constructed type, i.e.: a SEQUENCE (struct), resides
within another constructed type via nesting.

Note that successful use of this method advances the receiver offset past the extracted
bytes (position offset+L).
*/
func (r *BERPacket) Packet(L int) (Packet, error) { return extractPacket(r, L) }

func readIndefiniteContents(data []byte, offset int) (contents []byte, newOffset int, err error) {
	for i := offset; i < len(data)-1; i++ {
		if data[i] == 0x00 && data[i+1] == 0x00 {
			return data[offset:i], i + 2, nil
		}
	}
	return nil, 0, mkerr("Missing end-of-contents marker")
}

func encodeBERLengthInto(dst *[]byte, n int) {
	if n == -1 { // indefinite
		*dst = append(*dst, 0x80)
		return
	}
	encodeDERLengthInto(dst, n)
}

/*
encodeDERLengthInto appends the definite-form length octets for n onto
dst, using the short form for n < 0x80 and the long form otherwise. This
is the shared definite-length encoder used by both [BER] and [DER].
*/
func encodeDERLengthInto(dst *[]byte, n int) {
	if n < 0 {
		n = 0
	}

	if n < 0x80 {
		*dst = append(*dst, byte(n))
		return
	}

	var b []byte
	for v := n; v > 0; v >>= 8 {
		b = append([]byte{byte(v & 0xff)}, b...)
	}
	*dst = append(*dst, byte(0x80|len(b)))
	*dst = append(*dst, b...)
}

var berPktPool = sync.Pool{New: func() any { return &BERPacket{} }}

func getBERPacket() *BERPacket { return berPktPool.Get().(*BERPacket) }
func putBERPacket(p *BERPacket) {
	*p = BERPacket{}
	berPktPool.Put(p)
}

func newBERPacket(src ...byte) PDU {
	r := getBERPacket()
	r.id = makePacketID()
	r.data = append(r.data[:0], src...)
	r.offset = 0
	return r
}

func init() {
	activeEncodingRules |= BER
	pDUConstructors[BER] = newBERPacket
}
