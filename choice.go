package asn1crypto

/*
choice.go contains all functionality pertaining to the ASN.1 CHOICE
type: a type-safe value wrapper ([Choice]), a registry of alternatives
keyed by wire tag ([Choices]), and a process-wide name→registry table
so struct tags (`asn1:"choices:<name>"`) can resolve a registry at
encode/decode time without threading it through every call.
*/

import (
	"reflect"
	"sync"
)

/*
Choice implements a "transport" mechanism for ASN.1 CHOICE types
residing within compound types (e.g.: SEQUENCEs) or standing on their
own. For example:

	type MyStruct struct {
	       SomeField Choice
	       .. other fields ..
	}

An instance of Choice is created with [NewChoice]:

	myChoice := NewChoice(someValue, 2)

... where 2 is the field's CHOICE tag. The tag is only required when
the registry contains more than one alternative of the same Go type
(see [EmbeddedPDV] for a real-world example of this).

	mine := MyStruct{SomeField: myChoice}
*/
type Choice struct {
	value    any
	tag      *int
	explicit bool
}

/*
NewChoice returns a [Choice] instance bound to value, optionally
carrying an explicit alternative tag.
*/
func NewChoice(value any, tag ...int) (c Choice) {
	c.value = value
	c.explicit = true
	if len(tag) > 0 {
		c.SetTag(tag[0])
	}
	return
}

// SetTag assigns tag to the receiver instance, returning the receiver
// to allow chaining.
func (r *Choice) SetTag(tag int) *Choice {
	if r != nil {
		t := tag
		r.tag = &t
	}
	return r
}

// Tag returns the alternative tag carried by the receiver, or -1 if
// none was set.
func (r Choice) Tag() int {
	if r.tag == nil {
		return -1
	}
	return *r.tag
}

// Value returns the wrapped alternative value.
func (r Choice) Value() any { return r.value }

// isChoice marks Choice (and any type embedding it) as a genuine CHOICE
// wrapper, distinguishing it from a field whose static type is merely
// an interface that a registry happens to cover.
func (r Choice) isChoice() {}

var choiceType = reflect.TypeOf(Choice{})

// isChoice reports whether v's (dereferenced) static type is [Choice]
// itself.
func isChoice(v reflect.Value, _ *Options) bool {
	return v.IsValid() && derefTypePtr(v.Type()) == choiceType
}

// isInterfaceChoice reports whether v should be routed through the
// CHOICE alternative codec: either v already is a [Choice], or v's
// static type is an interface and opts names a registry (a field typed
// as the CHOICE's Go interface rather than wrapped in [Choice]).
func isInterfaceChoice(v reflect.Value, opts *Options) bool {
	if !v.IsValid() {
		return false
	}
	t := derefTypePtr(v.Type())
	if t == choiceType {
		return true
	}
	return t.Kind() == reflect.Interface && optsHasChoices(opts)
}

// choiceDescriptor holds the concrete wire mapping for one family of
// CHOICE alternatives: Go type <-> wire tag, plus the class/EXPLICIT
// flag each tag was registered with.
type choiceDescriptor struct {
	typeToTag map[reflect.Type]int
	tagToType map[int]reflect.Type
	class     map[int]int
	explicit  map[int]bool
}

/*
Choices implements a registry of ASN.1 CHOICE alternatives. Alternatives
are added with [Choices.Register] and a registry is made available to
struct tags and [Marshal]/[Unmarshal] callers via [RegisterChoices].
*/
type Choices struct {
	auto bool
	next int
	desc *choiceDescriptor
	reg  map[reflect.Type]*choiceDescriptor
}

/*
NewChoices allocates and returns an instance of [Choices]. When auto
carries a true value, alternatives registered without an explicit tag
receive the next unused tag number automatically, and are always
written EXPLICIT (per X.690, automatic tagging of a CHOICE must remain
distinguishable on the wire).
*/
func NewChoices(auto ...bool) (c Choices) {
	if len(auto) > 0 {
		c.auto = auto[0]
	}
	return
}

func (r *Choices) ensureDescriptor() {
	if r.desc == nil {
		r.desc = &choiceDescriptor{
			typeToTag: make(map[reflect.Type]int),
			tagToType: make(map[int]reflect.Type),
			class:     make(map[int]int),
			explicit:  make(map[int]bool),
		}
	}
	if r.reg == nil {
		r.reg = make(map[reflect.Type]*choiceDescriptor)
	}
}

/*
Register adds one alternative to the receiver instance. The accepted
shapes of args are:

	Register(instance)                       // no interface family, default tag
	Register(instance, opts)                  // default tag family, explicit Options
	Register(ifacePtr, instance)              // interface family, default tag
	Register(ifacePtr, instance, opts)        // interface family, explicit Options

ifacePtr, when present, is a nil pointer to the Go interface type the
family of alternatives will be decoded into (e.g. (*MyInterface)(nil));
pass a literal nil in its place to register only the concrete type.
instance is a zero value (or pointer to one) of the alternative's Go
type. opts, when given, supplies the wire tag/class/EXPLICIT flag; absent
a tag, one is assigned automatically if the registry was constructed
with auto tagging engaged, else tag 0 is used.
*/
func (r *Choices) Register(args ...any) error {
	rest := args

	var ifacePtr, instance any
	if len(rest) > 0 {
		if rest[0] == nil {
			if len(rest) < 2 {
				return errorNilInput
			}
			instance = rest[1]
			rest = rest[2:]
		} else if t := reflect.TypeOf(rest[0]); t != nil &&
			t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
			if len(rest) < 2 {
				return errorNilInput
			}
			ifacePtr = rest[0]
			instance = rest[1]
			rest = rest[2:]
		} else {
			instance = rest[0]
			rest = rest[1:]
		}
	}

	if instance == nil {
		return mkerr("cannot register nil instance; hint: for ASN.1 NULL, use Null type")
	}

	var opts *Options
	for _, x := range rest {
		if o, ok := x.(*Options); ok {
			opts = o
		}
	}

	tag := -1
	cls := ClassContextSpecific
	exp := true
	if opts != nil {
		if opts.HasTag() {
			tag = opts.Tag()
		}
		if opts.HasClass() {
			cls = opts.Class()
		}
		exp = opts.Explicit
	}

	r.ensureDescriptor()

	if tag < 0 {
		if r.auto {
			tag = r.next
			exp = true
		} else {
			tag = 0
		}
	}
	if r.auto && tag >= r.next {
		r.next = tag + 1
	}

	concreteT := derefTypePtr(reflect.TypeOf(instance))

	r.desc.typeToTag[concreteT] = tag
	r.desc.tagToType[tag] = concreteT
	r.desc.class[tag] = cls
	r.desc.explicit[tag] = exp

	r.reg[concreteT] = r.desc
	if ifacePtr != nil {
		r.reg[derefTypePtr(reflect.TypeOf(ifacePtr))] = r.desc
	}

	return nil
}

/*
Choose reports whether instance's Go type was registered in the
receiver instance. When tag is given, Choose additionally requires
that instance's registered wire tag equal tag.
*/
func (r Choices) Choose(instance any, tag ...int) bool {
	if instance == nil || r.desc == nil {
		return false
	}

	t := derefTypePtr(refTypeOf(instance))
	got, ok := r.desc.typeToTag[t]
	if !ok {
		return false
	}
	if len(tag) > 0 {
		return got == tag[0]
	}
	return true
}

// lookupDescriptorByConcrete reports the descriptor governing t, a
// registered alternative's own concrete Go type.
func (r Choices) lookupDescriptorByConcrete(t reflect.Type) (reflect.Type, *choiceDescriptor, bool) {
	if r.desc == nil {
		return nil, nil, false
	}
	if _, ok := r.desc.typeToTag[t]; ok {
		return t, r.desc, true
	}
	return nil, nil, false
}

// lookupDescriptorByTag reports the descriptor and registered Go type
// governing wire tag.
func (r Choices) lookupDescriptorByTag(tag int) (reflect.Type, *choiceDescriptor, bool) {
	if r.desc == nil {
		return nil, nil, false
	}
	if t, ok := r.desc.tagToType[tag]; ok {
		return t, r.desc, true
	}
	return nil, nil, false
}

// lookupDescriptorByInterface reports the descriptor registered for
// interface type t (see the ifacePtr argument of [Choices.Register]).
// A non-interface t always reports false rather than panicking.
func (r Choices) lookupDescriptorByInterface(t reflect.Type) (*choiceDescriptor, bool) {
	if t == nil || t.Kind() != reflect.Interface || r.reg == nil {
		return nil, false
	}
	d, ok := r.reg[t]
	return d, ok
}

var (
	choicesMu    sync.RWMutex
	namedChoices = map[string]Choices{}
)

// RegisterChoices makes c available under name to struct tags
// (`asn1:"choices:<name>"`) and [Options.Choices].
func RegisterChoices(name string, c Choices) {
	choicesMu.Lock()
	defer choicesMu.Unlock()
	namedChoices[name] = c
}

// UnregisterChoices removes the registry previously stored under name.
func UnregisterChoices(name string) {
	choicesMu.Lock()
	defer choicesMu.Unlock()
	delete(namedChoices, name)
}

// GetChoices returns the registry stored under name, if any.
func GetChoices(name string) (Choices, bool) {
	choicesMu.RLock()
	defer choicesMu.RUnlock()
	c, ok := namedChoices[name]
	return c, ok
}

/*
marshalChoiceWrapper encodes fv -- which must hold a [Choice] value,
boxed or concrete -- as a double-wrapped TLV: an outer "[tag] EXPLICIT"
header (context-specific unless the registry says otherwise) whose
content is the alternative's own complete, natural encoding (header and
all). Every registered CHOICE alternative is written this way regardless
of its Options.Explicit setting -- the registry dispatches purely by
wire tag, and an implicit/bare alternative would be ambiguous to
re-parse without first knowing which alternative was chosen.
*/
func marshalChoiceWrapper(_ reflect.Value, pkt PDU, opts *Options, fv reflect.Value) (err error) {
	ch, ok := fv.Interface().(Choice)
	if !ok {
		return codecErrorf("marshalChoiceWrapper: expected a Choice value")
	}

	tag := ch.Tag()
	cls := ClassContextSpecific
	concrete := derefTypePtr(reflect.TypeOf(ch.Value()))

	if reg, found := GetChoices(opts.Choices); found {
		if tag < 0 {
			if _, desc, ok := reg.lookupDescriptorByConcrete(concrete); ok {
				tag = desc.typeToTag[concrete]
				cls = desc.class[tag]
			}
		} else if _, desc, ok := reg.lookupDescriptorByTag(tag); ok {
			cls = desc.class[tag]
		}
	}
	if tag < 0 {
		tag = 0
	}

	typ := pkt.Type()
	tmp := typ.New()
	inner := clearChildOpts(opts)
	inner.Choices = ""

	if err = encodeElement(refValueOf(ch.Value()), tmp, inner); err != nil {
		return compositeErrorf("marshalChoiceWrapper: ", err)
	}

	tlv := typ.newTLV(cls, tag, tmp.Len(), true, tmp.Data()...)
	return pkt.WriteTLV(tlv)
}
