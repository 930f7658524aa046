package asn1crypto

/*
opts.go contains all types and methods pertaining to the
custom Options type, which serves to deliver instructions
to the encoding/decoding process through use of struct
tags OR manual delivery of an Options instance.
*/

import (
	"reflect"
	"sync"
)

/*
Options implements a simple encapsulator for encoding options. Instances
of this type serve two purposes.

  - Allow the user to specify top-level encoding options (e.g.: encode a SEQUENCE with [ClassApplication] as opposed to [ClassUniversal]
  - Simplify package internals by having a portable storage type for parsed struct field instructions which bear the "asn1:" tag prefix
*/
type Options struct {
	Explicit     bool     // if true, wrap the field in an explicit tag
	Optional     bool     // if true, the field is optional
	OmitEmpty    bool     // whether to ignore empty slice values
	Set          bool     // if true, encode as SET instead of SEQUENCE (for collections)
	Indefinite   bool     // whether a field is known to be of an indefinite length
	Automatic    bool     // whether automatic tagging is to be applied to a SEQUENCE, SET or CHOICE(s)
	Choices      string   // name under which the field's Choices registry was registered via RegisterChoices
	Identifier   string   // "ia5", "numeric", "utf8" etc. (for string fields)
	Constraints  []string // references to registered Constraint/ConstraintGroup instances
	Default      any      // default value
	ComponentsOf bool      // embeds an anonymous struct's fields inline (WITH COMPONENTS OF)
	Absent       bool      // field must be absent from the wire (WITH COMPONENTS {..., field ABSENT})
	Extension    bool      // field marks the start of an extension addition (ASN.1 "...")

	tag, // if non-nil, indicates an alternative tag number.
	class, // represents the ASN.1 class: universal, application, context-specific, or private.
	choiceTag *int // tag for choice selection, if provided
	unidentified    []string // for unidentified or superfluous keywords
	defaultKeyword  string   // name of a registered default value (the "name" in "default::name")
	depth           int      // recursion depth at which this Options value is being applied
}

// defaultOptions returns default options (e.g., no explicit tagging, context-specific for tagged fields)
func defaultOptions() Options {
	// For tagged fields we typically default to context-specific unless overridden.
	class := ClassContextSpecific
	return Options{
		class: &class, // by default, a "tag:x" implies context-specific.
	}
}

func implicitOptions() Options {
	opts := defaultOptions()
	opts.SetClass(ClassUniversal)
	return opts
}

// addStringConfigValue appends val to dst if cond is true.
func addStringConfigValue(dst *[]string, cond bool, val string) {
	if cond {
		*dst = append(*dst, val)
	}
}

// stringifyDefault converts r.Default into its tag-ready form.
func stringifyDefault(d any) string {
	switch v := d.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return bool2str(v)
	case Integer:
		return v.String()
	default:
		return "unidentified-value"
	}
}

/*
String returns the string representation of the receiver instance.
*/
func (r Options) String() string {
	var parts []string

	addStringConfigValue(&parts, r.Tag() >= 0, "tag:"+itoa(r.Tag()))
	addStringConfigValue(&parts, validClass(r.Class()) && r.Class() > 0, lc(ClassNames[r.Class()]))
	if r.choiceTag != nil {
		addStringConfigValue(&parts, true, "choice-tag:"+itoa(*r.choiceTag))
	}
	addStringConfigValue(&parts, r.Explicit, "explicit")
	addStringConfigValue(&parts, r.Optional, "optional")
	addStringConfigValue(&parts, r.Automatic, "automatic")
	addStringConfigValue(&parts, r.Set, "set")
	addStringConfigValue(&parts, r.ComponentsOf, "componentsof")
	addStringConfigValue(&parts, r.Absent, "absent")
	addStringConfigValue(&parts, r.Extension, "extension")

	// constraints (leave the single loop â€‘ counts as one branch)
	for _, c := range r.Constraints {
		parts = append(parts, "constraint:"+c)
	}

	addStringConfigValue(&parts, r.OmitEmpty, "omitempty")

	if def := stringifyDefault(r.Default); def != "" {
		parts = append(parts, def)
	}

	addStringConfigValue(&parts, r.Identifier != "", lc(r.Identifier))
	addStringConfigValue(&parts, r.Choices != "", lc(r.Choices))

	return join(parts, ",")
}

/*
NewOptions returns a new instance of [Options] alongside an error
following an attempt to parse the input tag string value.

The syntax of tag is the same as [encoding/asn1], e.g.:

	asn1:"application"
	asn1:"tag:4,explicit"
*/
func NewOptions(tag string) (Options, error) {
	var (
		opts Options
		err  error
	)

	if tag = trimS(lc(tag)); hasPfx(tag, `asn1:`) {
		tag = trimS(tag[5:])
	}

	if len(tag) == 0 {
		err = errorEmptyASN1Parameters
	} else {
		opts, err = parseOptions(tag)
	}

	return opts, err
}

func parseOptions(tagStr string) (opts Options, err error) {
	opts = implicitOptions()
	tagStr = trim(tagStr, `"`)
	tokens := split(tagStr, ",")

	for _, token := range tokens {
		token = trimS(token)
		switch {
		case hasPfx(token, "tag:"):
			numStr := trimPfx(token, "tag:")
			var tag int
			if tag, err = atoi(numStr); err != nil || tag < 0 {
				err = mkerr("invalid tag number " + numStr)
				return opts, err
			}
			opts.SetTag(tag)
			// If a tag is provided and no class keyword is present,
			// use context-specific instead of universal. This may be
			// overridden.
			opts.SetClass(ClassContextSpecific)
		case strInSlice(token, []string{"explicit", "optional", "automatic", "set", "omitempty",
			"indefinite", "componentsof", "absent", "extension"}):
			opts.setBool(token)
		case hasPfx(token, "constraint:"):
			opts.Constraints = append(opts.Constraints, trimPfx(token, "constraint:"))
		case hasPfx(token, "choices:"):
			opts.Choices = trimPfx(token, "choices:")
		case hasPfx(token, "default:"):
			opts.parseOptionDefault(token)
		default:
			if isClass := opts.writeClassToken(token); !isClass {
				opts.parseOptionKeyword(token)
			}
		}
	}

	if len(opts.unidentified) > 0 {
		err = mkerr("Unidentified or superfluous keywords found: " + join(opts.unidentified, ` `))
	}

	return opts, err
}

func (r *Options) setBool(name string) {
	switch {
	case name == "explicit":
		r.Explicit = true
	case name == "automatic":
		r.Automatic = true
	case name == "omitempty":
		r.OmitEmpty = true
	case name == "optional":
		r.Optional = true
	case name == "set":
		r.Set = true
	case name == "indefinite":
		r.Indefinite = true
	case name == "componentsof":
		r.ComponentsOf = true
	case name == "absent":
		r.Absent = true
	case name == "extension":
		r.Extension = true
	}
}

func (r *Options) writeClassToken(name string) (written bool) {
	// NOTE: universal NOT listed because the "universal"
	// token is NOT related to ClassUniversal, rather it
	// relates to the ASN.1 UNIVERSAL STRING type.
	switch {
	case name == "application":
		r.SetClass(ClassApplication)
		written = true
	case name == "context-specific" || name == "context specific":
		r.SetClass(ClassContextSpecific)
		written = true
	case name == "private":
		r.SetClass(ClassPrivate)
		written = true
	}

	return
}

func (r *Options) parseOptionDefault(token string) {
	if r.Default != nil {
		// Don't re-write duplicate instances
		// of "default:...".
		return
	}

	defStr := trimPfx(token, "default:")
	if hasPfx(defStr, ":") {
		// "default::name" -- a registered default looked up by name,
		// see RegisterDefaultValue/lookupDefaultValue in dv.go.
		name := trimPfx(defStr, ":")
		r.defaultKeyword = name
		if v, ok := lookupDefaultValue(name); ok {
			r.Default = v
		}
		return
	}

	switch {
	case isNumber(defStr):
		r.Default, _ = NewInteger(defStr)
	case isBool(defStr):
		r.Default, _ = pbool(defStr)
	default:
		// TODO : string fall-back is too broad.
		// Add other cases to reduce ineffective
		// use of string.
		r.Default = defStr
	}
}

// defaultEquals reports whether v equals the receiver's configured
// default value, resolving a registered "default::name" reference
// freshly each time (the named registry entry may change at runtime).
func (r Options) defaultEquals(v any) bool {
	d := r.Default
	if r.defaultKeyword != "" {
		if rv, ok := lookupDefaultValue(r.defaultKeyword); ok {
			d = rv
		}
	}
	if d == nil {
		return false
	}
	return deepEqual(d, v)
}

func (r *Options) parseOptionKeyword(token string) {
	// Assume unidentified tag value is a string encoding label,
	// but only set it once.
	if strInSlice(token, adapterKeywords()) {
		if r.Identifier == "" {
			r.Identifier = swapAlias(token)
		} else {
			r.unidentified = append(r.unidentified, token)
		}
	} else {
		r.unidentified = append(r.unidentified, token)
	}
}

func swapAlias(alias string) (token string) {
	switch alias {
	case "teletex":
		token = "t61"
	default:
		token = alias
	}

	return
}

func extractOptions(field reflect.StructField, fieldNum int, automatic bool) (opts *Options, err error) {
	var o Options
	if tagStr, ok := field.Tag.Lookup("asn1"); ok {
		var parsedOpts Options
		if parsedOpts, err = parseOptions(tagStr); err != nil {
			err = mkerr("Marshal: error parsing tag for field " + field.Name +
				"(" + itoa(fieldNum) + "): " + err.Error())
		} else {
			o = parsedOpts
		}

		if !o.HasTag() && automatic {
			if o.Explicit {
				err = mkerr("EXPLICIT and AUTOMATIC are mutually exclusive")
				return
			}
			if o.Class() == ClassUniversal {
				// UNLESS the user chose to override
				// the default class, here we impose
				// CONTEXT SPECIFIC (class 2).
				o.SetClass(ClassContextSpecific)
			}
			o.SetTag(fieldNum)
		}
	} else {
		o = implicitOptions()
	}

	if err == nil && isChoiceField(field.Type) && o.HasTag() && !o.Explicit {
		err = kindErrorf(KindSchemaError,
			"field ", field.Name, ": CHOICE fields cannot be implicitly tagged; use explicit tagging")
	}

	opts = &o
	return
}

// isChoiceField reports whether t (after pointer dereference) is the
// Choice type. A SEQUENCE/SET field of this type may only ever be
// explicitly tagged, never implicitly -- per ASN.1 and spec.
func isChoiceField(t reflect.Type) bool {
	return derefTypePtr(t) == reflect.TypeOf(Choice{})
}

func headerOpts(tlv TLV) Options {
	opts := Options{}
	opts.SetTag(tlv.Tag)
	opts.SetClass(tlv.Class)
	return opts
}

func (r *Options) SetTag(n int) *Options {
	if n >= 0 {
		r.tag = &n
	}
	return r
}
func (r Options) HasTag() bool { return r.tag != nil }
func (r Options) Tag() int {
	if r.tag != nil {
		return *r.tag
	}
	return -1 // NO valid default
}

func (r *Options) SetClass(n int) *Options {
	if n >= 0 {
		r.class = &n
	}
	return r
}

// incDepth increments the receiver's recursion depth counter, tracking
// how many nested composites deep the current encode/decode call is.
func (r *Options) incDepth() {
	if r != nil {
		r.depth++
	}
}

// copyDepth copies src's recursion depth into the receiver, used when
// a field's own [Options] value (rather than the parent's) carries the
// recursion forward.
func (r *Options) copyDepth(src *Options) {
	if src != nil {
		r.depth = src.depth
	}
}

func (r Options) HasClass() bool { return r.class != nil }
func (r Options) Class() int {
	if r.class != nil {
		return *r.class
	}
	return 0 // UNIVERSAL default
}

func clearChildOpts(o *Options) (c *Options) {
	if o != nil {
		d := *o
		c = &d

		// remove per-field overrides
		c.tag = nil
		c.class = nil
		c.Explicit = false
	}

	return
}

func optsIsOmit(o *Options) bool      { return o != nil && o.OmitEmpty }
func optsIsAutoTag(o *Options) bool   { return o != nil && o.Automatic }
func optsIsOptional(o *Options) bool  { return o != nil && o.Optional }
func optsIsAbsent(o *Options) bool    { return o != nil && o.Absent }
func optsHasChoices(o *Options) bool  { return o != nil && o.Choices != "" }
func optsHasDefault(o *Options) bool  { return o != nil && (o.Default != nil || o.defaultKeyword != "") }

// deferImplicit returns o unchanged, or a fresh implicit-defaults
// [Options] when o is nil -- the same fallback every entry point into
// the encode/decode engine uses so a caller never has to pass a
// non-nil [Options] just to get UNIVERSAL-class defaults.
func deferImplicit(o *Options) *Options {
	if o == nil {
		d := implicitOptions()
		return &d
	}
	return o
}

// deferOverrideOptions consults the package's special-case registry
// (currently [EmbeddedPDV]/[External], whose tag is fixed by X.690
// regardless of struct-tag configuration) for v's type, returning a
// replacement [Options] when one applies and the caller hasn't already
// supplied a tag of its own.
func deferOverrideOptions(v reflect.Value, opts *Options) *Options {
	if !v.IsValid() || !v.CanInterface() {
		return opts
	}
	if opts != nil && opts.HasTag() {
		return opts
	}
	if o, ok := lookupOverrideOptions(v.Interface()); ok && o != nil {
		return o
	}
	return opts
}

var (
	overrideOptionsMu  sync.RWMutex
	overrideOptionsReg = map[reflect.Type]*Options{}
)

/*
RegisterOverrideOptions fixes the [Options] used whenever a value of
v's concrete Go type is encoded or decoded, regardless of the enclosing
struct tag -- the same mechanism [EmbeddedPDV] and [External] rely on
internally for their fixed universal tag, exposed here for package
callers defining their own such types (see [CharacterString]).
*/
func RegisterOverrideOptions(v any, opts *Options) {
	overrideOptionsMu.Lock()
	defer overrideOptionsMu.Unlock()
	overrideOptionsReg[derefTypePtr(reflect.TypeOf(v))] = opts
}

// lookupOverrideOptions returns the fixed [Options] a special-cased
// universal type (registered via [RegisterOverrideOptions], or
// EmbeddedPDV/External -- see pdv.go) demands, bypassing normal
// struct-tag derivation.
func lookupOverrideOptions(v any) (*Options, bool) {
	t := derefTypePtr(reflect.TypeOf(v))

	overrideOptionsMu.RLock()
	o, ok := overrideOptionsReg[t]
	overrideOptionsMu.RUnlock()
	if ok {
		return o, true
	}

	return embeddedPDVOrExternalSpecial(v)
}
