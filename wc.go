package asn1crypto

import (
	"reflect"
	"sync"
)

var (
	wcMu              sync.RWMutex
	componentRegistry = make(map[string]map[string]string)
)

/*
RegisterWithComponents accepts a string name and a set of rules with
which to govern assigned values in a SEQUENCE in terms of presence or
absence.

Case folding of name is not significant in the registration process.
*/
func RegisterWithComponents(name string, rules map[string]string) {
	name = lc(name)

	debugEnter(
		newLItem(name, "component name"),
		newLItem(rules, "presence rules"))

	if rules == nil || len(rules) == 0 {
		debugInfo("nil 'WITH COMPONENTS' registration aborted for " + name)
		return
	}

	debugTrace("wcMu locking")
	wcMu.Lock()
	defer func() {
		debugTrace("wcMu unlocking")
		wcMu.Unlock()
		debugExit()
	}()

	debugTrace("registering presence rule: " + name)
	componentRegistry[name] = rules
}

/*
UnregisterWithComponents accepts a string name for use in deleting a
previous WITH COMPONENTS registration from the underlying registry.

Case folding of name is not significant in the matching process.
*/
func UnregisterWithComponents(name string) {
	name = lc(name)

	debugEnter(newLItem(name, "component name"))
	debugTrace("wcMu locking")
	wcMu.Lock()
	defer func() {
		debugTrace("wcMu unlocking")
		wcMu.Unlock()
		debugExit()
	}()

	debugTrace("deleting presence rule: " + name)
	delete(componentRegistry, name)
}

func checkComponentPresence(rv reflect.Value, rules map[string]string) error {
	for field, want := range rules {
		val := rv.FieldByName(field)
		if val.Kind() == reflect.Invalid {
			return constraintViolationf("WITH COMPONENTS: unknown field '", field, " specified in rule set")
		}

		present := !val.IsZero()
		switch {
		case !present && want == "PRESENT":
			return constraintViolationf("WITH COMPONENTS: field '", field, "' is ABSENT where PRESENT was expected")
		case present && want == "ABSENT":
			return constraintViolationf("WITH COMPONENTS: field '", field, "' is PRESENT where ABSENT was expected")
		}
	}
	return nil
}

func checkWithComponents(inst any, opts *Options) error {
	rt := derefTypePtr(refTypeOf(inst))
	if kind := rt.Kind(); kind != reflect.Struct && kind != reflect.Slice && rt != choiceIfaceType {
		return constraintViolationf("WITH COMPONENTS: expected SEQUENCE, SET or CHOICE, got '", rt, "'")
	}

	rv := derefValuePtr(refValueOf(inst))

	var err error
	for _, name := range opts.WithComponents {
		rules, found := componentRegistry[lc(name)]
		if !found {
			return constraintViolationf("WITH COMPONENTS: rule set '", name, "' not found")
		}
		if err = checkComponentPresence(rv, rules); err == nil {
			break // this rule set was satisfied; stop at the first match.
		}
	}

	return err
}
