//go:build !asn1_no_constr_pf

package asn1crypto

import (
	"time"

	"golang.org/x/exp/constraints"
)

/*
EnumerationConstraint returns an instance of [Constraint] based upon a
hard-coded map. K may be any [Numerical] value, while V must always be
a string.

If the input map is nil or zero, this function will panic.
*/
func EnumerationConstraint[K Numerical, V string](enum map[K]V) Constraint[K] {
	if len(enum) == 0 {
		panic("ENUMERATED: constraint prefab error received nil or zero enum map")
	}

	return func(x K) (err error) {
		if _, ok := enum[x]; !ok {
			err = constraintViolationf("ENUMERATED: disallowed ENUM value ", x)
		}
		return
	}
}

/*
Unsigned implements an [Integer] [Constraint] which prohibits negative numbers.
This closure instance is intended to be passed as a variadic argument to the
[NewInteger] and [MustNewInteger] functions.
*/
func Unsigned(i Integer) (err error) {
	if i.Lt(0) {
		err = errorNegativeInteger
	}
	return
}

/*
Union returns an instance of [Constraint] which checks if at least one (1)
of the provided constraints is satisfied. Essentially, this is an "OR"ed
operation.
*/
func Union[T any](cs ...Constraint[T]) Constraint[T] {
	return func(x T) error {
		for _, c := range cs {
			if c != nil && c(x) == nil {
				return nil
			}
		}
		return constraintViolationf("union failed all ",
			len(cs), " constraints")
	}
}

/*
Intersection returns an instance of [Constraint] which checks if all of the
specified constraints are satisfied. Essentially, this is an "AND"ed operation.
*/
func Intersection[T any](cs ...Constraint[T]) Constraint[T] {
	return func(x T) (err error) {
		for i := 0; i < len(cs) && err == nil; i++ {
			if cs[i] != nil {
				err = cs[i](x)
			}
		}
		return
	}
}

/*
From returns an instance of [Constraint] that checks if a string contains
illegal bytes (characters) as defined via the allowed input value.
*/
func From(allowed string) Constraint[string] {
	allowedSet := make(map[rune]struct{})
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}
	return func(s string) (err error) {
		for i := 0; i < len(s) && err == nil; i++ {
			if _, ok := allowedSet[rune(s[i])]; !ok {
				err = constraintViolationf("character ", string(s[i]),
					" at position ", i, " is not allowed")
			}
		}
		return
	}
}

/*
Deprecated: RangeConstraint returns an instance of [Constraint] following
a call of [Range].

Use [Range] directly instead.
*/
func RangeConstraint[T constraints.Ordered](minimum, maximum T) Constraint[T] {
	return Range[T](minimum, maximum)
}

/*
Range returns an instance of [Constraint] that checks if a value of any
[constraints.Ordered] type is between the specified minimum and maximum.
*/
func Range[T constraints.Ordered](minimum, maximum T) Constraint[T] {
	return func(v T) error {
		if v < minimum || v > maximum {
			return constraintViolationf("value is out of range")
		}
		return nil
	}
}

/*
Deprecated: SizeConstraint returns an instance of [Constraint] following
a call of [Size].

Use [Size] directly instead.
*/
func SizeConstraint[T Lengthy](minimum, maximum any) Constraint[T] {
	return Size[T](minimum, maximum)
}

/*
Size returns an instance of [Constraint] that is hard-coded with the input
minimum and maximum values for the purpose of checking if a value's logical
length is not outside of the specified boundaries.

This constructor is primarily intended to enforce upper bounds constraints
for certain ASN.1 primitive values, e.g.:

	ub-international-isdn-number INTEGER ::= 16
	InternationalISDNNumber ::= NumericString(SIZE (1..ub-international-isdn-number))
*/
func Size[T Lengthy](minimum, maximum any) Constraint[T] {
	var (
		min, max Integer
		err      error
	)

	if min, err = assertInteger(minimum); err != nil {
		panic(err)
	}
	if max, err = assertInteger(maximum); err != nil {
		panic(err)
	}

	return func(v T) error {
		size, err := NewInteger(v.Len())
		if err == nil {
			if size.Lt(min) || size.Gt(max) {
				err = constraintViolationf(
					"size ", size.String(),
					" is out of bounds [", min.String(),
					", "+max.String(), "]",
				)
			}
		}
		return err
	}
}

/*
Deprecated: RecurrenceConstraint returns a [Temporal] [Constraint] following
a call of [Recurrence].

Use [Recurrence] directly instead.
*/
func RecurrenceConstraint[T Temporal](period time.Duration, windowStart, windowEnd time.Duration) Constraint[T] {
	return Recurrence[T](period, windowStart, windowEnd)
}

/*
Recurrence returns a [Temporal] [Constraint] for values that must fall
within a recurring window.

period is the recurrence period (e.g., 24h); windowStart and windowEnd
represent the allowable offset (as durations) within each period.
*/
func Recurrence[T Temporal](period time.Duration, windowStart, windowEnd time.Duration) Constraint[T] {
	return func(tm T) (err error) {
		remainder := time.Duration(tm.Cast().UnixNano()) % period
		if remainder < windowStart || remainder > windowEnd {
			err = constraintViolationf("time ", tm.String(),
				" (remainder ", remainder.String(),
				") is not within the recurrence window [",
				windowStart.String(), ", ",
				windowEnd.String(), "]")
		}
		return
	}
}

/*
Deprecated: TimePointRangeConstraint returns a [Temporal] [Constraint]
following a call of [TimePointRange].

Use [TimePointRange] directly instead.
*/
func TimePointRangeConstraint[T Temporal](minimum, maximum T) Constraint[T] {
	return TimePointRange[T](minimum, maximum)
}

/*
TimePointRange returns a [Temporal] [Constraint] function hard-coded with
the specified min and max values for the purpose of constraining [Temporal]
values to a specific time window.
*/
func TimePointRange[T Temporal](minimum, maximum T) Constraint[T] {
	return func(tm T) (err error) {
		t := tm.Cast()
		if t.Before(minimum.Cast()) || t.After(maximum.Cast()) {
			err = constraintViolationf("time ", tm.String(),
				" is not in allowed range [",
				minimum.String(), ", ", maximum.String(), "]")
		}
		return
	}
}

/*
Deprecated: TimeEqualConstraint returns a [Temporal] [Constraint] which
fails when the input value is not equal to ref.
*/
func TimeEqualConstraint[T Temporal](ref T) Constraint[T] {
	return func(tm T) (err error) {
		if !tm.Cast().Equal(ref.Cast()) {
			err = constraintViolationf("time ", tm.String(),
				" is not equal to ", ref.String())
		}
		return
	}
}

/*
Deprecated: DurationRangeConstraint returns a [Constraint] for [Duration]
values which fails when the input lies outside of minimum and maximum.
*/
func DurationRangeConstraint(minimum, maximum Duration) Constraint[Duration] {
	return func(d Duration) (err error) {
		min, max := minimum.Duration(), maximum.Duration()
		dv := d.Duration()
		if dv < min || dv > max {
			err = constraintViolationf("duration ", d.String(),
				" is not in the allowed range [",
				minimum.String(), ", ", maximum.String(), "]")
		}
		return
	}
}

/*
Equality returns a function that compares two string values for
equality. By default comparison is case-insensitive (caseIgnoreMatch);
passing true as caseExact enforces an exact (caseExactMatch) comparison.
*/
func Equality[T ~string](caseExact ...bool) func(T, T) error {
	exact := len(caseExact) > 0 && caseExact[0]
	return func(a, b T) (err error) {
		sa, sb := string(a), string(b)
		if !exact {
			sa, sb = lc(sa), lc(sb)
		}
		if sa != sb {
			err = constraintViolationf("values are not equal")
		}
		return
	}
}

/*
Ancestor returns a function that determines whether its first slice
argument is a prefix (ancestor) of its second slice argument. T is
typically a string or [Integer], as used to represent individual arcs
of an [ObjectIdentifier].
*/
func Ancestor[T comparable]() func([]T, []T) bool {
	return func(anc, desc []T) bool {
		if len(anc) > len(desc) {
			return false
		}
		for i := range anc {
			if anc[i] != desc[i] {
				return false
			}
		}
		return true
	}
}

/*
LiftConstraint converts a [Constraint] of type U into a [Constraint] of
type T, using conv to map values of type T into type U prior to invoking
the underlying constraint.
*/
func LiftConstraint[T, U any](conv func(T) U, c Constraint[U]) Constraint[T] {
	return func(v T) error {
		return c(conv(v))
	}
}
