// Package guard provides ConstructorGuard, a marker embedded in domain objects,
// commands and queries to detect values that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value was built by its
// constructor. The zero value reports "not constructed".
//
// Example:
//
//	var ErrLabelIsNotConstructed = errors.New("Label must be created via NewLabel")
//
//	type Label struct {
//	    reference string
//	    guard     guard.ConstructorGuard
//	}
//
//	func NewLabel(reference string) (Label, error) {
//	    if reference == "" {
//	        return Label{}, errors.New("reference is required")
//	    }
//	    return Label{reference: reference, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (l Label) Validate() error {
//	    return l.guard.Validate(ErrLabelIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
