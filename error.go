package ntrack

import (
	"errors"
)

// Precondition failures.  These are mistakes in the calling code and
// are returned wrapped, test for them with errors.Is.
var (
	ErrScopeAlreadyOpen = errors.New("ntrack: a scope is already open")
	ErrScopeNotOpen     = errors.New("ntrack: no scope is open")
	ErrForeignDuplicate = errors.New("ntrack: duplicate detector returned an instance that is not registered")
	ErrKindConflict     = errors.New("ntrack: item is already registered as a different kind")
	ErrUnknownItem      = errors.New("ntrack: item is not registered")
	ErrNilItem          = errors.New("ntrack: nil item")
	ErrAmbiguousInfo    = errors.New("ntrack: instances are registered for this type, use Infos() to get all of them")
	ErrInvalidOption    = errors.New("ntrack: invalid option value")
)

type ntrackError struct {
	err     error
	details string
}

func (ne *ntrackError) Error() string {
	return ne.err.Error()
}

func (ne *ntrackError) Unwrap() error {
	return ne.err
}

func detailed(err error, details string) error {
	if err == nil {
		return nil
	}
	return &ntrackError{err: err, details: details}
}

// DetailedError transforms errors into strings.  If the error
// came from a Context then the current scope and registration state
// are included.  If any type names refer to more than one type
// a warning about that is appended.
func DetailedError(err error) string {
	var ne *ntrackError
	if errors.As(err, &ne) {
		dups := aliasedTypesString()
		if dups != "" {
			return err.Error() + "\n\n" + ne.details +
				"\n\nWarning: the following type names refer to more than one type:\n" +
				dups
		}
		return err.Error() + "\n\n" + ne.details
	}
	return err.Error()
}
