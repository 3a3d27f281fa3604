package reactive

import (
	"errors"

	rerrors "github.com/vango-dev/reactive/internal/errors"
)

// ErrUsageOrder is wrapped by errors raised when cells are used out of
// order: a write before Init or after Deinit, or an implicit bind/unbind/
// reset without a preceding read.
var ErrUsageOrder = errors.New("reactive: usage order violated")

// ErrInitInvariant is wrapped by errors signalling an internal
// inconsistency during Init. Reaching it indicates a defect.
var ErrInitInvariant = errors.New("reactive: initialization invariant violated")

// ErrContractViolation is wrapped by errors raised when an operation runs
// outside its allowed dynamic extent, such as ViewUpdate outside Update.
var ErrContractViolation = errors.New("reactive: contract violation")

// ErrCapability is wrapped when a required host capability cannot be
// resolved from the injector.
var ErrCapability = errors.New("reactive: capability unavailable")

// ErrInvalidInstance is wrapped when Init receives something other than a
// pointer to a struct, or a cell owned by another instance.
var ErrInvalidInstance = errors.New("reactive: invalid instance")

// ErrNotInitialized is returned by ComputeChanges for instances that were
// never initialized.
var ErrNotInitialized = errors.New("reactive: instance not initialized")

// coded builds a registered error wrapping sentinel.
func coded(code string, sentinel error, component, property string) *rerrors.ReactiveError {
	return rerrors.New(code).Wrap(sentinel).At(component, property)
}

func errUsedBeforeInit(component, property string) error {
	return coded("R001", ErrUsageOrder, component, property).
		WithSuggestion("initialize the instance with reactive.Init (or the Reactive base) before writing to its cells")
}

func errNoActiveRead(op string) error {
	return coded("R002", ErrUsageOrder, "", "").
		WithSuggestion("read the cell with Get on the same goroutine immediately before calling " + op)
}

func errActiveTypeMismatch(component, property string) error {
	return coded("R003", ErrUsageOrder, component, property)
}

func errNotProperlyInitialized(component, property string) error {
	return coded("R004", ErrUsageOrder, component, property)
}

func errInvalidInstance(detail string) error {
	return coded("R005", ErrInvalidInstance, "", "").WithDetail(detail)
}

func errSharedCell(component, property string) error {
	return coded("R006", ErrInvalidInstance, component, property)
}

func errBaseNotSetUp() error {
	return coded("R007", ErrUsageOrder, "", "").
		WithSuggestion("call Setup(self, injector) from the component constructor")
}

func errPatchFailed(component, property string) error {
	return coded("R020", ErrInitInvariant, component, property)
}

func errViewUpdateOutsideUpdate() error {
	return coded("R040", ErrContractViolation, "", "")
}

func errNoDetector(component string, cause error) error {
	err := coded("R060", ErrCapability, component, "")
	if cause != nil {
		err.WithDetail(err.Detail + " " + cause.Error())
	}
	return err
}

func errNoInjector(component string) error {
	return coded("R061", ErrCapability, component, "")
}
