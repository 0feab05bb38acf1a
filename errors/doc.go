// Package errors defines WPDLib's error values.
//
// # Domain errors
//
// Component registration and field validation report failures as *Error
// values. Each carries a Code, a human message, optional Data and the
// registry scope that was current when it was produced:
//
//	if _, err := registry.Add(menu); err != nil {
//	    if errors.Is(err, wpderrors.ErrTooLate) {
//	        // registration window has closed
//	    }
//	}
//
// Sentinels such as ErrDuplicateSlug compare by code, so errors.Is works on
// any *Error regardless of message or scope. CodeOf extracts the code from a
// chain.
//
// # Infrastructure errors
//
// Failures outside the domain model (file I/O, schema loading, metric
// registration) are wrapped with context:
//
//	return errors.WrapInvalid(err, "Loader", "LoadFile", "decode manifest")
//
// producing "Loader.LoadFile: decode manifest failed: <cause>". WrapInvalid
// and WrapFatal attach an ErrorClass that IsInvalid, IsFatal and Classify
// read back.
package errors
