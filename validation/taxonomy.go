package validation

import "fmt"

// The bundler's error taxonomy (spec.md §7): configuration errors are raised
// directly as Go errors before any work begins (a programmer precondition,
// not a validation.Error); resolution, cycle, handler, resource-type, and
// I/O errors are all represented as *Error so the Orchestrator can collect
// them uniformly into one ErrorList.

// ResolutionError reports a package name that failed to resolve.
func ResolutionError(name string) *Error {
	return NotFound(fmt.Sprintf("uses[%s]", name), name)
}

// CycleError reports a circular dependency between two packages, naming
// both endpoints as required by spec.md's taxonomy and property P3.
func CycleError(a, b string) *Error {
	return &Error{
		Type:   ErrorTypeInvalid,
		Field:  "uses",
		Detail: fmt.Sprintf("circular dependency between packages %s and %s", a, b),
	}
}

// HandlerError reports an extension handler that either threw or was
// configured invalidly (bad combination of type/where/data/source_file).
func HandlerError(pkg, ext string, err error) *Error {
	return &Error{
		Type:     ErrorTypeInvalid,
		Field:    fmt.Sprintf("package[%s].sources[*.%s]", pkg, ext),
		BadValue: ext,
		Detail:   err.Error(),
	}
}

// ResourceTypeError reports an unknown resource type, or an HTML fragment
// (head/body) targeting the server environment.
func ResourceTypeError(pbr string, resourceType string) *Error {
	return &Error{
		Type:     ErrorTypeInvalid,
		Field:    fmt.Sprintf("pbr[%s].resources", pbr),
		BadValue: resourceType,
		Detail:   "unknown resource type, or an HTML fragment targeting the server environment",
	}
}

// IOError wraps a filesystem operation failure.
func IOError(path string, err error) *Error {
	return &Error{
		Type:     ErrorTypeInternal,
		Field:    path,
		BadValue: nil,
		Detail:   err.Error(),
	}
}
