// Package preflight provides readiness checks for the external tools and
// filesystem paths a batch run depends on.
//
// The batch runner calls RunAll before touching the first case; a failed
// check aborts the run before any per-case work starts, so a missing host
// executable or an empty atlas never burns hours of registration time.
// The CLI "regbet validate" command reuses the same checks for display.
package preflight
