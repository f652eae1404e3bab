// Package output formats command results for the ziptmpl CLI.
//
// Every command writes through a Printer, which emits either styled,
// human-readable text or JSON (--json). Failures are reported as
// *ExitError values carrying the process exit code:
//
//	0 = success
//	1 = user error (bad arguments, missing placeholder, unknown digest)
//	2 = system error (I/O, store failures)
package output
