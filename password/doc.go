// Package password scores credential strength for pre-submit checks.
//
// Evaluation is a pure function over the input string: no I/O, no
// allocation of secrets, nothing persisted. Callers decide whether a
// weak result blocks submission.
package password
