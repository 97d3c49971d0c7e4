// Package diagnostic provides structured errors, warnings and notes produced
// while reading crepr directives and classifying fields.
//
// Any error diagnostic aborts generation: the generator never writes output
// for a run that reported one.
package diagnostic
