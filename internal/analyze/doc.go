// Package analyze loads Go packages and reads crepr directives.
//
// It uses golang.org/x/tools/go/packages to resolve package patterns and
// go/parser to read each file with comments. Only syntax is inspected: field
// classification is decided from the declared type alone, so packages that
// use cgo are read without running the cgo tool.
//
// Recognised annotations on a type declaration:
//
//	//crepr:creprof               derive the native -> foreign conversion
//	//crepr:asnative              derive the foreign -> native conversion
//	//crepr:target model.Person   the paired native type
//
// and on fields the struct tag `crepr:"nullable"`.
package analyze
