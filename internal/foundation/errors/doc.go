// Package errors provides the classified error primitives used across blogbuilder.
//
// A ClassifiedError carries a category (config, content, render, manifest, ...), a severity and
// a recovery strategy describing what the build does about it: skip the document, degrade the next
// run to a full rebuild, ignore a cleanup leak, or abort.
//
//	err := errors.NewError(errors.CategoryContent, "front matter is not valid YAML").
//		Warning().
//		SkipDocument().
//		WithContext("path", rel).
//		Build()
package errors
