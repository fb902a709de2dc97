package errors

// Package errors provides sentinel errors for source discovery and loading.

import "errors"

var (
	// ErrContentRootMissing indicates the configured content directory does not exist.
	ErrContentRootMissing = errors.New("content directory not found")

	// ErrWalkFailed indicates filesystem traversal of the content directory failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered source file failed.
	ErrFileReadFailed = errors.New("source file read failed")

	// ErrIgnoreFileInvalid indicates the ignore file exists but could not be compiled.
	ErrIgnoreFileInvalid = errors.New("ignore file invalid")

	// ErrMissingDate indicates a post has neither a front-matter date nor a dated filename.
	ErrMissingDate = errors.New("post has no date")

	// ErrMissingTitle indicates a post has no usable title.
	ErrMissingTitle = errors.New("post has no title")
)
