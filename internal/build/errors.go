package build

import "errors"

// Sentinel errors wrapped by stage failures so callers can classify them with errors.Is.
var (
	ErrDiscovery = errors.New("blogbuilder: discovery error")
	ErrRender    = errors.New("blogbuilder: render error")
	ErrAggregate = errors.New("blogbuilder: aggregate error")
)
