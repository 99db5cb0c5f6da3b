package projects

import "errors"

var (
	ErrNotFound     = errors.New("project not found")
	ErrNameRequired = errors.New("project name required")
)
