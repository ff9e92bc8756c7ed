package navigation

import (
	"errors"
	"fmt"
)

var ErrInvalidPluginID = errors.New("plugin id is required")

// NavigationLoadError reports that one of the build inputs could not be read.
// No partial tree is produced when it is returned.
type NavigationLoadError struct {
	Source string
	Err    error
}

func (e *NavigationLoadError) Error() string {
	return fmt.Sprintf("load navigation (%s): %v", e.Source, e.Err)
}

func (e *NavigationLoadError) Unwrap() error {
	return e.Err
}

func loadError(source string, err error) error {
	return &NavigationLoadError{Source: source, Err: err}
}
