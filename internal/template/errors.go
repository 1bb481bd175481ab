package template

import "errors"

// ErrAliasConflict indicates an alias listed under more than one canonical key.
var ErrAliasConflict = errors.New("alias maps to more than one key")
