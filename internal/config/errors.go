package config

import "errors"

// ErrInvalidConfig indicates a config file that parsed but holds unusable values.
var ErrInvalidConfig = errors.New("invalid configuration")
