package domain

import "errors"

// ErrInvalidSVG is returned when the input is not a well-formed SVG/XML document.
var ErrInvalidSVG = errors.New("invalid svg")

// ErrUnknownPlugin is returned when a plugin name is not present in the registry.
var ErrUnknownPlugin = errors.New("unknown plugin")

// ErrInvalidParams is returned when plugin parameters cannot be decoded.
var ErrInvalidParams = errors.New("invalid plugin params")

// ErrCacheMiss is returned when a result cache has no entry for a key.
var ErrCacheMiss = errors.New("cache miss")
