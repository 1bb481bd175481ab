package render

import "errors"

// ErrNoFile indicates a file value carries neither an uploaded file nor a link.
var ErrNoFile = errors.New("no file attached")
