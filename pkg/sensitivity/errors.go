package sensitivity

import "errors"

// ErrInvalidValue rejects negative or non-finite input before it reaches the model.
var ErrInvalidValue = errors.New("value must be a finite non-negative number")
