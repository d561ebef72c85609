package system

import "errors"

// ErrPrivilege indicates the invoking identity lacks the rights the
// selected mode requires.
var ErrPrivilege = errors.New("system: insufficient privilege")

// ErrAccountCreate indicates the service account could not be created.
var ErrAccountCreate = errors.New("system: account creation failed")
