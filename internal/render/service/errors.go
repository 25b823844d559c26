package service

import "errors"

var (
	ErrNotOwner           = errors.New("only the owner can call this operation")
	ErrNotAuthorized      = errors.New("caller is not allowed to set uris")
	ErrWrongFee           = errors.New("render fee must be exactly the enqueue price")
	ErrEmptyName          = errors.New("name is required")
	ErrEmptyURI           = errors.New("uri is required")
	ErrAlreadyRendered    = errors.New("these attributes are already rendered")
	ErrAlreadyQueued      = errors.New("a render is already queued for this name")
	ErrURIAlreadySet      = errors.New("cannot override the uri of rendered attributes")
	ErrNotInQueue         = errors.New("image is not in the render queue")
	ErrAttributesMismatch = errors.New("assigned attributes do not match the attributes in the render queue")
)
