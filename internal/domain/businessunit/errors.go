package businessunit

import "errors"

var (
	ErrBusinessUnitNotFound  = errors.New("business unit not found")
	ErrInvalidBusinessUnitID = errors.New("invalid business unit ID")
)
