package combat

import "errors"

var (
	ErrUnknownCharacter     = errors.New("unknown character")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrSlotOutOfRange       = errors.New("slot out of range")
	ErrSlotOccupied         = errors.New("slot occupied")
	ErrSideFull             = errors.New("no free slot")
	ErrUnknownID            = errors.New("unknown id")
	ErrDuplicateID          = errors.New("duplicate id")
)
