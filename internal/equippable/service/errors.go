package service

import "errors"

var (
	ErrNotOwner                   = errors.New("only the owner can call this operation")
	ErrMissingCreateRole          = errors.New("service is missing the create role on the equippable")
	ErrMissingBurnRole            = errors.New("service is missing the burn role")
	ErrMissingAddQuantityRole     = errors.New("service is missing the add quantity role")
	ErrNoPayment                  = errors.New("no payment attached")
	ErrFirstPaymentNotEquippable  = errors.New("first payment must be the equippable")
	ErrEquippableQuantity         = errors.New("equippable payment amount must be one")
	ErrMoreThanOneEquippable      = errors.New("only one equippable can be customized per call")
	ErrItemQuantity               = errors.New("item payment amount must be one")
	ErrInsufficientCustody        = errors.New("custody does not hold the item to return")
	ErrCannotRegisterEquippable   = errors.New("the equippable collection cannot be registered as an item")
	ErrDuplicateRegistration      = errors.New("item is already registered to another slot")
	ErrSlotNameTaken              = errors.New("another item is already registered under this slot and name")
	ErrCannotFillUnregisteredItem = errors.New("cannot fill an unregistered item")
	ErrFillBalance                = errors.New("custody balance of the filled item must be exactly one")
	ErrFillAmount                 = errors.New("fill amount must be positive")
)
