package services

import "errors"

var (
	ErrValidation = errors.New("validation error")

	ErrRoomNotFound          = errors.New("room not found")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrSupplierNotFound      = errors.New("supplier not found")
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrInvoiceNotFound       = errors.New("invoice not found")

	ErrRoomUnavailable   = errors.New("room is not available for the requested dates")
	ErrRoomInUse         = errors.New("room is referenced by active reservations")
	ErrSupplierInUse     = errors.New("supplier has open purchase orders")
	ErrDuplicate         = errors.New("record already exists")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrStale             = errors.New("record changed since it was loaded")
	ErrQuantityManaged   = errors.New("quantity can only change by receiving purchase orders")
)
