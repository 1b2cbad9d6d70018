package service

import "errors"

// Business-rule failures surfaced to handlers. None of these are retried
// internally; they are mapped to HTTP status codes at the boundary.
var (
	// Referenced records absent.
	ErrClientNotFound      = errors.New("client not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")

	// Malformed requests.
	ErrInvalidRentalMode = errors.New("rental mode must be 'whole_room' or 'by_bed'")
	ErrInvalidBedCount   = errors.New("bed count must be greater than zero for by-bed rentals")
	ErrInvalidStatus     = errors.New("status must be 'cancelled' or 'reserved'")
	ErrDuplicateRoom     = errors.New("a room with this number already exists")

	// Date rules.
	ErrInvalidDateRange      = errors.New("check-in date must be before check-out date")
	ErrEntryDateInPast       = errors.New("check-in date cannot be in the past")
	ErrCheckOutBeforeCheckIn = errors.New("check-out date cannot be before the check-in date")
	ErrCheckOutInFuture      = errors.New("check-out date cannot be in the future")

	// Lifecycle violations.
	ErrAlreadyCheckedIn   = errors.New("check-in already performed for this reservation")
	ErrNotCheckedIn       = errors.New("check-in has not been performed for this reservation")
	ErrAlreadyCheckedOut  = errors.New("check-out already performed for this reservation")
	ErrInvalidTransition  = errors.New("operation not allowed for the reservation's current status")
	ErrLockedAfterCheckIn = errors.New("after check-in only the check-out date may change")
	ErrNotEditable        = errors.New("finalized or cancelled reservations cannot be edited")
	ErrNotDeletable       = errors.New("active or finalized reservations cannot be deleted")
	ErrRoomInUse          = errors.New("room has reserved or active reservations")

	// The capacity invariant would be violated.
	ErrCapacityExceeded = errors.New("not enough free beds in the room for the requested period")
)
