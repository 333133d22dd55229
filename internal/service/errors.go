package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrZoneNotFound is returned when a service zone is not found
	ErrZoneNotFound = errors.New("service zone not found")

	// ErrInvalidRole is returned when an invalid role value is provided
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidStatus is returned when a status or stage value is not in the enum
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrAlreadyAssigned is returned when a zone assignment already exists
	ErrAlreadyAssigned = errors.New("user already assigned to zone")

	// ErrZoneHasCustomers is returned when deleting a zone that still owns customers
	ErrZoneHasCustomers = errors.New("zone still has customers assigned")
)
