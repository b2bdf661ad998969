package verification

import "errors"

var (
	ErrRecordDoesNotExist  = errors.New("verification record does not exist")
	ErrAlreadyUsed         = errors.New("verification record is already used")
	ErrExpired             = errors.New("verification record is expired")
	ErrNotificationNotSent = errors.New("verification notification is not sent")
	ErrMarkerDoesNotExist  = errors.New("reset marker does not exist")
	ErrInvalidPurpose      = errors.New("invalid verification purpose")
)
