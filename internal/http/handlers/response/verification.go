package response

import (
	"errors"
	"exzly/internal/core/domain/verification"
	"net/http"
)

const (
	MsgInvalidCode  = "Invalid code"
	MsgCodeIsUsed   = "The verification code has already been used"
	MsgCodeExpired  = "The verification code has expired. Please request a new one"
	MsgInvalidToken = "Invalid request. Please request a new one"
	MsgTokenIsUsed  = "The password reset request has already been used"
	MsgLinkIsUsed   = "The requested link has been used"
	MsgLinkExpired  = "The requested link has expired"
)

// RenderCodeError renders the outcome of a failed code check and reports
// whether err was one of the known verification errors.
func RenderCodeError(rw http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, verification.ErrRecordDoesNotExist):
		RenderError(rw, MsgInvalidCode, http.StatusBadRequest)
	case errors.Is(err, verification.ErrAlreadyUsed):
		RenderError(rw, MsgCodeIsUsed, http.StatusBadRequest)
	case errors.Is(err, verification.ErrExpired):
		RenderError(rw, MsgCodeExpired, http.StatusBadRequest)
	default:
		return false
	}
	return true
}

// RenderTokenError is RenderCodeError for the password reset token.
func RenderTokenError(rw http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, verification.ErrRecordDoesNotExist):
		RenderError(rw, MsgInvalidToken, http.StatusBadRequest)
	case errors.Is(err, verification.ErrAlreadyUsed):
		RenderError(rw, MsgTokenIsUsed, http.StatusBadRequest)
	case errors.Is(err, verification.ErrExpired):
		RenderError(rw, MsgCodeExpired, http.StatusBadRequest)
	default:
		return false
	}
	return true
}
