package request

import (
	"encoding/json"
	c "exzly/internal/core/domain/common"
	"exzly/internal/core/domain/user"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const MAX_BODY_SIZE = 1 << 16

// ClientIP expects chi's RealIP middleware to have normalized RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func DecodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r, MAX_BODY_SIZE)).Decode(v)
}

const USER_ID_PARAM = "userId"

// UserIDParam reads the optional {userId} route parameter. ok is false
// when the parameter is present but is not a positive integer.
func UserIDParam(r *http.Request) (id c.Optional[user.ID], ok bool) {
	raw := chi.URLParam(r, USER_ID_PARAM)
	if raw == "" {
		return id, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return id, false
	}
	return c.NewOptional(user.ID(value), true), true
}
