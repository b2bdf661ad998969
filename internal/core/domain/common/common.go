package common

import (
	"fmt"
	"strings"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

type Email string

func NewEmail(rawEmail string) Email {
	return Email(strings.ToLower(strings.TrimSpace(rawEmail)))
}

// Masked keeps the first and the last character of the local part,
// e.g. "john.doe@example.com" becomes "j******e@example.com".
func (e Email) Masked() string {
	local, domain, found := strings.Cut(string(e), "@")
	if !found {
		return strings.Repeat("*", len(local))
	}
	runes := []rune(local)
	switch len(runes) {
	case 0:
		return "@" + domain
	case 1, 2:
		return string(runes[0]) + strings.Repeat("*", len(runes)-1) + "@" + domain
	}
	masked := string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
	return masked + "@" + domain
}
