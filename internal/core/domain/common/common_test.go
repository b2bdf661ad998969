package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmail(t *testing.T) {
	assert.Equal(t, Email("john@example.com"), NewEmail(" John@Example.COM "))
}

func TestEmailMasked(t *testing.T) {
	cases := []struct {
		email    Email
		expected string
	}{
		{email: "john.doe@example.com", expected: "j******e@example.com"},
		{email: "abc@example.com", expected: "a*c@example.com"},
		{email: "ab@example.com", expected: "a*@example.com"},
		{email: "a@example.com", expected: "a@example.com"},
		{email: "invalid", expected: "*******"},
	}

	for _, testcase := range cases {
		t.Run(string(testcase.email), func(t *testing.T) {
			assert.Equal(t, testcase.expected, testcase.email.Masked())
		})
	}
}
