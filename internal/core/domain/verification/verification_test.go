package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordIsExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{ExpiresAt: now}

	assert.False(t, rec.IsExpired(now))
	assert.False(t, rec.IsExpired(now.Add(-time.Second)))
	assert.True(t, rec.IsExpired(now.Add(time.Nanosecond)))
}

func TestRecordIsUsed(t *testing.T) {
	cases := []struct {
		codeIsUsed  bool
		tokenIsUsed bool
		expected    bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}
	for _, testcase := range cases {
		rec := Record{CodeIsUsed: testcase.codeIsUsed, TokenIsUsed: testcase.tokenIsUsed}
		assert.Equal(t, testcase.expected, rec.IsUsed())
	}
}

func TestPurposeIsValid(t *testing.T) {
	assert.True(t, PurposePasswordReset.IsValid())
	assert.True(t, PurposeAccountVerification.IsValid())
	assert.False(t, Purpose("photo-upload").IsValid())
	assert.False(t, Purpose("").IsValid())
}

func TestDefaultDenylist(t *testing.T) {
	assert.Len(t, DefaultDenylist, 10)
	for _, code := range DefaultDenylist {
		assert.Len(t, string(code), CodeLength)
	}
}
