package otp

import (
	"encoding/base32"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the ASCII key "12345678901234567890" used by RFC 6238 Appendix B.
var rfcSecret = base32.StdEncoding.EncodeToString([]byte("12345678901234567890"))

func TestCode_RFC6238Vectors(t *testing.T) {
	tests := []struct {
		unix int64
		want string
	}{
		{59, "94287082"},
		{1111111109, "07081804"},
		{1111111111, "14050471"},
		{1234567890, "89005924"},
		{2000000000, "69279037"},
		{20000000000, "65353130"},
	}

	for _, tc := range tests {
		got, err := Code(rfcSecret, time.Unix(tc.unix, 0), 30, otp.DigitsEight)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "unix=%d", tc.unix)

		got6, err := Code(rfcSecret, time.Unix(tc.unix, 0), 30, otp.DigitsSix)
		require.NoError(t, err)
		assert.Equal(t, tc.want[2:], got6, "unix=%d", tc.unix)
	}
}

func TestCode_KnownSecret(t *testing.T) {
	got, err := Code("JBSWY3DPEHPK3PXP", time.Unix(59, 0), 30, otp.DigitsSix)
	require.NoError(t, err)
	assert.Equal(t, "996554", got)

	got, err = Code("JBSWY3DPEHPK3PXP", time.Unix(1111111109, 0), 30, otp.DigitsSix)
	require.NoError(t, err)
	assert.Equal(t, "071271", got)

	// same step, same code
	a, _ := Code("JBSWY3DPEHPK3PXP", time.Unix(0, 0), 30, otp.DigitsSix)
	b, _ := Code("JBSWY3DPEHPK3PXP", time.Unix(29, 0), 30, otp.DigitsSix)
	assert.Equal(t, "282760", a)
	assert.Equal(t, a, b)
}

func TestCode_ZeroPadded(t *testing.T) {
	got, err := Code("JBSWY3DPEHPK3PXP", time.Unix(4020, 0), 30, otp.DigitsSix)
	require.NoError(t, err)
	assert.Equal(t, "008210", got)
}

func TestCode_FormatProperty(t *testing.T) {
	for i := 0; i < 200; i++ {
		secret := RandomSecret(0)
		at := time.Unix(int64(i)*7919*31, 0)

		for _, d := range []otp.Digits{otp.DigitsSix, otp.DigitsEight} {
			code, err := Code(secret, at, 30, d)
			require.NoError(t, err)
			require.Len(t, code, d.Length())
			for _, r := range code {
				require.True(t, r >= '0' && r <= '9', "non numeric code %q", code)
			}
		}
	}
}

func TestCode_MatchesReferenceImplementation(t *testing.T) {
	for i := 0; i < 50; i++ {
		secret := RandomSecret(0)
		at := time.Unix(1700000000+int64(i)*17, 0)

		want, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
			Period:    30,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)

		got, err := Code(secret, at, 30, otp.DigitsSix)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCode_InvalidSecret(t *testing.T) {
	for _, secret := range []string{"", "   ", "not-base32!", "JBSWY3DPEHPK3PX1", "A"} {
		_, err := Code(secret, time.Unix(59, 0), 30, otp.DigitsSix)
		assert.ErrorIs(t, err, ErrInvalidSecret, "secret=%q", secret)

		ok, err := Verify(secret, "123456", time.Unix(59, 0), 30, 1, otp.DigitsSix)
		assert.ErrorIs(t, err, ErrInvalidSecret, "secret=%q", secret)
		assert.False(t, ok)
	}
}

func TestDecodeSecret_Lenient(t *testing.T) {
	want, err := DecodeSecret("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	for _, in := range []string{"jbswy3dpehpk3pxp", " JBSWY3DPEHPK3PXP\n", "JBSWY3DPEHPK3PXP======"} {
		got, err := DecodeSecret(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestVerify_Window(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	now := time.Unix(1700000010, 0)

	tests := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{name: "current step", offset: 0, want: true},
		{name: "one step behind", offset: -30 * time.Second, want: true},
		{name: "one step ahead", offset: 30 * time.Second, want: true},
		{name: "two steps behind", offset: -60 * time.Second, want: false},
		{name: "two steps ahead", offset: 60 * time.Second, want: false},
		{name: "three steps behind", offset: -90 * time.Second, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, err := Code(secret, now.Add(tc.offset), 30, otp.DigitsSix)
			require.NoError(t, err)

			ok, err := Verify(secret, code, now, 30, 1, otp.DigitsSix)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestVerify_ConfigurableWindow(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	now := time.Unix(1700000010, 0)

	code, err := Code(secret, now.Add(-60*time.Second), 30, otp.DigitsSix)
	require.NoError(t, err)

	ok, err := Verify(secret, code, now, 30, 2, otp.DigitsSix)
	require.NoError(t, err)
	assert.True(t, ok)

	code, err = Code(secret, now.Add(-30*time.Second), 30, otp.DigitsSix)
	require.NoError(t, err)

	ok, err = Verify(secret, code, now, 30, 0, otp.DigitsSix)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_SelfConsistency(t *testing.T) {
	for i := 0; i < 100; i++ {
		secret := RandomSecret(0)
		at := time.Unix(int64(i)*104729, 0)

		code, err := Code(secret, at, 30, otp.DigitsSix)
		require.NoError(t, err)

		ok, err := Verify(secret, code, at, 30, 1, otp.DigitsSix)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerify_WrongLength(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	at := time.Unix(59, 0)

	for _, code := range []string{"", "99655", "9965540", "996554 "} {
		ok, err := Verify(secret, code, at, 30, 1, otp.DigitsSix)
		require.NoError(t, err)
		assert.False(t, ok, "code=%q", code)
	}
}

func TestVerify_NearEpoch(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"

	ok, err := Verify(secret, "282760", time.Unix(10, 0), 30, 1, otp.DigitsSix)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRandomSecret(t *testing.T) {
	s := RandomSecret(0)
	assert.Len(t, s, 32)
	assert.Equal(t, strings.ToUpper(s), s)
	assert.NotContains(t, s, "=")

	raw, err := DecodeSecret(s)
	require.NoError(t, err)
	assert.Len(t, raw, DefaultSecretSize)

	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		seen[RandomSecret(0)] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestTOTP(t *testing.T) {
	o := NewTOTP("Acme Co", 0, 1, otp.Digits(7))
	assert.Equal(t, DefaultPeriod, o.period)
	assert.Equal(t, otp.DigitsSix, o.digits)

	secret, uri, err := o.Generate("alice@example.com")
	require.NoError(t, err)
	assert.Len(t, secret, 32)
	assert.Contains(t, uri, "secret="+secret)

	const fixed = "JBSWY3DPEHPK3PXP"
	now := time.Unix(1700000010, 0)
	code, err := o.GenerateCode(fixed, now)
	require.NoError(t, err)
	assert.Equal(t, "367665", code)

	ok, err := o.Validate(code, fixed, now.Add(25*time.Second))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = o.Validate(code, fixed, now.Add(60*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = o.Generate("")
	assert.ErrorIs(t, err, ErrInvalidAccountName)
}

func TestCodeAndVerify_NormalizeParams(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	at := time.Unix(59, 0)

	assert.NotPanics(t, func() {
		ok, err := Verify(secret, "996554", at, 0, 1, otp.DigitsSix)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	got, err := Code(secret, at, 0, otp.DigitsSix)
	require.NoError(t, err)
	assert.Equal(t, "996554", got)

	for _, d := range []otp.Digits{0, 7, 10, 12} {
		got, err := Code(secret, at, 30, d)
		require.NoError(t, err)
		assert.Equal(t, "996554", got, "digits=%d", d)

		ok, err := Verify(secret, "996554", at, 30, 0, d)
		require.NoError(t, err)
		assert.True(t, ok, "digits=%d", d)
	}
}
