// Package valueobjects_test covers the validation rules of every value object.
// Domain tests have NO external dependencies - pure unit tests.
package valueobjects_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

func TestPhoneNumber_NormalizesToE164(t *testing.T) {
	inputs := []string{
		"+7912 345 67 89",
		"+7(912)345-67-89",
		"+79123456789",
		"  +7 912 345-67-89 ",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			phone, err := valueobjects.NewPhoneNumber(in)
			require.NoError(t, err)
			assert.Equal(t, "+79123456789", phone.String())
		})
	}
}

func TestPhoneNumber_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", valueobjects.ErrPhoneEmpty},
		{"spaces only", "   ", valueobjects.ErrPhoneEmpty},
		{"letters", "call me", valueobjects.ErrPhoneInvalid},
		{"no country code", "9123456789", valueobjects.ErrPhoneInvalid},
		{"too short", "+7912", valueobjects.ErrPhoneInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := valueobjects.NewPhoneNumber(tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domainerrors.IsValidationError(err))
		})
	}
}

func TestPhoneNumber_KazakhstanMobile(t *testing.T) {
	phone, err := valueobjects.NewPhoneNumber("+77026992839")
	require.NoError(t, err)
	assert.Equal(t, "+77026992839", phone.String())
}

func TestSocialLink(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		link     string
		want     error
	}{
		{"telegram t.me", "telegram", "https://t.me/fundhub", nil},
		{"telegram upper-case platform", "Telegram", "https://telegram.me/fundhub", nil},
		{"youtube", "youtube", "https://www.youtube.com/@fundhub", nil},
		{"youtu.be", "youtube", "https://youtu.be/abc123", nil},
		{"twitter via x.com", "twitter", "https://x.com/fundhub", nil},
		{"vk", "vk", "https://vk.com/fundhub", nil},
		{"disallowed platform", "pinterest", "https://pinterest.com/fundhub", valueobjects.ErrDisallowedPlatform},
		{"disallowed before link check", "myspace", "not a url", valueobjects.ErrDisallowedPlatform},
		{"telegram typo domain", "telegram", "https://telegramm.me/x", valueobjects.ErrInvalidSocialLink},
		{"youtube link on facebook", "facebook", "https://youtube.com/x", valueobjects.ErrInvalidSocialLink},
		{"no path", "instagram", "https://instagram.com/", valueobjects.ErrInvalidSocialLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := valueobjects.NewSocialLink(tt.platform, tt.link)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, valueobjects.Platform(strings.ToLower(tt.platform)), link.Platform())
			assert.Equal(t, tt.link, link.Link())
		})
	}
}

func TestSocialLink_DistinctErrors(t *testing.T) {
	assert.False(t, errors.Is(valueobjects.ErrDisallowedPlatform, valueobjects.ErrInvalidSocialLink))
	assert.NotEqual(t,
		domainerrors.CodeOf(valueobjects.ErrDisallowedPlatform),
		domainerrors.CodeOf(valueobjects.ErrInvalidSocialLink))
}

func TestBusinessNumber(t *testing.T) {
	kz := valueobjects.MustNewCountryCode("KZ")
	us := valueobjects.MustNewCountryCode("us")

	tests := []struct {
		name    string
		country valueobjects.CountryCode
		value   string
		want    error
	}{
		{"KZ twelve digits", kz, "123456789012", nil},
		{"KZ eleven digits", kz, "12345678901", valueobjects.ErrBusinessNumberInvalid},
		{"KZ thirteen digits", kz, "1234567890123", valueobjects.ErrBusinessNumberInvalid},
		{"KZ letters", kz, "12345678901A", valueobjects.ErrBusinessNumberInvalid},
		{"KZ empty", kz, "", valueobjects.ErrBusinessNumberEmpty},
		{"US arbitrary", us, "anything-goes 42", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bn, err := valueobjects.NewBusinessNumber(tt.country, tt.value)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, bn.Value())
			assert.True(t, bn.Country().Equals(tt.country))
		})
	}
}

func TestCountryCode(t *testing.T) {
	c, err := valueobjects.NewCountryCode(" kz ")
	require.NoError(t, err)
	assert.Equal(t, "KZ", c.Code())
	assert.True(t, c.Equals(valueobjects.CountryKZ))

	for _, bad := range []string{"", "K", "KAZ", "1Z"} {
		_, err := valueobjects.NewCountryCode(bad)
		assert.ErrorIs(t, err, valueobjects.ErrInvalidCountryCode, bad)
	}
}

func TestGoalSum(t *testing.T) {
	tests := []struct {
		in   string
		want error
		str  string
	}{
		{"100", nil, "100.00"},
		{"0.01", nil, "0.01"},
		{"1500000.5", nil, "1500000.50"},
		{"0", valueobjects.ErrGoalSumNotPositive, ""},
		{"0.00", valueobjects.ErrGoalSumNotPositive, ""},
		{"-1", valueobjects.ErrGoalSumNotPositive, ""},
		{"abc", valueobjects.ErrGoalSumInvalid, ""},
		{"1/3", valueobjects.ErrGoalSumInvalid, ""},
		{"1e3", valueobjects.ErrGoalSumInvalid, ""},
		{"0x10", valueobjects.ErrGoalSumInvalid, ""},
		{"0b101", valueobjects.ErrGoalSumInvalid, ""},
		{"0o17", valueobjects.ErrGoalSumInvalid, ""},
		{"0x1p4", valueobjects.ErrGoalSumInvalid, ""},
		{"1_000", valueobjects.ErrGoalSumInvalid, ""},
		{"10.", valueobjects.ErrGoalSumInvalid, ""},
		{".5", valueobjects.ErrGoalSumInvalid, ""},
		{"١٠٠", valueobjects.ErrGoalSumInvalid, ""},
		{" 250 ", nil, "250.00"},
		{"10.001", valueobjects.ErrAmountPrecision, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g, err := valueobjects.NewGoalSum(tt.in)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.str, g.String())
		})
	}
}

func TestAmount(t *testing.T) {
	zero := valueobjects.ZeroAmount()
	assert.True(t, zero.IsZero())
	assert.Equal(t, "0.00", zero.String())

	a, err := valueobjects.NewAmount("10.50")
	require.NoError(t, err)
	b, err := valueobjects.NewAmount("0.5")
	require.NoError(t, err)

	sum := a.Add(b)
	assert.Equal(t, "11.00", sum.String())
	assert.Equal(t, "10.50", a.String(), "Add must not modify the receiver")

	_, err = valueobjects.NewAmount("-0.01")
	assert.ErrorIs(t, err, valueobjects.ErrAmountNegative)

	for _, raw := range []string{"0x10", "0X1P-2", "1_000", "1/3", "2E2", "+", ""} {
		_, err = valueobjects.NewAmount(raw)
		assert.ErrorIs(t, err, valueobjects.ErrAmountInvalid, raw)
	}
}

func TestTextValueObjects_EmptyBeforeTooLong(t *testing.T) {
	long := strings.Repeat("a", valueobjects.MaxFirstNameLength+1)

	_, err := valueobjects.NewFirstName(long)
	assert.ErrorIs(t, err, valueobjects.ErrFirstNameTooLong)

	_, err = valueobjects.NewFirstName("   ")
	assert.ErrorIs(t, err, valueobjects.ErrFirstNameEmpty)

	_, err = valueobjects.NewLastName(strings.Repeat("b", valueobjects.MaxLastNameLength+1))
	assert.ErrorIs(t, err, valueobjects.ErrLastNameTooLong)

	_, err = valueobjects.NewDescription(strings.Repeat("c", valueobjects.MaxDescriptionLength+1))
	assert.ErrorIs(t, err, valueobjects.ErrDescriptionTooLong)

	_, err = valueobjects.NewContent(strings.Repeat("d", valueobjects.MaxDescriptionLength+1))
	assert.NoError(t, err, "news content has its own, larger limit")

	_, err = valueobjects.NewTitle("")
	assert.ErrorIs(t, err, valueobjects.ErrTitleEmpty)
}

func TestTextValueObjects_TrimAndCountRunes(t *testing.T) {
	name, err := valueobjects.NewFirstName("  Айгерим ")
	require.NoError(t, err)
	assert.Equal(t, "Айгерим", name.String())

	// multi-byte characters count once
	_, err = valueobjects.NewFirstName(strings.Repeat("ж", valueobjects.MaxFirstNameLength))
	assert.NoError(t, err)
}

func TestPlanFile(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

	plan, err := valueobjects.NewPlanFile(pdf)
	require.NoError(t, err)
	assert.Equal(t, len(pdf), plan.Size())
	assert.Equal(t, "application/pdf", plan.ContentType())

	_, err = valueobjects.NewPlanFile(nil)
	assert.ErrorIs(t, err, valueobjects.ErrPlanFileEmpty)

	_, err = valueobjects.NewPlanFile([]byte("just some text"))
	assert.ErrorIs(t, err, valueobjects.ErrPlanFileNotPDF)

	_, err = valueobjects.NewPlanFile(append([]byte("%PDF-1.4\n"), make([]byte, valueobjects.MaxPlanFileSize)...))
	assert.ErrorIs(t, err, valueobjects.ErrPlanFileTooBig)
}

func TestPermission(t *testing.T) {
	p, err := valueobjects.NewPermission(valueobjects.ActionAdd, "news", "news", "")
	require.NoError(t, err)
	assert.Equal(t, "add.news.news", p.Code())

	withField, err := valueobjects.NewPermission(valueobjects.ActionChange, "projects", "project", "goal_sum")
	require.NoError(t, err)
	assert.Equal(t, "change.projects.project.goal_sum", withField.Code())

	parsed, err := valueobjects.ParsePermission("change.projects.project.goal_sum")
	require.NoError(t, err)
	assert.Equal(t, withField, parsed)

	_, err = valueobjects.NewPermission("publish", "news", "news", "")
	assert.ErrorIs(t, err, valueobjects.ErrInvalidPermission)

	_, err = valueobjects.ParsePermission("add.news")
	assert.ErrorIs(t, err, valueobjects.ErrInvalidPermission)
}

func TestCredentials(t *testing.T) {
	email, err := valueobjects.NewEmail("  Founder@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "founder@example.com", email.String())

	_, err = valueobjects.NewEmail("not-an-email")
	assert.ErrorIs(t, err, valueobjects.ErrInvalidEmail)

	_, err = valueobjects.NewUsername("ab")
	assert.ErrorIs(t, err, valueobjects.ErrUsernameLength)
	_, err = valueobjects.NewUsername("bad name!")
	assert.ErrorIs(t, err, valueobjects.ErrUsernameCharacters)
	u, err := valueobjects.NewUsername("founder.kz_1")
	require.NoError(t, err)
	assert.Equal(t, "founder.kz_1", u.String())

	_, err = valueobjects.NewPassword("short")
	assert.ErrorIs(t, err, valueobjects.ErrPasswordTooShort)
	pw, err := valueobjects.NewPassword("long enough")
	require.NoError(t, err)
	assert.Equal(t, "long enough", pw.Plain())
	assert.NotContains(t, pw.String(), "long")
}
