package valueobjects

import (
	"regexp"
	"strings"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// Platform is a social network a project may link to.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformVK        Platform = "vk"
	PlatformTelegram  Platform = "telegram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// platformPatterns is the allow-list: a platform is accepted only if it has a pattern here.
var platformPatterns = map[Platform]*regexp.Regexp{
	PlatformFacebook:  regexp.MustCompile(`^https?://(www\.|m\.)?(facebook\.com|fb\.com)/[^\s]+$`),
	PlatformInstagram: regexp.MustCompile(`^https?://(www\.)?instagram\.com/[^\s]+$`),
	PlatformTwitter:   regexp.MustCompile(`^https?://(www\.)?(twitter\.com|x\.com)/[^\s]+$`),
	PlatformLinkedIn:  regexp.MustCompile(`^https?://([a-z]{2,3}\.)?linkedin\.com/[^\s]+$`),
	PlatformVK:        regexp.MustCompile(`^https?://(www\.|m\.)?vk\.com/[^\s]+$`),
	PlatformTelegram:  regexp.MustCompile(`^https?://(t\.me|telegram\.me)/[^\s]+$`),
	PlatformYouTube:   regexp.MustCompile(`^https?://(www\.|m\.)?(youtube\.com|youtu\.be)/[^\s]+$`),
	PlatformTikTok:    regexp.MustCompile(`^https?://(www\.)?tiktok\.com/[^\s]+$`),
}

// Validation errors for social links. A platform outside the allow-list and a link that does
// not match its platform are different failures.
var (
	ErrDisallowedPlatform = errors.NewValidationError("platform", "disallowed_platform", "social platform is not allowed")
	ErrInvalidSocialLink  = errors.NewValidationError("link", "invalid_social_link", "link does not match the platform")
)

// AllowedPlatforms returns the allow-list.
func AllowedPlatforms() []Platform {
	return []Platform{
		PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformLinkedIn,
		PlatformVK, PlatformTelegram, PlatformYouTube, PlatformTikTok,
	}
}

// SocialLink is a validated (platform, URL) pair.
type SocialLink struct {
	platform Platform
	link     string
}

// NewSocialLink validates the platform first, then the link against the platform pattern.
func NewSocialLink(platform, link string) (SocialLink, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(platform)))
	pattern, ok := platformPatterns[p]
	if !ok {
		return SocialLink{}, ErrDisallowedPlatform
	}

	link = strings.TrimSpace(link)
	if !pattern.MatchString(link) {
		return SocialLink{}, ErrInvalidSocialLink
	}

	return SocialLink{platform: p, link: link}, nil
}

// ReconstructSocialLink hydrates a stored link without validation.
func ReconstructSocialLink(platform, link string) SocialLink {
	return SocialLink{platform: Platform(platform), link: link}
}

// Platform returns the social network.
func (s SocialLink) Platform() Platform {
	return s.platform
}

// Link returns the URL.
func (s SocialLink) Link() string {
	return s.link
}

// String returns "platform:link".
func (s SocialLink) String() string {
	return string(s.platform) + ":" + s.link
}
