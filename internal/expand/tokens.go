package expand

// Recognized template tokens.
const (
	TokenTitle              = "{{TITLE}}"
	TokenPrimaryColor       = "{{PRIMARY_COLOR}}"
	TokenAccentColor        = "{{ACCENT_COLOR}}"
	TokenBackgroundGradient = "{{BACKGROUND_GRADIENT}}"
	TokenLogoImage          = "{{LOGO_IMAGE}}"
	TokenFounderImage       = "{{FOUNDER_IMAGE}}"
	TokenStatusBadge        = "{{STATUS_BADGE}}"
	TokenBadgeColor         = "{{BADGE_COLOR}}"
	TokenBadgeText          = "{{BADGE_TEXT}}"
	TokenTitleLine1         = "{{TITLE_LINE1}}"
	TokenTitleLine2         = "{{TITLE_LINE2}}"
	TokenTitleLine3         = "{{TITLE_LINE3}}"
	TokenDescription        = "{{DESCRIPTION}}"
	TokenBadgeImage         = "{{BADGE_IMAGE}}"
)

// TitleSuffix is appended to the document title.
const TitleSuffix = " - TKTurners"

// ImagePrefix is the path generated documents use to reach copied assets.
const ImagePrefix = "assets/images/"

// Tokens lists every token the expander substitutes.
var Tokens = []string{
	TokenTitle,
	TokenPrimaryColor,
	TokenAccentColor,
	TokenBackgroundGradient,
	TokenLogoImage,
	TokenFounderImage,
	TokenStatusBadge,
	TokenBadgeColor,
	TokenBadgeText,
	TokenTitleLine1,
	TokenTitleLine2,
	TokenTitleLine3,
	TokenDescription,
	TokenBadgeImage,
}

// RequiredTokens are the tokens a template is expected to contain. A missing
// one only degrades output, it never blocks generation.
var RequiredTokens = []string{
	TokenTitle,
	TokenPrimaryColor,
	TokenAccentColor,
	TokenTitleLine1,
	TokenTitleLine2,
	TokenTitleLine3,
	TokenBadgeText,
	TokenDescription,
	TokenFounderImage,
}
