package formatter

import (
	"strings"

	"github.com/pfrederiksen/notion-meetings/internal/config"
)

// unsafeFilenameChars are removed from filename parts
const unsafeFilenameChars = `\:*?"<>|`

// Sanitize makes name safe to use as part of a filename. Slashes, ampersands and spaces
// are replaced as configured, unsafe characters dropped, and the result truncated to
// MaxLength characters. Zero-valued settings use the defaults.
func Sanitize(name string, cfg config.SanitizeConfig) string {
	if name == "" {
		return ""
	}
	cfg = cfg.WithDefaults()

	result := strings.ReplaceAll(name, "/", cfg.ReplaceSlash)
	result = strings.ReplaceAll(result, "&", cfg.ReplaceAmpersand)
	result = strings.ReplaceAll(result, " ", cfg.ReplaceSpace)
	result = strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeFilenameChars, r) {
			return -1
		}
		return r
	}, result)

	if r := []rune(result); len(r) > cfg.MaxLength {
		result = string(r[:cfg.MaxLength])
	}
	return result
}
