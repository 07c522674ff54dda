package media

import (
	"fmt"
	"strings"

	"agoge-backend/shared/config"
)

// ResolveURL turns a stored object key into an absolute URL against the
// configured media base. Empty keys resolve to nil so serializers emit
// JSON null instead of a bogus link. Keys that are already absolute are
// passed through.
func ResolveURL(objectKey string) *string {
	if objectKey == "" {
		return nil
	}

	if strings.HasPrefix(objectKey, "http://") || strings.HasPrefix(objectKey, "https://") {
		return &objectKey
	}

	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(config.GetConfig().MediaBaseURL(), "/"), strings.TrimPrefix(objectKey, "/"))
	return &url
}
