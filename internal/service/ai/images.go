package ai

import (
	"fmt"
	"math/rand"
	"net/url"
)

// ImageURL composes an image-service URL for a keyword. The service is
// used opportunistically and never awaited; load failures are a rendering
// concern. The trailing value busts caches so repeated keywords still get
// fresh covers.
func ImageURL(base, keyword string) string {
	if keyword == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s?width=600&height=400&sig=%d", base, url.PathEscape(keyword), rand.Intn(100000))
}
