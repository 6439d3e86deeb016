package sanitizer

import (
	"net/url"
	"strings"
)

// SanitizeURL canonicalizes an image URL: defaults the scheme to https,
// strips www, trailing slashes and utm_ tracking parameters. Returns "" for
// anything unparseable.
func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Host = strings.ToLower(u.Host)
	if after, ok := strings.CutPrefix(u.Host, "www."); ok {
		u.Host = after
	}

	u.Host = strings.TrimSuffix(u.Host, "/")
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	q := u.Query()
	qClean := url.Values{}
	for k, v := range q {
		key := strings.TrimSpace(strings.ToLower(k))
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		for _, val := range v {
			value := strings.TrimSpace(val)
			if value != "" {
				qClean.Add(key, value)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}
