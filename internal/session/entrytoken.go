package session

import "net/url"

const entryTokenParam = "token"

// CaptureEntryToken extracts an access token embedded in an entry URL by the
// OAuth return redirect. When a token is present it returns the token and
// the same URL with the parameter stripped, so the caller can issue a single
// redirect to the clean location. An empty clean string means nothing was
// captured.
func CaptureEntryToken(u *url.URL) (token string, clean string) {
	if u == nil {
		return "", ""
	}

	q := u.Query()
	token = q.Get(entryTokenParam)
	if token == "" {
		return "", ""
	}

	q.Del(entryTokenParam)
	stripped := *u
	stripped.RawQuery = q.Encode()

	clean = stripped.Path
	if clean == "" {
		clean = "/"
	}
	if stripped.RawQuery != "" {
		clean += "?" + stripped.RawQuery
	}
	return token, clean
}
