package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// NewFormRequest builds a form-encoded request the way a browser submits
// the login/register/search/review forms.
func NewFormRequest(method, path string, form url.Values) *http.Request {
	var body string
	if form != nil {
		body = form.Encode()
	}
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return r
}

// BodyContains reports whether the recorded response body contains want.
func BodyContains(w *httptest.ResponseRecorder, want string) bool {
	return strings.Contains(w.Body.String(), want)
}
