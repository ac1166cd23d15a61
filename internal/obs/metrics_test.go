package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/v1/batches/01ABC":             "/v1/batches/:id",
		"/v1/batches/01ABC/fields":      "/v1/batches/:id/fields",
		"/v1/alerts/01DEF":              "/v1/alerts/:id",
		"/v1/batches":                   "/v1/batches",
		"/v1/batches?limit=10":          "/v1/batches",
		"/v1/authz/roles":               "/v1/authz/roles",
		"/v1/batches/a/b/c":             "/v1/batches/a/b/c",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
