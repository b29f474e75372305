package render

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"ip-frontend/internal/geo"
)

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestIndexDefaults(t *testing.T) {
	r := mustRenderer(t)
	var buf bytes.Buffer
	page := Page{
		Result:          geo.FromPayload(map[string]any{"country_name": "Testland", "isp": "TestISP"}),
		Hostname:        "web-1",
		FrontendVersion: "version1",
	}
	if err := r.Index(&buf, page); err != nil {
		t.Fatalf("Index: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`id="country_name">Testland<`,
		`id="isp">TestISP<`,
		`id="continent_name">Unknown<`,
		`id="continent_code">Unknown<`,
		`id="cached">Unknown<`,
		`id="apiServer">Unknown<`,
		`id="apiServerVersion">Unknown<`,
		`id="host">web-1<`,
		"version1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexRendersBackendTextVerbatim(t *testing.T) {
	r := mustRenderer(t)
	cases := []struct {
		isp  string
		want string
	}{
		{"A<B Networks", `id="isp">A&lt;B Networks<`},
		{"x<y", `id="isp">x&lt;y<`},
		{"<Unknown ISP>", `id="isp">&lt;Unknown ISP&gt;<`},
		{"<b>x</b>", `id="isp">&lt;b&gt;x&lt;/b&gt;<`},
		{"  padded  ", `id="isp">  padded  <`},
		{"AT&T", `id="isp">AT&amp;T<`},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		page := Page{Result: geo.FromPayload(map[string]any{"isp": tc.isp})}
		if err := r.Index(&buf, page); err != nil {
			t.Fatalf("Index(%q): %v", tc.isp, err)
		}
		if out := buf.String(); !strings.Contains(out, tc.want) {
			t.Errorf("isp %q: page missing %q", tc.isp, tc.want)
		}
	}
}

func TestErrorEscapesMessage(t *testing.T) {
	r := mustRenderer(t)
	var buf bytes.Buffer
	if err := r.Error(&buf, `Error connecting to API: <dial "x">`); err != nil {
		t.Fatalf("Error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, `<dial`) {
		t.Fatal("error message not escaped")
	}
	if !strings.Contains(out, "Error connecting to API: &lt;dial") {
		t.Fatalf("escaped message missing:\n%s", out)
	}
}

func TestNewFromFSMissingTemplate(t *testing.T) {
	fsys := fstest.MapFS{"index.html": {Data: []byte("{{ isp }}")}}
	if _, err := NewFromFS(fsys); err == nil {
		t.Fatal("expected error when error.html is missing")
	}
}
