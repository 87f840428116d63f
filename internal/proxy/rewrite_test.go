package proxy

import "testing"

func TestRewrite_Fixtures(t *testing.T) {
	cases := []struct {
		localPath, localQuery string
		base                  Base
		want                  string
	}{
		{"/abc", "a=1&b=2", Base{Authority: "h:7000", Path: "/x"}, "http://h:7000/x/abc?a=1&b=2"},
		{"/abc/", "", Base{Authority: "h:7000", Path: "/"}, "http://h:7000/abc/"},
		{"/", "", Base{Authority: "h:7000", Path: "/"}, "http://h:7000/"},
		{"/abc/def/", "", Base{Authority: "localhost:5000", Path: "/"}, "http://localhost:5000/abc/def/"},
		{"/abc/def", "", Base{Authority: "localhost:7000", Path: "/x/"}, "http://localhost:7000/x/abc/def"},
	}

	for _, c := range cases {
		got := Rewrite(c.localPath, c.localQuery, c.base)
		if got != c.want {
			t.Errorf("Rewrite(%q, %q, %+v) = %q, want %q", c.localPath, c.localQuery, c.base, got, c.want)
		}
	}
}

func TestRewrite_SchemeDefaultsToHTTP(t *testing.T) {
	got := Rewrite("/", "", Base{Authority: "h:1"})
	if got != "http://h:1" {
		t.Fatalf("Rewrite with empty path/scheme = %q, want http://h:1", got)
	}
}

func TestRewrite_RootUpstreamPreservesLocalPath(t *testing.T) {
	got := Rewrite("/abc/def", "q=1", Base{Authority: "h:1", Path: "/"})
	if got != "http://h:1/abc/def?q=1" {
		t.Fatalf("got %q", got)
	}
}
