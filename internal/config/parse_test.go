package config

import (
	"encoding/hex"
	"testing"

	"github.com/poletaevvlad/authproxy/internal/auth"
)

func TestParsePort(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8080", 8080, false},
		{"0", 0, true},
		{"not-a-number", 0, true},
		{"70000", 0, true},
	}
	for _, c := range cases {
		got, err := ParsePort(c.in)
		if c.wantErr != (err != nil) {
			t.Errorf("ParsePort(%q) err = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if !c.wantErr && got != c.want {
			t.Errorf("ParsePort(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseUpstream(t *testing.T) {
	base, err := ParseUpstream("http://localhost:7000/x")
	if err != nil {
		t.Fatalf("ParseUpstream: %v", err)
	}
	if base.Authority != "localhost:7000" || base.Path != "/x" {
		t.Fatalf("unexpected base: %+v", base)
	}

	if _, err := ParseUpstream("https://localhost:7000"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
	if _, err := ParseUpstream("http://localhost:7000?query=1"); err == nil {
		t.Fatal("expected error for query string in upstream URL")
	}
	if _, err := ParseUpstream(""); err == nil {
		t.Fatal("expected error for empty upstream URL")
	}
}

func TestParseCredentials_NamedUser(t *testing.T) {
	hash := auth.GenerateHash("ABCDEF", "password")
	raw := "user:ABCDEF:" + hex.EncodeToString(hash[:])

	table, err := ParseCredentials(raw)
	if err != nil {
		t.Fatalf("ParseCredentials: %v", err)
	}
	cred, ok := table["user"]
	if !ok {
		t.Fatal("expected entry for user")
	}
	if cred.Salt != "ABCDEF" || cred.PasswordHash != hash {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestParseCredentials_AnonymousMustBeAlone(t *testing.T) {
	hash := auth.GenerateHash("saltsalt", "shared")
	anon := ":saltsalt:" + hex.EncodeToString(hash[:])
	named := "user:ABCDEF:" + hex.EncodeToString(hash[:])

	if _, err := ParseCredentials(anon + ";" + named); err == nil {
		t.Fatal("expected error when anonymous entry is combined with a named entry")
	}

	if _, err := ParseCredentials(anon); err != nil {
		t.Fatalf("anonymous-only table should parse: %v", err)
	}
}

func TestParseCredentials_SaltTooShort(t *testing.T) {
	if _, err := ParseCredentials("user:ab:" + "00"); err == nil {
		t.Fatal("expected error for salt shorter than 5 characters")
	}
}

func TestParseCredentials_WrongComponentCount(t *testing.T) {
	if _, err := ParseCredentials("onlysalt"); err == nil {
		t.Fatal("expected error for 1-component entry")
	}
	if _, err := ParseCredentials("a:b:c:d"); err == nil {
		t.Fatal("expected error for 4-component entry")
	}
}
