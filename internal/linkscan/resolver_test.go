package linkscan

import (
	"strings"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		fragment string
		want     string
		wantOK   bool
	}{
		{
			name:     "match",
			doc:      `<a href="/files/MagPi01.pdf">Download</a>`,
			fragment: "MagPi01.pdf",
			want:     "/files/MagPi01.pdf",
			wantOK:   true,
		},
		{
			name:     "first match wins",
			doc:      `<a href="/mirror/a/MagPi02.pdf">a</a><a href="/mirror/b/MagPi02.pdf">b</a>`,
			fragment: "MagPi02.pdf",
			want:     "/mirror/a/MagPi02.pdf",
			wantOK:   true,
		},
		{
			name:     "skips non matching links",
			doc:      `<a href="/">home</a><a href="/issues">issues</a><a href="https://cdn.example.com/MagPi10.pdf">pdf</a>`,
			fragment: "MagPi10.pdf",
			want:     "https://cdn.example.com/MagPi10.pdf",
			wantOK:   true,
		},
		{
			name:     "substring match",
			doc:      `<a href="/dl/MagPi03.pdf?token=abc">pdf</a>`,
			fragment: "MagPi03.pdf",
			want:     "/dl/MagPi03.pdf?token=abc",
			wantOK:   true,
		},
		{
			name:     "no anchors",
			doc:      `<html><body>maintenance</body></html>`,
			fragment: "MagPi01.pdf",
			wantOK:   false,
		},
		{
			name:     "no matching anchor",
			doc:      `<a href="/files/MagPi11.pdf">11</a>`,
			fragment: "MagPi01.pdf",
			wantOK:   false,
		},
		{
			name:     "case sensitive",
			doc:      `<a href="/files/magpi01.pdf">lower</a>`,
			fragment: "MagPi01.pdf",
			wantOK:   false,
		},
	}

	r := NewResolver(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.doc, tt.fragment)
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_ResolveReader(t *testing.T) {
	r := NewResolver(NewScanner())

	got, ok := r.ResolveReader(strings.NewReader(`<a href="/x/MagPi50.pdf">x</a>`), "MagPi50.pdf")
	if !ok || got != "/x/MagPi50.pdf" {
		t.Errorf("ResolveReader() = (%q, %v)", got, ok)
	}
}
