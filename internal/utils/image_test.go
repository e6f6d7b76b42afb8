package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Edge of the Universe", "edge-of-the-universe"},
		{"  Mars: The Red Planet!  ", "mars-the-red-planet"},
		{"UPPER", "upper"},
		{"already-slugged", "already-slugged"},
		{"???", "show"},
		{"", "show"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestShowImagePath(t *testing.T) {
	p1, err := ShowImagePath("Edge of the Universe", "artwork.PNG")
	if err != nil {
		t.Fatalf("ShowImagePath: %v", err)
	}
	if !strings.HasPrefix(p1, ShowImageDir+"/edge-of-the-universe-") {
		t.Errorf("unexpected path prefix: %q", p1)
	}
	if !strings.HasSuffix(p1, ".png") {
		t.Errorf("extension should be lowercased: %q", p1)
	}

	p2, err := ShowImagePath("Edge of the Universe", "artwork.PNG")
	if err != nil {
		t.Fatalf("ShowImagePath: %v", err)
	}
	if p1 == p2 {
		t.Errorf("two uploads of the same title must not collide: %q", p1)
	}
}
