package models

import (
	"fmt"
	"strings"
)

// Platform is one of the tracked paid-media channels.
type Platform int

const (
	Facebook Platform = iota
	Google
	TikTok
)

const NumPlatforms = 3

// Platforms is the fixed, ordered platform set.
var Platforms = []Platform{Facebook, Google, TikTok}

var platformNames = [NumPlatforms]string{"Facebook", "Google", "TikTok"}

func (p Platform) String() string {
	if p < 0 || int(p) >= NumPlatforms {
		return fmt.Sprintf("platform(%d)", int(p))
	}
	return platformNames[p]
}

// Key is the lowercase prefix used by per-platform source columns.
func (p Platform) Key() string { return strings.ToLower(p.String()) }

func (p Platform) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Platform) UnmarshalText(b []byte) error {
	v, err := ParsePlatform(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func ParsePlatform(s string) (Platform, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Platforms {
		if p.Key() == k {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown platform %q", s)
}
