package gen

import (
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Profile selects the execution shape of the generated methods.
type Profile uint8

const (
	// Blocking methods return their result directly.
	Blocking Profile = iota
	// Suspending methods take a context.Context first and may be cancelled
	// while waiting on the storage layer.
	Suspending
)

var profileNames = [...]string{
	Blocking:   "blocking",
	Suspending: "suspending",
}

// ParseProfile parses a profile name. "sync" and "async" are accepted as
// aliases.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blocking", "sync":
		return Blocking, nil
	case "suspending", "async":
		return Suspending, nil
	default:
		return 0, NewConfigError("Profile", s, "unsupported profile; use blocking or suspending")
	}
}

// String returns the profile name.
func (p Profile) String() string {
	if int(p) < len(profileNames) {
		return profileNames[p]
	}
	return fmt.Sprintf("Profile(%d)", p)
}

// RepoSuffix returns the suffix appended to the entity name to name the
// repository type.
func (p Profile) RepoSuffix() string {
	if p == Suspending {
		return "AsyncRepo"
	}
	return "Repo"
}

// InterfaceSuffix returns the suffix of the runtime interfaces the
// generated repository satisfies.
func (p Profile) InterfaceSuffix() string {
	if p == Suspending {
		return "Context"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	if int(p) >= len(profileNames) {
		return nil, fmt.Errorf("repogen: invalid profile %d", p)
	}
	return []byte(p.String()), nil
}

// EncodeMsgpack implements msgpack.CustomEncoder. The profile is written
// as a str; msgpack would encode the MarshalText form as bin.
func (p Profile) EncodeMsgpack(enc *msgpack.Encoder) error {
	text, err := p.MarshalText()
	if err != nil {
		return err
	}
	return enc.EncodeString(string(text))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(text []byte) error {
	v, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
