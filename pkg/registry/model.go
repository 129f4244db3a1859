package registry

import (
	"golang.org/x/xerrors"
)

// Status describes how an image reference was resolved.
type Status int

const (
	_ Status = iota
	Resolved
	OutOfScope
	Malformed
	NotFound
	Unsupported
)

var statusToString = map[Status]string{
	Resolved:    "Resolved",
	OutOfScope:  "OutOfScope",
	Malformed:   "Malformed",
	NotFound:    "NotFound",
	Unsupported: "Unsupported",
}

var stringToStatus = map[string]Status{
	"Resolved":    Resolved,
	"OutOfScope":  OutOfScope,
	"Malformed":   Malformed,
	"NotFound":    NotFound,
	"Unsupported": Unsupported,
}

func (s Status) String() string {
	if v, ok := statusToString[s]; ok {
		return v
	}
	return "Unknown"
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(value string) (Status, error) {
	if s, ok := stringToStatus[value]; ok {
		return s, nil
	}
	return 0, xerrors.Errorf("unknown resolution status: %s", value)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	status, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Resolution is the outcome of resolving one image reference. Digest holds
// the hex part of a sha256 digest and is set only when Status is Resolved.
type Resolution struct {
	Status Status `json:"status"`
	Digest string `json:"digest,omitempty"`
}

func (r Resolution) HasDigest() bool {
	return r.Status == Resolved && r.Digest != ""
}
