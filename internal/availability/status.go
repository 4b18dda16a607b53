package availability

import (
	"fmt"
	"strings"
)

// Status is the download availability of a requested title.
type Status int

const (
	// TBD means no usable release date is known. It is the zero value.
	TBD Status = iota
	// Yes means the title is available now.
	Yes
	// Soon means a future date is known.
	Soon
	// No means a date is known but the title is not downloadable yet.
	No
)

// Statuses lists every status in rank order.
var Statuses = []Status{Yes, Soon, TBD, No}

func (s Status) String() string {
	switch s {
	case Yes:
		return "Yes"
	case Soon:
		return "Soon"
	case No:
		return "No"
	default:
		return "TBD"
	}
}

// Rank orders statuses for sorting: Yes, Soon, TBD, No.
func (s Status) Rank() int {
	switch s {
	case Yes:
		return 1
	case Soon:
		return 2
	case No:
		return 4
	default:
		return 3
	}
}

// ParseStatus accepts the String form of a status, case-insensitively.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes":
		return Yes, nil
	case "soon":
		return Soon, nil
	case "no":
		return No, nil
	case "tbd":
		return TBD, nil
	default:
		return TBD, fmt.Errorf("unknown status %q", value)
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
