package model

import "fmt"

// StatusKind discriminates the three pull request states. The values are the
// first byte of the persisted encoding so decoding dispatches on one character.
type StatusKind byte

const (
	StatusOpen   StatusKind = 'O'
	StatusClosed StatusKind = 'C'
	StatusMerged StatusKind = 'M'
)

// statusPayloadOffset is where the date payload starts in the persisted
// encoding: both "Closed " and "Merged " are seven bytes.
const statusPayloadOffset = 7

// Status is the state of a pull request at one observation. Closed and Merged
// carry the close/merge timestamp; Open carries none.
type Status struct {
	Kind StatusKind
	At   Date
}

// Open returns the open status.
func Open() Status {
	return Status{Kind: StatusOpen}
}

// Closed returns a closed status with the close timestamp.
func Closed(at Date) Status {
	return Status{Kind: StatusClosed, At: at}
}

// Merged returns a merged status with the merge timestamp.
func Merged(at Date) Status {
	return Status{Kind: StatusMerged, At: at}
}

// DeriveStatus maps the tracker's optional closed_at/merged_at timestamps to a
// Status. A merge implies a close, so merged_at takes precedence over
// closed_at; with both absent the pull request is open. The zero Date means
// absent.
func DeriveStatus(closedAt, mergedAt Date) Status {
	switch {
	case !mergedAt.IsZero():
		return Merged(mergedAt)
	case !closedAt.IsZero():
		return Closed(closedAt)
	default:
		return Open()
	}
}

// Encode renders the persisted form: "Open", "Closed <date>" or "Merged <date>".
func (s Status) Encode() string {
	switch s.Kind {
	case StatusOpen:
		return "Open"
	case StatusClosed:
		return "Closed " + string(s.At)
	case StatusMerged:
		return "Merged " + string(s.At)
	default:
		return ""
	}
}

// DecodeStatus parses the persisted form back into a Status. Anything that is
// not a well-formed encoding reports ErrInvalidStatusEncoding; a corrupt row
// must fail loudly rather than be skipped silently.
func DecodeStatus(raw string) (Status, error) {
	if raw == "Open" {
		return Open(), nil
	}
	if len(raw) > statusPayloadOffset {
		payload := Date(raw[statusPayloadOffset:])
		switch raw[0] {
		case byte(StatusClosed):
			return Closed(payload), nil
		case byte(StatusMerged):
			return Merged(payload), nil
		}
	}
	return Status{}, fmt.Errorf("status %q: %w", raw, ErrInvalidStatusEncoding)
}
