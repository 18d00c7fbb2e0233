package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedID marks identifier strings that are not valid base-10
// int64 literals. Callers match it with errors.Is.
var ErrMalformedID = errors.New("malformed identifier")

// ID is the primary key type shared by every domain entity. It is an
// int64 in memory but always a decimal string on the wire, because JSON
// consumers with 53-bit mantissas silently lose precision above 2^53
// when IDs travel as numbers.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MarshalJSON emits the identifier as a quoted decimal string.
func (id ID) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, id.String()), nil
}

// UnmarshalJSON accepts only JSON strings. A bare JSON number is
// rejected: accepting it would hide the precision loss this codec
// exists to prevent.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrMalformedID, string(b))
	}
	parsed, err := ParseID(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID converts a decimal string into an ID. Non-numeric input and
// values outside the signed 64-bit range return ErrMalformedID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, s)
	}
	return ID(n), nil
}

// Role is the access level attached to a user account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole normalizes a stored role string, defaulting unknown values
// to student so a bad row never grants elevated access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return Role(s)
	default:
		return RoleStudent
	}
}
