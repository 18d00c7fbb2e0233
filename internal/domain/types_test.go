package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestIDMarshalsAsString(t *testing.T) {
	b, err := json.Marshal(ID(42))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(b) != `"42"` {
		t.Fatalf("expected quoted string, got %s", b)
	}
}

func TestIDRoundTripBeyondSafeInteger(t *testing.T) {
	// 2^53 + 1: the first value a float64 mantissa cannot hold exactly.
	const raw = int64(9007199254740993)

	b, err := json.Marshal(ID(raw))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(b) != `"9007199254740993"` {
		t.Fatalf("expected \"9007199254740993\", got %s", b)
	}

	var back ID
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if int64(back) != raw {
		t.Fatalf("round trip changed value: got %d want %d", back, raw)
	}
}

func TestIDRoundTripBounds(t *testing.T) {
	for _, raw := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		b, err := json.Marshal(ID(raw))
		if err != nil {
			t.Fatalf("marshal %d: %v", raw, err)
		}
		var back ID
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if int64(back) != raw {
			t.Fatalf("round trip changed value: got %d want %d", back, raw)
		}
	}
}

func TestIDRejectsMalformedInput(t *testing.T) {
	cases := []string{
		`"abc"`,
		`""`,
		`"12.5"`,
		`"9223372036854775808"`, // MaxInt64 + 1
		`123`,                   // bare number, not a string
		`null`,
	}
	for _, raw := range cases {
		var id ID
		err := json.Unmarshal([]byte(raw), &id)
		if err == nil {
			t.Fatalf("expected error for %s", raw)
		}
		if !errors.Is(err, ErrMalformedID) {
			t.Fatalf("expected ErrMalformedID for %s, got %v", raw, err)
		}
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("9007199254740993")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 9007199254740993 {
		t.Fatalf("got %d", id)
	}

	if _, err := ParseID("not-a-number"); !errors.Is(err, ErrMalformedID) {
		t.Fatalf("expected ErrMalformedID, got %v", err)
	}
}

func TestParseRoleDefaultsToStudent(t *testing.T) {
	if got := ParseRole("admin"); got != RoleAdmin {
		t.Fatalf("got %s", got)
	}
	if got := ParseRole("superuser"); got != RoleStudent {
		t.Fatalf("unknown role should map to student, got %s", got)
	}
}
