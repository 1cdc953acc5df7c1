package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexNumber is a number the backend may send as a JSON number, a numeric
// string, an empty string or null. The last two decode as zero. NaN and
// infinities are rejected.
type FlexNumber float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid numeric string %q", s)
		}
		*n = FlexNumber(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = FlexNumber(f)
	return nil
}

// Float returns the value as float64.
func (n FlexNumber) Float() float64 { return float64(n) }

// Int returns the value truncated to an int64. Identifiers are whole
// numbers so nothing is lost for them.
func (n FlexNumber) Int() int64 { return int64(n) }

// FlexString accepts either a JSON string or a JSON number and keeps the
// textual form. Used for identifiers that change type between backends.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(num.String())
	return nil
}

// FlexSteps decodes recipe steps sent either as an array of strings or as
// one newline-separated string. Blank lines are dropped.
type FlexSteps []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexSteps) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = compactSteps(list)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("steps must be a string or a list of strings: %w", err)
	}
	*s = SplitSteps(text)
	return nil
}

// SplitSteps breaks free text into one step per non-blank line.
func SplitSteps(text string) []string {
	return compactSteps(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

func compactSteps(lines []string) []string {
	steps := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}
