package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ResponseQuality is the grade a learner gives themselves after seeing the answer.
type ResponseQuality int

const (
	Incorrect ResponseQuality = iota // Completely wrong.
	Hard                             // Correct with great difficulty.
	Difficult                        // Correct with some difficulty.
	Easy                             // Correct with little difficulty.
	Good                             // Correct with ease.
	Perfect                          // Correct without hesitation.
)

var qualityNames = [...]string{
	Incorrect: "INCORRECT",
	Hard:      "HARD",
	Difficult: "DIFFICULT",
	Easy:      "EASY",
	Good:      "GOOD",
	Perfect:   "PERFECT",
}

func (q ResponseQuality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("ResponseQuality(%d)", int(q))
}

// IsValid reports whether q is one of the six declared grades.
func (q ResponseQuality) IsValid() bool {
	return q >= Incorrect && q <= Perfect
}

// ParseResponseQuality accepts either the numeric grade or its name, case-insensitively.
func ParseResponseQuality(s string) (ResponseQuality, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		q := ResponseQuality(n)
		if !q.IsValid() {
			return q, fmt.Errorf("quality out of range: %d", n)
		}
		return q, nil
	}
	upper := strings.ToUpper(s)
	for i, name := range qualityNames {
		if name == upper {
			return ResponseQuality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quality: %q", s)
}
