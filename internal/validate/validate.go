package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	reBookID = regexp.MustCompile(`^[0-9]{1,18}$`)
	reISBN   = regexp.MustCompile(`^[0-9Xx-]{10,17}$`)
	reUser   = regexp.MustCompile(`^[A-Za-z0-9._-]{1,32}$`)
)

// BookID validates a physical book id (decimal string).
func BookID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reBookID.MatchString(s)
}

// EbookID validates an ebook id (UUID).
func EbookID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return s, true
}

// Text trims s and enforces presence and a max length.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return s, false
	}
	return s, true
}

// Optional trims s and enforces a max length; empty is fine.
func Optional(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= max
}

// Price parses a non-negative, finite amount.
func Price(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// ISBN accepts ISBN-10/13 with optional hyphens. Empty is allowed.
func ISBN(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "" || reISBN.MatchString(s)
}

// Username validates the admin login name.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUser.MatchString(s)
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 6 && l <= 72
}
