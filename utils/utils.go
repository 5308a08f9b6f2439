package utils

import (
	"errors"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/text/unicode/norm"
)

var nonHandleChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// NormalizeUsername lowercases, strips accents and collapses anything that
// is not a valid handle character. Usernames are stored in this form.
func NormalizeUsername(name string) string {
	t := norm.NFD.String(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue // remove accent marks
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())
	s = nonHandleChars.ReplaceAllString(s, "")
	return s
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			log.Println("Error code", e.Code)
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	// Fallback
	msg := err.Error()
	return strings.Contains(msg, "E11000 duplicate key error")
}

func ParseBoolQuery(value string) (*bool, error) {
	if value == "" {
		return nil, nil // not provided
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func ParseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetDefaultQueryLimits() (int, int) {
	maxLimit := ParseIntDefault(os.Getenv("READ_QUERY_MAX_LIMIT"), 100)
	defaultLimit := ParseIntDefault(os.Getenv("DEFAULT_READ_QUERY_LIMIT"), 20)
	return maxLimit, defaultLimit
}
