package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func Now() time.Time {
	return time.Now().UTC()
}

// Today returns the current UTC date truncated to midnight.
func Today() time.Time {
	return Now().Truncate(24 * time.Hour)
}

// SameDay reports whether both timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func GenerateNanoIDWithPrefix(prefix string, length int) string {
	id, _ := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", length)
	return prefix + "_" + id
}

func GenerateRunID() string {
	return uuid.New().String()
}

// GenerateMessageID builds an RFC 5322 Message-ID for outgoing mail.
func GenerateMessageID(domain, id string) string {
	if id == "" {
		id = uuid.New().String()
	}
	return fmt.Sprintf("<%s@%s>", id, domain)
}

// GetOrDefault returns the value if the pointer is not nil, otherwise returns the default value
func GetOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr == nil {
		return defaultVal
	}
	return *ptr
}

func StringPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}

// ExtractDomainFromEmail returns the lowercased domain part of an address,
// tolerating "Name <email@domain>" forms.
func ExtractDomainFromEmail(email string) string {
	if email == "" {
		return ""
	}

	email = strings.TrimSpace(email)

	if strings.Contains(email, "<") && strings.Contains(email, ">") {
		startIdx := strings.LastIndex(email, "<") + 1
		endIdx := strings.LastIndex(email, ">")
		if startIdx > 0 && endIdx > startIdx {
			email = email[startIdx:endIdx]
		}
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(parts[1]))
}

// UniqueEmails de-duplicates a recipient list while preserving order.
func UniqueEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	unique := make([]string, 0, len(emails))

	for _, email := range emails {
		if _, exists := seen[email]; !exists {
			seen[email] = struct{}{}
			unique = append(unique, email)
		}
	}

	return unique
}
