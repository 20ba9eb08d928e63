package normalize

import (
	"sort"
	"strings"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/pkg/errors"

	er "github.com/courieros/courierstack/internal/errors"
)

// Normalizer converts raw form field values into canonical stored values.
// It is stateless apart from its lookup tables and safe for concurrent use.
type Normalizer struct {
	tables Tables
	// correction suffixes, longest first, so overlapping suffixes resolve
	// deterministically
	suffixes []string
}

func NewNormalizer(tables Tables) *Normalizer {
	suffixes := make([]string, 0, len(tables.DomainCorrections))
	for suffix := range tables.DomainCorrections {
		suffixes = append(suffixes, suffix)
	}
	sort.Slice(suffixes, func(i, j int) bool {
		if len(suffixes[i]) != len(suffixes[j]) {
			return len(suffixes[i]) > len(suffixes[j])
		}
		return suffixes[i] < suffixes[j]
	})

	return &Normalizer{tables: tables, suffixes: suffixes}
}

// NormalizeEmail resolves a raw textual value to a deliverable address.
//
// It returns the empty string for absent input, the canonical table address
// when the value resolves to a known contact, otherwise a lowercase address
// rebuilt from the underscore-encoded form. When no rule produces a
// syntactically valid address the raw value is rejected with
// ErrUnparseableEmail; callers store NULL in that case, never the broken
// string.
func (n *Normalizer) NormalizeEmail(input string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(input))
	// the form tool occasionally injects stray spaces mid-value
	raw = strings.Join(strings.Fields(raw), "")
	if raw == "" {
		return "", nil
	}

	if canonical, ok := n.lookupContact(raw); ok {
		return canonical, nil
	}

	raw = n.correctDomainSuffix(raw)

	if local, domain, found := strings.Cut(raw, "@"); found {
		if canonical, ok := n.lookupContact(local); ok {
			return canonical, nil
		}
		raw = strings.ReplaceAll(local, "_", ".") + "@" + domain
	} else {
		raw = n.reconstruct(raw)
	}

	if !isValidAddress(raw) {
		return "", errors.Wrapf(er.ErrUnparseableEmail, "raw value %q", input)
	}

	return raw, nil
}

// lookupContact resolves a candidate key against the known-contacts table.
// It accepts the exact underscore-joined key, a dotted local part, and the
// token preceding the first separator.
func (n *Normalizer) lookupContact(key string) (string, bool) {
	if canonical, ok := n.tables.KnownContacts[key]; ok {
		return canonical, true
	}

	if local, _, found := strings.Cut(key, "@"); found {
		key = local
	}
	key = strings.ReplaceAll(key, ".", "_")
	if canonical, ok := n.tables.KnownContacts[key]; ok {
		return canonical, true
	}

	if prefix, _, found := strings.Cut(key, "_"); found {
		if canonical, ok := n.tables.KnownContacts[prefix]; ok {
			return canonical, true
		}
	}

	return "", false
}

func (n *Normalizer) correctDomainSuffix(raw string) string {
	for _, suffix := range n.suffixes {
		if strings.HasSuffix(raw, suffix) {
			return strings.TrimSuffix(raw, suffix) + n.tables.DomainCorrections[suffix]
		}
	}
	return raw
}

// reconstruct rebuilds an address from underscore-separated name parts when
// no domain suffix matched: two parts form a dotted name with no resolvable
// domain, three parts treat the trailing part as the domain label.
func (n *Normalizer) reconstruct(raw string) string {
	parts := strings.Split(raw, "_")
	switch len(parts) {
	case 2:
		return parts[0] + "." + parts[1]
	case 3:
		return parts[0] + "." + parts[1] + "@" + parts[2] + ".com"
	default:
		return raw
	}
}

func isValidAddress(address string) bool {
	if strings.Count(address, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(address, "@")
	if local == "" || domain == "" {
		return false
	}
	validation := mailvalidate.ValidateEmailSyntax(address)
	return validation.IsValid
}
