// Package username canonicalizes usernames the way the authentication host
// stores them.
//
// A canonical username is NFC-normalized, uses spaces rather than
// underscores, carries no redundant whitespace and starts with an upper-case
// letter. How strictly a name is checked depends on the Rigor requested.
package username

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Rigor selects how strictly Canonical validates a name.
type Rigor int

const (
	// RigorNone only normalizes the name.
	RigorNone Rigor = iota
	// RigorValid rejects names that could not be an account name.
	RigorValid
	// RigorUsable additionally rejects reserved names.
	RigorUsable
	// RigorCreatable additionally rejects characters not allowed in new accounts.
	RigorCreatable
)

func (r Rigor) String() string {
	switch r {
	case RigorNone:
		return "none"
	case RigorValid:
		return "valid"
	case RigorUsable:
		return "usable"
	case RigorCreatable:
		return "creatable"
	default:
		return fmt.Sprintf("rigor(%d)", int(r))
	}
}

// Errors returned by Canonical. All of them wrap ErrInvalid.
var (
	ErrInvalid      = errors.New("username: invalid")
	ErrEmpty        = fmt.Errorf("%w: empty", ErrInvalid)
	ErrFragment     = fmt.Errorf("%w: contains '#'", ErrInvalid)
	ErrIllegalChar  = fmt.Errorf("%w: contains a character not allowed in titles", ErrInvalid)
	ErrNamespace    = fmt.Errorf("%w: outside the user namespace", ErrInvalid)
	ErrTooLong      = fmt.Errorf("%w: too long", ErrInvalid)
	ErrIPAddress    = fmt.Errorf("%w: is an IP address", ErrInvalid)
	ErrSubpage      = fmt.Errorf("%w: contains '/'", ErrInvalid)
	ErrReserved     = fmt.Errorf("%w: reserved", ErrInvalid)
	ErrNotCreatable = fmt.Errorf("%w: contains a character not allowed in new accounts", ErrInvalid)
)

// DefaultMaxLength is the longest canonical name accepted, in bytes.
const DefaultMaxLength = 255

// DefaultInvalidChars are rejected in new account names.
const DefaultInvalidChars = "@:>="

// DefaultReserved are names kept for maintenance processes.
var DefaultReserved = []string{
	"MediaWiki default",
	"Conversion script",
	"Maintenance script",
	"Template namespace initialisation script",
	"ScriptImporter",
	"Unknown user",
}

// DefaultNamespaces are title prefixes that move a name out of the user
// namespace. "User" itself is stripped rather than rejected.
var DefaultNamespaces = []string{
	"Media", "Special", "Talk", "User talk",
	"Project", "Project talk", "File", "File talk", "Image", "Image talk",
	"MediaWiki", "MediaWiki talk", "Template", "Template talk",
	"Help", "Help talk", "Category", "Category talk",
}

const userNamespace = "User"

var (
	percentEscape = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)
	htmlEntity    = regexp.MustCompile(`&[A-Za-z0-9\x80-\xff]+;|&#[0-9]+;|&#x[0-9A-Fa-f]+;`)
	whitespaceRun = regexp.MustCompile(`[ _\x{00A0}\x{1680}\x{180E}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}]+`)
	ipv4Range     = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.(?:xxx|\d{1,3})$`)
	troublemakers = regexp.MustCompile(`[\x{0080}-\x{009F}\x{00A0}\x{2000}-\x{200F}\x{2028}-\x{202F}\x{3000}\x{E000}-\x{F8FF}]`)
)

// Rules holds the canonicalization policy. The zero value applies no length
// limit, no reserved names and no extra character restrictions.
type Rules struct {
	// MaxLength is the longest accepted name in bytes.
	MaxLength int

	// InvalidChars are rejected at RigorCreatable.
	InvalidChars string

	// Reserved names are rejected at RigorUsable and above.
	Reserved []string

	// Namespaces are prefixes that make a name refer to another namespace.
	Namespaces []string
}

// DefaultRules returns the standard policy.
func DefaultRules() *Rules {
	return NewRules(DefaultMaxLength, DefaultInvalidChars, DefaultReserved, DefaultNamespaces)
}

// NewRules returns a policy with the given limits.
func NewRules(maxLength int, invalidChars string, reserved, namespaces []string) *Rules {
	return &Rules{
		MaxLength:    maxLength,
		InvalidChars: invalidChars,
		Reserved:     reserved,
		Namespaces:   namespaces,
	}
}

// Canonical returns the canonical form of name, or an error wrapping
// ErrInvalid if name fails the checks required by rigor.
func (r *Rules) Canonical(name string, rigor Rigor) (string, error) {
	name = ucfirst(norm.NFC.String(name))

	if strings.Contains(name, "#") {
		return "", ErrFragment
	}

	if rigor == RigorNone {
		return strings.ReplaceAll(name, "_", " "), nil
	}

	text, err := r.titleText(name)
	if err != nil {
		return "", err
	}

	if err := r.checkValid(text); err != nil {
		return "", err
	}
	if rigor >= RigorUsable {
		if err := r.checkUsable(text); err != nil {
			return "", err
		}
	}
	if rigor >= RigorCreatable {
		if err := r.checkCreatable(text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// IsValid reports whether name is already canonical and valid.
func (r *Rules) IsValid(name string) bool {
	c, err := r.Canonical(name, RigorValid)
	return err == nil && c == name
}

// IsUsable reports whether name is already canonical and usable.
func (r *Rules) IsUsable(name string) bool {
	c, err := r.Canonical(name, RigorUsable)
	return err == nil && c == name
}

// IsCreatable reports whether name is already canonical and creatable.
func (r *Rules) IsCreatable(name string) bool {
	c, err := r.Canonical(name, RigorCreatable)
	return err == nil && c == name
}

// titleText applies title normalization within the user namespace.
func (r *Rules) titleText(name string) (string, error) {
	text := strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
	text = strings.TrimPrefix(text, ":")
	text = strings.TrimSpace(text)

	if text == "" {
		return "", ErrEmpty
	}

	if prefix, rest, ok := strings.Cut(text, ":"); ok {
		ns := strings.TrimSpace(prefix)
		switch {
		case strings.EqualFold(ns, userNamespace):
			text = strings.TrimSpace(rest)
			if text == "" {
				return "", ErrEmpty
			}
		case r.isNamespace(ns):
			return "", ErrNamespace
		}
	}

	if err := checkTitleChars(text); err != nil {
		return "", err
	}
	return ucfirst(text), nil
}

func (r *Rules) isNamespace(prefix string) bool {
	return slices.ContainsFunc(r.Namespaces, func(ns string) bool {
		return strings.EqualFold(ns, prefix)
	})
}

// checkTitleChars rejects text that cannot appear in a page title.
func checkTitleChars(text string) error {
	if !utf8.ValidString(text) {
		return ErrIllegalChar
	}
	for _, c := range text {
		if unicode.IsControl(c) || strings.ContainsRune("<>[]|{}", c) {
			return ErrIllegalChar
		}
	}
	if percentEscape.MatchString(text) || htmlEntity.MatchString(text) {
		return ErrIllegalChar
	}
	if strings.Contains(text, "~~~") {
		return ErrIllegalChar
	}
	if text == "." || text == ".." || strings.HasPrefix(text, "./") || strings.HasPrefix(text, "../") ||
		strings.Contains(text, "/./") || strings.Contains(text, "/../") ||
		strings.HasSuffix(text, "/.") || strings.HasSuffix(text, "/..") {
		return ErrIllegalChar
	}
	return nil
}

func (r *Rules) checkValid(text string) error {
	if isIPAddress(text) {
		return ErrIPAddress
	}
	if strings.Contains(text, "/") {
		return ErrSubpage
	}
	if r.MaxLength > 0 && len(text) > r.MaxLength {
		return ErrTooLong
	}
	if troublemakers.MatchString(text) {
		return ErrIllegalChar
	}
	return nil
}

func (r *Rules) checkUsable(text string) error {
	if slices.Contains(r.Reserved, text) {
		return ErrReserved
	}
	return nil
}

func (r *Rules) checkCreatable(text string) error {
	if r.InvalidChars != "" && strings.ContainsAny(text, r.InvalidChars) {
		return ErrNotCreatable
	}
	return nil
}

// ucfirst upper-cases the first letter of s. Casers are stateful, so one is
// built per call.
func ucfirst(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 || first == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(first)) + s[size:]
}

func isIPAddress(s string) bool {
	if _, err := netip.ParseAddr(s); err == nil {
		return true
	}
	return ipv4Range.MatchString(s)
}
