// Package validation performs declarative per-field checking of auth request
// fields. Each operation has an ordered rule table; every violated rule
// contributes one entry, so callers see all problems at once. Normalization
// (lower-casing) is applied to the values the caller keeps using downstream.
package validation

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Violation describes a single violated rule for one field.
type Violation struct {
	// Param is the name of the offending field.
	Param string `json:"param"`
	// Msg is the human-readable message for the violated rule.
	Msg string `json:"msg"`
}

// SignupInput holds the signup fields under validation.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the login fields under validation.
type LoginInput struct {
	Username string
	Password string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// fieldRule is one entry of an operation's rule table.
type fieldRule struct {
	param     string
	message   string
	normalize bool
	valid     func(string) bool
}

var signupRules = []fieldRule{
	{"username", "Please Enter a Valid Username", true, nonEmpty},
	{"email", "Please enter a valid email", true, validEmail},
	{"password", "Please enter a valid password", false, longEnough},
}

var loginRules = []fieldRule{
	{"username", "Please Enter a Valid Username", true, nonEmpty},
	{"password", "Please enter a valid password", false, longEnough},
}

func nonEmpty(s string) bool   { return s != "" }
func validEmail(s string) bool { return emailPattern.MatchString(s) }
func longEnough(s string) bool { return len(s) >= MinPasswordLength }

// run walks the rule table in order, normalizing fields in place and
// collecting one violation per failed rule. It never panics on malformed
// input; empty or garbage values simply fail their rules.
func run(rules []fieldRule, fields map[string]*string) []Violation {
	var violations []Violation
	for _, rule := range rules {
		field, ok := fields[rule.param]
		if !ok {
			continue
		}
		if rule.normalize {
			*field = strings.ToLower(*field)
		}
		if !rule.valid(*field) {
			violations = append(violations, Violation{Param: rule.param, Msg: rule.message})
		}
	}
	return violations
}

// Signup validates and normalizes signup fields. The returned input carries
// the normalized values; callers must use those, not the raw request, for
// lookups and storage. A nil violation slice means the input is valid.
func Signup(in SignupInput) (SignupInput, []Violation) {
	violations := run(signupRules, map[string]*string{
		"username": &in.Username,
		"email":    &in.Email,
		"password": &in.Password,
	})
	return in, violations
}

// Login validates and normalizes login fields, same contract as Signup.
func Login(in LoginInput) (LoginInput, []Violation) {
	violations := run(loginRules, map[string]*string{
		"username": &in.Username,
		"password": &in.Password,
	})
	return in, violations
}
