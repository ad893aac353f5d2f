package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// UserFields is the pointer view of an incoming user payload. A nil pointer
// means the field was not supplied, which matters in update mode.
type UserFields struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Country   *string
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)
	phoneJunk    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	angleBracket = strings.NewReplacer("<", "", ">", "")
)

// ValidateUser checks field constraints and returns a field→message map; an
// empty map means the input is valid. In create mode the required trio must
// be present; in update mode only supplied fields are checked. Optional
// fields supplied as empty strings are always valid — they mark an explicit
// clear, not a value.
func ValidateUser(f UserFields, isUpdate bool) map[string]string {
	errs := map[string]string{}

	if !isUpdate {
		if f.FirstName == nil || utf8.RuneCountInString(strings.TrimSpace(*f.FirstName)) < 2 {
			errs["first_name"] = "First name must be at least 2 characters long"
		}
		if f.LastName == nil || utf8.RuneCountInString(strings.TrimSpace(*f.LastName)) < 2 {
			errs["last_name"] = "Last name must be at least 2 characters long"
		}
		if f.Email == nil || !emailPattern.MatchString(*f.Email) {
			errs["email"] = "Valid email address is required"
		}
	} else {
		if f.FirstName != nil && utf8.RuneCountInString(strings.TrimSpace(*f.FirstName)) < 2 {
			errs["first_name"] = "First name must be at least 2 characters long"
		}
		if f.LastName != nil && utf8.RuneCountInString(strings.TrimSpace(*f.LastName)) < 2 {
			errs["last_name"] = "Last name must be at least 2 characters long"
		}
		if f.Email != nil && !emailPattern.MatchString(*f.Email) {
			errs["email"] = "Valid email address is required"
		}
	}

	if f.Phone != nil && *f.Phone != "" && !phonePattern.MatchString(phoneJunk.Replace(*f.Phone)) {
		errs["phone"] = "Invalid phone number format"
	}
	if f.FirstName != nil && utf8.RuneCountInString(*f.FirstName) > 50 {
		errs["first_name"] = "First name cannot exceed 50 characters"
	}
	if f.LastName != nil && utf8.RuneCountInString(*f.LastName) > 50 {
		errs["last_name"] = "Last name cannot exceed 50 characters"
	}
	if f.Country != nil && utf8.RuneCountInString(*f.Country) > 50 {
		errs["country"] = "Country cannot exceed 50 characters"
	}

	return errs
}

// NormalizeUser sanitizes a payload that already passed validation: free-text
// fields are trimmed and stripped of angle brackets, the email is lowercased
// and trimmed. Supplied fields stay supplied even when they sanitize to the
// empty string, so callers can tell an explicit clear from an omitted field.
func NormalizeUser(f UserFields) UserFields {
	n := UserFields{}
	if f.FirstName != nil {
		v := sanitize(*f.FirstName)
		n.FirstName = &v
	}
	if f.LastName != nil {
		v := sanitize(*f.LastName)
		n.LastName = &v
	}
	if f.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*f.Email))
		n.Email = &v
	}
	if f.Phone != nil {
		v := sanitize(*f.Phone)
		n.Phone = &v
	}
	if f.Country != nil {
		v := sanitize(*f.Country)
		n.Country = &v
	}
	return n
}

func sanitize(s string) string {
	return angleBracket.Replace(strings.TrimSpace(s))
}
