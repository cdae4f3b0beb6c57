package validator

import "fmt"

// Form type names used by the submission coordinator.
const (
	FormRegistration = "registration"
	FormLogin        = "login"
)

const (
	namePattern  = `^[a-zA-Z0-9 ]+$`
	emailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
	// University seat numbers look like 1IS22CS001: campus digit, two
	// letters, two year digits, branch letters, three serial digits.
	usnPattern = `^1[A-Z]{2}[0-9]{2}[A-Z]{2}[0-9]{3}$`
)

// Departments that can be picked on the registration form.
var Departments = []string{"CSE", "ISE", "ECE", "EEE", "ME", "CV", "AIML", "Other"}

func memberFields(prefix string, required bool) map[string]FieldSchema {
	return map[string]FieldSchema{
		prefix + "Name": {
			Label:       prefix + " name",
			Required:    required,
			MinLen:      3,
			MaxLen:      50,
			Pattern:     namePattern,
			PatternDesc: fmt.Sprintf("%s name may contain letters, digits and spaces only", prefix),
		},
		prefix + "USN": {
			Label:       prefix + " USN",
			Required:    required,
			MinLen:      10,
			MaxLen:      10,
			Pattern:     usnPattern,
			PatternDesc: fmt.Sprintf("%s USN must be a valid USN (e.g. 1IS22CS001)", prefix),
			Uppercase:   true,
		},
		prefix + "Dept": {
			Label:         prefix + " department",
			Required:      required,
			AllowedValues: Departments,
		},
	}
}

// RegistrationSchema describes the team registration form: team email and
// name plus up to three members, where only the first member is mandatory.
func RegistrationSchema() FormSchema {
	fields := map[string]FieldSchema{
		"teamEmail": {
			Label:       "team email",
			Required:    true,
			MinLen:      5,
			MaxLen:      100,
			Pattern:     emailPattern,
			PatternDesc: "team email must be a valid email address",
		},
		"teamName": {
			Label:       "team name",
			Required:    true,
			MinLen:      3,
			MaxLen:      30,
			Pattern:     namePattern,
			PatternDesc: "team name may contain letters, digits and spaces only",
		},
	}
	for prefix, required := range map[string]bool{"member1": true, "member2": false, "member3": false} {
		for field, fs := range memberFields(prefix, required) {
			fields[field] = fs
		}
	}

	schema, err := NewFormSchema(FormRegistration, fields)
	if err != nil {
		// Patterns above are constants; a failure here is a programming error.
		panic(err)
	}
	return schema
}

// LoginSchema describes the login form. Credential fields get length bounds
// only; a pattern would leak composition rules.
func LoginSchema() FormSchema {
	schema, err := NewFormSchema(FormLogin, map[string]FieldSchema{
		"username": {
			Label:    "username",
			Required: true,
			MinLen:   3,
			MaxLen:   50,
		},
		"password": {
			Label:    "password",
			Required: true,
			MinLen:   8,
			MaxLen:   128,
		},
	})
	if err != nil {
		panic(err)
	}
	return schema
}
