package signup

// Field names a single input of the signup form. The values double as the JSON
// keys of the signup payload.
type Field string

const (
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldFullName        Field = "fullName"
	FieldContact         Field = "contact"
	FieldCompanyName     Field = "companyName"
	FieldBusinessType    Field = "businessType"
	FieldTeamSize        Field = "teamSize"
	FieldYearsInBusiness Field = "yearsInBusiness"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldEmail,
	FieldPassword,
	FieldFullName,
	FieldContact,
	FieldCompanyName,
	FieldBusinessType,
	FieldTeamSize,
	FieldYearsInBusiness,
}

// Label is the human-readable caption of f.
func (f Field) Label() string {
	switch f {
	case FieldEmail:
		return "Email"
	case FieldPassword:
		return "Password"
	case FieldFullName:
		return "Full Name"
	case FieldContact:
		return "Contact Number"
	case FieldCompanyName:
		return "Company Name"
	case FieldBusinessType:
		return "Business Type"
	case FieldTeamSize:
		return "Team Size"
	case FieldYearsInBusiness:
		return "Years in Business"
	default:
		return string(f)
	}
}

// FormData holds the raw field values as typed.
type FormData struct {
	Email           string
	Password        string
	FullName        string
	Contact         string
	CompanyName     string
	BusinessType    string
	TeamSize        string
	YearsInBusiness string
}

// Get returns the value stored for f.
func (d FormData) Get(f Field) string {
	switch f {
	case FieldEmail:
		return d.Email
	case FieldPassword:
		return d.Password
	case FieldFullName:
		return d.FullName
	case FieldContact:
		return d.Contact
	case FieldCompanyName:
		return d.CompanyName
	case FieldBusinessType:
		return d.BusinessType
	case FieldTeamSize:
		return d.TeamSize
	case FieldYearsInBusiness:
		return d.YearsInBusiness
	default:
		return ""
	}
}

// With returns a copy of d with f set to raw. Contact values are reduced to at
// most ten digits; every other field is stored verbatim. The bool is false for
// an unknown field, in which case d is returned unchanged.
func (d FormData) With(f Field, raw string) (FormData, bool) {
	switch f {
	case FieldEmail:
		d.Email = raw
	case FieldPassword:
		d.Password = raw
	case FieldFullName:
		d.FullName = raw
	case FieldContact:
		d.Contact = CleanContact(raw)
	case FieldCompanyName:
		d.CompanyName = raw
	case FieldBusinessType:
		d.BusinessType = raw
	case FieldTeamSize:
		d.TeamSize = raw
	case FieldYearsInBusiness:
		d.YearsInBusiness = raw
	default:
		return d, false
	}
	return d, true
}

// FormErrors maps a field to the message explaining why it is invalid. A
// missing or empty entry means the field is currently valid.
type FormErrors map[Field]string

// Has reports whether f carries a message.
func (e FormErrors) Has(f Field) bool {
	return e[f] != ""
}

// Empty reports whether no field carries a message.
func (e FormErrors) Empty() bool {
	for _, msg := range e {
		if msg != "" {
			return false
		}
	}
	return true
}

// Without returns a copy of e with f cleared.
func (e FormErrors) Without(f Field) FormErrors {
	out := make(FormErrors, len(e))
	for k, v := range e {
		if k != f && v != "" {
			out[k] = v
		}
	}
	return out
}
