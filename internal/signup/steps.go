package signup

// Step is the ordinal of a wizard page.
type Step int

const (
	StepAccountInfo Step = iota
	StepBusinessDetails
	StepBusinessOverview
)

// LastStep is the page that carries the submit action.
const LastStep = StepBusinessOverview

// Steps lists the wizard pages in order.
var Steps = []Step{StepAccountInfo, StepBusinessDetails, StepBusinessOverview}

func (s Step) String() string {
	switch s {
	case StepAccountInfo:
		return "Account Info"
	case StepBusinessDetails:
		return "Business Details"
	case StepBusinessOverview:
		return "Business Overview"
	default:
		return "Unknown"
	}
}

// Fields returns the inputs shown on page s.
func (s Step) Fields() []Field {
	switch s {
	case StepAccountInfo:
		return []Field{FieldEmail, FieldPassword}
	case StepBusinessDetails:
		return []Field{FieldFullName, FieldContact, FieldCompanyName, FieldBusinessType}
	case StepBusinessOverview:
		return []Field{FieldTeamSize, FieldYearsInBusiness}
	default:
		return nil
	}
}

// ValidateStep runs the rules belonging to step against d. The returned map is
// empty iff the step is valid.
func ValidateStep(step Step, d FormData) FormErrors {
	errs := FormErrors{}
	switch step {
	case StepAccountInfo:
		if d.Email == "" {
			errs[FieldEmail] = "Email is required"
		} else if !IsValidEmail(d.Email) {
			errs[FieldEmail] = "Invalid email"
		}
		if d.Password == "" {
			errs[FieldPassword] = "Password is required"
		}
	case StepBusinessDetails:
		if d.FullName == "" {
			errs[FieldFullName] = "Full Name is required"
		}
		if d.Contact == "" {
			errs[FieldContact] = "Contact is required"
		} else if !IsValidContact(d.Contact) {
			errs[FieldContact] = "Contact number must be exactly 10 digits"
		}
		if d.CompanyName == "" {
			errs[FieldCompanyName] = "Company Name is required"
		}
		if d.BusinessType == "" {
			errs[FieldBusinessType] = "Business type is required"
		} else if !BusinessTypes.Contains(d.BusinessType) {
			errs[FieldBusinessType] = "Invalid business type"
		}
	case StepBusinessOverview:
		// both optional
		if d.TeamSize != "" && !TeamSizes.Contains(d.TeamSize) {
			errs[FieldTeamSize] = "Invalid team size"
		}
		if d.YearsInBusiness != "" && !YearsInBusiness.Contains(d.YearsInBusiness) {
			errs[FieldYearsInBusiness] = "Invalid years in business"
		}
	}
	return errs
}
