package form

import (
	"convocation/internal/domain/submission"
)

// Gender and yes/no choices shared by several forms.
var (
	genderOptions = []Option{{"Male", "Male"}, {"Female", "Female"}}
	yesNoOptions  = []Option{{"yes", "Yes"}, {"no", "No"}}
)

// Registration is the church membership registration form.
var Registration = &Schema{
	Name:           "registration",
	Title:          "Church Registration",
	Intro:          "Please fill out all required fields to complete your church registration.",
	Collection:     submission.KindRegistration,
	SubmitLabel:    "Submit Registration",
	SuccessTitle:   "Registration Complete!",
	SuccessMessage: "Your registration has been successfully submitted. A member of our pastoral team will contact you within 2-3 business days to welcome you personally.",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "lastName", Label: "Last Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Message: "Please enter a valid email address"},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, MinLength: 10, Message: "Please enter a valid phone number"},
		{Name: "address", Label: "Address", Kind: KindText, Required: true, MinLength: 5, Message: "Please enter your complete address"},
		{Name: "city", Label: "City", Kind: KindText, Required: true, MinLength: 2, Message: "Please enter your city"},
		{Name: "dateOfBirth", Label: "Date of Birth", Kind: KindDate, Required: true, Message: "Please enter your date of birth"},
		{Name: "emergencyContact", Label: "Emergency Contact", Kind: KindText, Required: true, MinLength: 2, Message: "Please enter an emergency contact"},
		{Name: "emergencyPhone", Label: "Emergency Contact Phone", Kind: KindTel, Required: true, MinLength: 10, Message: "Please enter emergency contact phone"},
		{Name: "previousChurch", Label: "Previous Church", Kind: KindText},
		{Name: "ministryInterests", Label: "Ministry Interests", Kind: KindTextarea},
		{Name: "testimony", Label: "Testimony", Kind: KindTextarea},
	},
}

// Partnership is the organisational partnership enquiry form.
var Partnership = &Schema{
	Name:           "partnership",
	Title:          "Partnership Application",
	Intro:          "Tell us about your organization and how you would like to partner with us.",
	Collection:     submission.KindPartnership,
	SubmitLabel:    "Submit Partnership Application",
	SuccessTitle:   "Application Received!",
	SuccessMessage: "Thank you for your interest in partnering with us. Our partnership team will review your application and contact you soon.",
	Fields: []Field{
		{Name: "organizationName", Label: "Organization Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "organizationType", Label: "Organization Type", Kind: KindSelect, Required: true, Message: "Please select organization type", Options: []Option{
			{"church", "Church"}, {"nonprofit", "Non-Profit Organization"}, {"ministry", "Ministry"},
			{"business", "Business"}, {"individual", "Individual"}, {"other", "Other"},
		}},
		{Name: "website", Label: "Website", Kind: KindText},
		{Name: "contactPersonName", Label: "Contact Person Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Message: "Please enter a valid email address"},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, MinLength: 10, Message: "Please enter a valid phone number"},
		{Name: "address", Label: "Address", Kind: KindText, Required: true, MinLength: 5, Message: "Please enter your complete address"},
		{Name: "partnershipType", Label: "Partnership Type", Kind: KindSelect, Required: true, Message: "Please select partnership type", Options: []Option{
			{"ministry", "Ministry Partnership"}, {"community", "Community Outreach"}, {"missions", "Missions Support"},
			{"education", "Educational Programs"}, {"events", "Event Collaboration"}, {"resources", "Resource Sharing"},
			{"other", "Other"},
		}},
		{Name: "missionStatement", Label: "Mission Statement", Kind: KindTextarea, Required: true, MinLength: 10, Message: "Please provide a mission statement"},
		{Name: "partnershipGoals", Label: "Partnership Goals", Kind: KindTextarea, Required: true, MinLength: 10, Message: "Please describe your partnership goals"},
		{Name: "expectedContribution", Label: "Expected Contribution", Kind: KindTextarea, Required: true, MinLength: 10, Message: "Please describe your expected contribution"},
		{Name: "previousPartnerships", Label: "Previous Partnerships", Kind: KindTextarea},
		{Name: "additionalInfo", Label: "Additional Information", Kind: KindTextarea},
	},
}

// Leadership is the leadership-position application. officeNow is asked for
// only when the applicant already holds an office.
var Leadership = &Schema{
	Name:           "leadership",
	Title:          "Leadership Position Application",
	Intro:          "Apply for a leadership position at this year's convocation.",
	Collection:     submission.KindLeadership,
	SubmitLabel:    "Submit Application",
	SuccessTitle:   "Application Submitted!",
	SuccessMessage: "Thank you for applying. The leadership committee will review your application and get back to you.",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "lastName", Label: "Last Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Message: "Please enter a valid email address"},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, MinLength: 10, Message: "Please enter a valid phone number"},
		{Name: "address", Label: "Address", Kind: KindText, Required: true, MinLength: 5, Message: "Please enter your complete address"},
		{Name: "gender", Label: "Gender", Kind: KindSelect, Required: true, Options: genderOptions, Message: "Please select your gender"},
		{Name: "church", Label: "Church", Kind: KindText, Required: true, MinLength: 2, Message: "Please enter your church"},
		{Name: "zone", Label: "Zone", Kind: KindText, Required: true, Message: "Please enter your zone"},
		{Name: "holdsOffice", Label: "Do you currently hold an office?", Kind: KindRadio, Required: true, Options: yesNoOptions, Message: "Please tell us whether you hold an office"},
		{Name: "officeNow", Label: "Current Position", Kind: KindText, Required: true, Message: "Please enter your current position",
			VisibleWhen: &Condition{Field: "holdsOffice", Equals: "yes"}},
		{Name: "achievements", Label: "Achievements", Kind: KindTextarea},
		{Name: "officeApply", Label: "Office Applying For", Kind: KindText, Required: true, MinLength: 2, Message: "Please enter the office you are applying for"},
		{Name: "reasonsApply", Label: "Reasons for Applying", Kind: KindTextarea, Required: true, MinLength: 10, Message: "Please tell us why you are applying"},
		{Name: "document", Label: "Supporting Document", Kind: KindFile, Accept: ".pdf,.doc,.docx,.odt,.txt,.rtf"},
	},
}

// Contact is the general enquiry form.
var Contact = &Schema{
	Name:           "contact",
	Title:          "Contact Us",
	Intro:          "Send us a message and we will get back to you.",
	Collection:     submission.KindContact,
	SubmitLabel:    "Send Message",
	SuccessTitle:   "Message Sent Successfully!",
	SuccessMessage: "Thank you for reaching out. We will respond as soon as possible.",
	Fields: []Field{
		{Name: "firstName", Label: "First Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "lastName", Label: "Last Name", Kind: KindText, Required: true, MinLength: 2},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Message: "Please enter a valid email address"},
		{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, MinLength: 10, Message: "Please enter a valid phone number"},
		{Name: "message", Label: "Message", Kind: KindTextarea, Required: true, MinLength: 5},
	},
}

// All lists every public form in menu order.
var All = []*Schema{Registration, Partnership, Leadership, Contact}

// Lookup returns the form with the given name.
func Lookup(name string) (*Schema, error) {
	for _, s := range All {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, ErrUnknownForm
}
