package model

var subjectLabels = map[string]string{
	SubjectGeneral:      "General Inquiry",
	SubjectPrograms:     "Program Information",
	SubjectVolunteer:    "Volunteer Opportunities",
	SubjectPartnership:  "Partnership",
	SubjectSupport:      "Support/Donations",
	SubjectSponsorships: "Sponsorships",
	SubjectOther:        "Other",
}

var statusLabels = map[string]string{
	StatusNew:       "New",
	StatusRead:      "Read",
	StatusResponded: "Responded",
	StatusArchived:  "Archived",
}

// SubjectLabel returns the display text for a subject code. Unknown codes
// are returned unchanged.
func SubjectLabel(subject string) string {
	if l, ok := subjectLabels[subject]; ok {
		return l
	}
	return subject
}

// StatusLabel returns the display text for a status code. Unknown codes are
// returned unchanged.
func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}
