package domain

// LegalEventTag is a category assigned to a fact during tagging.
type LegalEventTag string

// The closed set of tags the tagging prompt may use.
const (
	TagTrafficStop            LegalEventTag = "Traffic Stop"
	TagInvestigativeDetention LegalEventTag = "Investigative Detention"
	TagSearch                 LegalEventTag = "Search (Consent/Warrant/No Consent)"
	TagArrest                 LegalEventTag = "Arrest"
	TagInterrogation          LegalEventTag = "Interrogation"
	TagMirandaWarning         LegalEventTag = "Miranda Warning"
	TagStatement              LegalEventTag = "Statement (Incriminating/Exculpatory)"
	TagUseOfForce             LegalEventTag = "Use of Force"
	TagSeizureOfProperty      LegalEventTag = "Seizure of Property"
	TagProbableCause          LegalEventTag = "Probable Cause Determination"
)

// LegalEventTags lists every tag in prompt order.
func LegalEventTags() []LegalEventTag {
	return []LegalEventTag{
		TagTrafficStop,
		TagInvestigativeDetention,
		TagSearch,
		TagArrest,
		TagInterrogation,
		TagMirandaWarning,
		TagStatement,
		TagUseOfForce,
		TagSeizureOfProperty,
		TagProbableCause,
	}
}

// IsValid returns true if the tag is in the closed set.
func (t LegalEventTag) IsValid() bool {
	for _, known := range LegalEventTags() {
		if t == known {
			return true
		}
	}
	return false
}

// TaggedEvent pairs a fact with its category.
type TaggedEvent struct {
	Fact string        `json:"fact"`
	Tag  LegalEventTag `json:"tag"`
}

// CaselawRef is one opinion returned by the caselaw search.
type CaselawRef struct {
	Name     string `json:"name"`
	Citation string `json:"citation"`
	Court    string `json:"court"`
	URL      string `json:"url"`
}

// MotionType selects the drafting template.
type MotionType string

// Supported motion types.
const (
	MotionSuppressStatements MotionType = "suppress_statements"
	MotionSuppressEvidence   MotionType = "suppress_evidence"
	MotionDismissCase        MotionType = "dismiss_case"
)

// IsValid returns true if the motion type is recognised.
func (m MotionType) IsValid() bool {
	switch m {
	case MotionSuppressStatements, MotionSuppressEvidence, MotionDismissCase:
		return true
	default:
		return false
	}
}

// Title returns the caption used in the drafted motion.
func (m MotionType) Title() string {
	switch m {
	case MotionSuppressStatements:
		return "Motion to Suppress Statements"
	case MotionSuppressEvidence:
		return "Motion to Suppress Physical Evidence"
	case MotionDismissCase:
		return "Motion to Dismiss Case"
	default:
		return "Motion to Suppress"
	}
}

// DefaultJurisdiction is the CourtListener court code used when none is given.
const DefaultJurisdiction = "vi"

// JurisdictionLanguage returns the opening line of the argument section.
func JurisdictionLanguage(jurisdiction string) string {
	switch jurisdiction {
	case "vi":
		return "Pursuant to the Revised Organic Act and Title 5 of the Virgin Islands Code..."
	case "3rd":
		return "Under precedents from the Third Circuit Court of Appeals..."
	default:
		return "Under established federal constitutional principles..."
	}
}
