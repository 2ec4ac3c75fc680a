package domain

import (
	"slices"
	"time"
)

// CaseState is the record handed from one workflow stage to the next.
// Stages never modify a CaseState in place: every With* method returns
// a copy with Version incremented.
type CaseState struct {
	ID           string
	CaseName     string
	CaseNumber   string
	Jurisdiction string
	MotionType   MotionType

	Corpus       CorpusDocument
	Facts        string
	TaggedEvents []TaggedEvent
	Issues       []string
	Defenses     []string
	Caselaw      []CaselawRef
	Motion       string

	Version   int
	UpdatedAt time.Time
}

// NewCaseState starts a workflow for one case.
func NewCaseState(id, caseName, caseNumber string) CaseState {
	return CaseState{
		ID:           id,
		CaseName:     caseName,
		CaseNumber:   caseNumber,
		Jurisdiction: DefaultJurisdiction,
		MotionType:   MotionSuppressStatements,
		Version:      1,
		UpdatedAt:    time.Now(),
	}
}

// next returns a deep copy with the version bumped.
func (s CaseState) next() CaseState {
	n := s
	n.Corpus = CorpusDocument{Sections: slices.Clone(s.Corpus.Sections)}
	n.TaggedEvents = slices.Clone(s.TaggedEvents)
	n.Issues = slices.Clone(s.Issues)
	n.Defenses = slices.Clone(s.Defenses)
	n.Caselaw = slices.Clone(s.Caselaw)
	n.Version = s.Version + 1
	n.UpdatedAt = time.Now()
	return n
}

// WithJurisdiction sets the court code used for caselaw and drafting.
func (s CaseState) WithJurisdiction(jurisdiction string) CaseState {
	n := s.next()
	if jurisdiction == "" {
		jurisdiction = DefaultJurisdiction
	}
	n.Jurisdiction = jurisdiction
	return n
}

// WithMotionType sets the drafting template.
func (s CaseState) WithMotionType(m MotionType) CaseState {
	n := s.next()
	n.MotionType = m
	return n
}

// WithCorpus records the intake output.
func (s CaseState) WithCorpus(corpus CorpusDocument) CaseState {
	n := s.next()
	n.Corpus = CorpusDocument{Sections: slices.Clone(corpus.Sections)}
	return n
}

// WithFacts records the extracted chronological facts.
func (s CaseState) WithFacts(facts string) CaseState {
	n := s.next()
	n.Facts = facts
	return n
}

// WithTaggedEvents records the tagging output.
func (s CaseState) WithTaggedEvents(events []TaggedEvent) CaseState {
	n := s.next()
	n.TaggedEvents = slices.Clone(events)
	return n
}

// WithAnalysis records spotted issues and defenses.
func (s CaseState) WithAnalysis(issues, defenses []string) CaseState {
	n := s.next()
	n.Issues = slices.Clone(issues)
	n.Defenses = slices.Clone(defenses)
	return n
}

// WithCaselaw records the retrieved opinions.
func (s CaseState) WithCaselaw(refs []CaselawRef) CaseState {
	n := s.next()
	n.Caselaw = slices.Clone(refs)
	return n
}

// WithMotion records the drafted motion.
func (s CaseState) WithMotion(motion string) CaseState {
	n := s.next()
	n.Motion = motion
	return n
}

// CaseRecord is the summary kept in the optional case history.
type CaseRecord struct {
	ID         string
	CaseName   string
	CaseNumber string
	Facts      string
	Issues     []string
	Defenses   []string
	Motion     string
	CreatedAt  time.Time
}

// Record extracts the history summary from a state.
func (s CaseState) Record() CaseRecord {
	return CaseRecord{
		ID:         s.ID,
		CaseName:   s.CaseName,
		CaseNumber: s.CaseNumber,
		Facts:      s.Facts,
		Issues:     slices.Clone(s.Issues),
		Defenses:   slices.Clone(s.Defenses),
		Motion:     s.Motion,
		CreatedAt:  s.UpdatedAt,
	}
}
