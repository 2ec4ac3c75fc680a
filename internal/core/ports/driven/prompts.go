package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
// Templates use text/template syntax; the fields available are listed per prompt.
const (
	// PromptFactsSystem is the system prompt for fact extraction. No fields.
	PromptFactsSystem = "facts_system"

	// PromptFacts extracts chronological facts from one corpus chunk.
	// Fields: .CaseName .CaseNumber .Part .Parts .Chunk
	PromptFacts = "facts"

	// PromptLegalSystem is the system prompt for every analysis call. No fields.
	PromptLegalSystem = "legal_system"

	// PromptTagEvents classifies facts into legal-event tags.
	// Fields: .Tags .Facts
	PromptTagEvents = "tag_events"

	// PromptIssues spots issues and defenses from tagged events.
	// Fields: .TaggedEvents
	PromptIssues = "issues"

	// PromptMotion drafts the motion.
	// Fields: .Title .CaseName .CaseNumber .Facts .Issues .Defenses .Caselaw .Opening
	PromptMotion = "motion"
)
