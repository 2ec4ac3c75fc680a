package domain

import "strings"

// ExtractionStatus is the outcome class of one extraction.
type ExtractionStatus string

// Extraction statuses.
const (
	StatusOK                 ExtractionStatus = "ok"
	StatusEmptyUnextractable ExtractionStatus = "empty_unextractable"
	StatusUnsupportedType    ExtractionStatus = "unsupported_type"
	StatusFailed             ExtractionStatus = "failed"
)

// ExtractionResult is the outcome of processing one IntakeFile.
// Text is set only when Status is StatusOK; Failure is set only when
// Status is StatusFailed. Use the constructors to keep that invariant.
type ExtractionResult struct {
	// SourceName echoes IntakeFile.Name.
	SourceName string

	// Kind is the dispatcher classification.
	Kind MediaKind

	// Status is the outcome class.
	Status ExtractionStatus

	// Text is the extracted text.
	Text string

	// Failure describes why a Failed extraction failed.
	Failure *ExtractionError
}

// OKResult builds a successful result. Whitespace-only text is
// reported as EmptyUnextractable instead.
func OKResult(name string, kind MediaKind, text string) ExtractionResult {
	if strings.TrimSpace(text) == "" {
		return EmptyResult(name, kind)
	}
	return ExtractionResult{SourceName: name, Kind: kind, Status: StatusOK, Text: text}
}

// EmptyResult builds a result for a file that yielded no text.
func EmptyResult(name string, kind MediaKind) ExtractionResult {
	return ExtractionResult{SourceName: name, Kind: kind, Status: StatusEmptyUnextractable}
}

// UnsupportedResult builds a result for a file the dispatcher rejected.
func UnsupportedResult(name string) ExtractionResult {
	return ExtractionResult{SourceName: name, Kind: KindUnsupported, Status: StatusUnsupportedType}
}

// FailedResult builds a result for a file whose extraction failed.
func FailedResult(name string, kind MediaKind, failure *ExtractionError) ExtractionResult {
	return ExtractionResult{SourceName: name, Kind: kind, Status: StatusFailed, Failure: failure}
}

// OK returns true if the result carries text.
func (r ExtractionResult) OK() bool {
	return r.Status == StatusOK
}

// Reason returns a human-readable explanation for a non-OK result.
func (r ExtractionResult) Reason() string {
	switch r.Status {
	case StatusOK:
		return ""
	case StatusEmptyUnextractable:
		return ErrEmptyExtraction.Error()
	case StatusUnsupportedType:
		return ErrUnsupportedType.Error()
	case StatusFailed:
		if r.Failure != nil {
			return r.Failure.Error()
		}
		return string(StatusFailed)
	default:
		return string(r.Status)
	}
}

// Err returns the result as an error, or nil when OK.
func (r ExtractionResult) Err() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusEmptyUnextractable:
		return ErrEmptyExtraction
	case StatusUnsupportedType:
		return ErrUnsupportedType
	default:
		if r.Failure != nil {
			return r.Failure
		}
		return NewExtractionError(StageUnsupported, nil)
	}
}

// CorpusSection is one source-tagged block of a corpus.
type CorpusSection struct {
	SourceName string
	Text       string
}

// CorpusDocument is the concatenation of every successful extraction
// for one case, in upload order.
type CorpusDocument struct {
	Sections []CorpusSection
}

// NewCorpus collects the OK results, preserving their order.
func NewCorpus(results []ExtractionResult) CorpusDocument {
	var corpus CorpusDocument
	for _, r := range results {
		if r.OK() {
			corpus.Sections = append(corpus.Sections, CorpusSection{SourceName: r.SourceName, Text: r.Text})
		}
	}
	return corpus
}

// IsEmpty returns true when no file contributed text.
func (c CorpusDocument) IsEmpty() bool {
	return len(c.Sections) == 0
}

// SourceNames returns section names in order.
func (c CorpusDocument) SourceNames() []string {
	names := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		names[i] = s.SourceName
	}
	return names
}

// String renders each section as "[name]\ntext", separated by a blank line.
func (c CorpusDocument) String() string {
	var b strings.Builder
	for i, s := range c.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(s.SourceName)
		b.WriteString("]\n")
		b.WriteString(s.Text)
	}
	return b.String()
}

// IntakeReport is the full outcome of one aggregation run.
type IntakeReport struct {
	// Results holds one entry per input file, in upload order.
	Results []ExtractionResult

	// Corpus holds the OK results.
	Corpus CorpusDocument
}

// NewIntakeReport builds a report from ordered results.
func NewIntakeReport(results []ExtractionResult) *IntakeReport {
	return &IntakeReport{
		Results: results,
		Corpus:  NewCorpus(results),
	}
}

// Warnings returns every non-OK result, in upload order.
func (r *IntakeReport) Warnings() []ExtractionResult {
	var out []ExtractionResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Chunk is a fixed-size slice of corpus text handed to the LLM.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the corpus.
	Position int
}

// TextDocument is the text handed through the post-processor pipeline.
// Processors may rewrite Content before it is chunked.
type TextDocument struct {
	ID      string
	Content string
}
