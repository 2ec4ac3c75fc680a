// Package extractors turns uploaded case materials into plain text.
// Each extractor handles one media kind; the Registry classifies a file
// and dispatches it to the matching extractor.
//
// Extractors are registered with the Registry at startup.
package extractors
