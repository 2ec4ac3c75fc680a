// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Turns one IntakeFile of a given MediaKind into text
//   - ExtractorRegistry: Classifies a file and selects its extractor
//   - CommandRunner: Runs external programs (ffmpeg, tesseract, pdftoppm)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SpeechToText / Transcriber: Without them, audio and video files fail extraction.
//   - PageRasteriser / OCREngine: Without them, image-only PDFs are reported as empty.
//   - LLMService: Without it, fact extraction and drafting are disabled.
//   - CaselawSearcher: Without it, motions are drafted with no citations.
//   - CaseHistoryStore: Without it, nothing is persisted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
