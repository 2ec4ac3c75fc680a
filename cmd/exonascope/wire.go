package main

import (
	"fmt"
	"path/filepath"

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/ai"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/config/environment"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/config/file"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/media/ffmpeg"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/ocr/tesseract"
	docxrender "github.com/exonascope/exonascope-cli/internal/adapters/driven/render/docx"
	pdfrender "github.com/exonascope/exonascope-cli/internal/adapters/driven/render/pdf"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/runner"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/storage/sqlite"
	"github.com/exonascope/exonascope-cli/internal/adapters/driving/cli"
	"github.com/exonascope/exonascope-cli/internal/connectors/filesystem"
	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
	"github.com/exonascope/exonascope-cli/internal/core/services"
	"github.com/exonascope/exonascope-cli/internal/extractors"
	"github.com/exonascope/exonascope-cli/internal/extractors/audio"
	"github.com/exonascope/exonascope-cli/internal/extractors/docx"
	"github.com/exonascope/exonascope-cli/internal/extractors/pdf"
	"github.com/exonascope/exonascope-cli/internal/extractors/video"
	"github.com/exonascope/exonascope-cli/internal/logger"
	"github.com/exonascope/exonascope-cli/internal/postprocessors"
)

// wire builds every service from config.toml layered with the environment.
func wire(configDir string) (*cli.Services, func() error, error) {
	if err := environment.LoadDotEnv(".env"); err != nil {
		return nil, nil, err
	}
	vars, err := environment.Parse()
	if err != nil {
		return nil, nil, err
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	vars.Apply(settings)
	if err := settings.Intake.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid settings: %w", err)
	}
	if err := settings.Transcription.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid settings: %w", err)
	}

	clients := ai.Init(settings)
	for _, w := range clients.Warnings {
		logger.Warn("%s", w)
	}
	logConfigured("LLM", clients.LLMService != nil)
	logConfigured("transcription", clients.SpeechToText != nil || clients.Transcriber != nil)

	run := runner.New()
	transcriber := clients.Transcriber
	if transcriber == nil {
		transcriber = services.NewTranscriptionService(clients.SpeechToText,
			services.WithPollInterval(settings.Intake.PollInterval),
			services.WithMaxPollAttempts(settings.Intake.MaxPollAttempts),
		)
	}
	intake := services.NewIntakeService(newExtractorRegistry(run, settings, transcriber), settings.Intake.Workers)
	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(configStore.Path()), "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("open prompts: %w", err)
	}
	procs := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(procs)
	pipeline, err := procs.BuildPipeline(settings.Pipeline)
	if err != nil {
		return nil, nil, err
	}

	svc := &cli.Services{
		Intake:   intake,
		Analysis: services.NewAnalysisService(clients.LLMService, prompts, pipeline, clients.Caselaw, settings.Caselaw.ResultsPerIssue),
		Export:   services.NewExportService(docxrender.New(), pdfrender.New()),
		Settings: settingsService,
		Uploads: services.NewUploadService(func(dir string) driven.UploadSource {
			return filesystem.New(dir)
		}, intake),
		Diagnostics: services.NewDiagnosticsService(*settings, run, clients.LLMService),
		OpenHistory: openHistory,
	}

	return svc, clients.Close, nil
}

func newExtractorRegistry(run *runner.ExecRunner, settings *domain.AppSettings, transcriber driven.Transcriber) *extractors.Registry {
	in := settings.Intake
	media := ffmpeg.New(run, ffmpeg.WithFFmpegPath(in.FFmpegPath), ffmpeg.WithFFprobePath(in.FFprobePath))

	return extractors.NewRegistry(
		pdf.New(
			tesseract.NewRasteriser(run, services.RasteriserTool),
			tesseract.NewEngine(run, services.OCRTool),
			pdf.WithDPI(in.OCRDPI),
			pdf.WithPageSegMode(in.OCRPageSegMode),
			pdf.WithTempDir(in.TempDir),
		),
		docx.New(),
		audio.New(transcriber, in.TempDir),
		video.New(media, media, media, transcriber,
			video.WithCompression(in.CompressAudio),
			video.WithTempDir(in.TempDir),
		),
	)
}

// logConfigured notes a disabled client; audio and video then fail
// extraction with ErrTranscriptionUnavailable and analysis with
// ErrLLMUnavailable.
func logConfigured(name string, ok bool) {
	if !ok {
		logger.Debug("%s disabled: no API key", name)
	}
}

func openHistory(path string) (driving.HistoryService, func() error, error) {
	store, err := sqlite.NewStore(path)
	if err != nil {
		return nil, nil, err
	}
	return services.NewHistoryService(store.HistoryStore()), store.Close, nil
}
