// Package pipeline runs the single linear pass from an input file to a
// persisted run folder: snapshot, fact extraction, deterministic
// retrieval, prompt packing, generation, validation, and at most one
// corrective retry. The second generation result is accepted
// unconditionally; a run never calls the backend more than twice.
package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"partdoc/internal/config"
	"partdoc/internal/corpus"
	"partdoc/internal/digest"
	"partdoc/internal/errors"
	"partdoc/internal/events"
	"partdoc/internal/fs"
	"partdoc/internal/ids"
	"partdoc/internal/input"
	"partdoc/internal/ir"
	"partdoc/internal/llm"
	"partdoc/internal/prompt"
	"partdoc/internal/render"
	"partdoc/internal/store"
	"partdoc/internal/validate"
)

// Pipeline wires the run components together. All dependencies are
// injected so tests can run with a fake provider and a temp workspace.
type Pipeline struct {
	FS       fs.FS
	Config   config.Config
	Provider llm.Provider
	Store    *store.Store
	Log      *zap.Logger
	Now      func() time.Time
}

// New builds a Pipeline over the given filesystem, config, and provider.
func New(fsys fs.FS, cfg config.Config, provider llm.Provider, log *zap.Logger, now func() time.Time) *Pipeline {
	return &Pipeline{
		FS:       fsys,
		Config:   cfg,
		Provider: provider,
		Store:    store.NewStore(fsys, cfg.Paths.Outputs, now),
		Log:      log,
		Now:      now,
	}
}

// Result summarizes a completed run for the caller.
type Result struct {
	RunID      string
	RunDir     string
	Status     string
	Attempts   int
	RetryUsed  bool
	Validation validate.Outcome
	OutputPath string
}

// generationLog is the generation.json model.
type generationLog struct {
	Provider        string         `json:"provider"`
	Model           string         `json:"model"`
	MaxTokens       int            `json:"max_tokens"`
	Attempts        int            `json:"attempts"`
	RetryUsed       bool           `json:"retry_used"`
	RetryPromptFile string         `json:"retry_prompt_file,omitempty"`
	Validation      validationLog  `json:"validation"`
	AttemptDetails  []attemptEntry `json:"attempt_details"`
	Notes           string         `json:"notes"`
}

type validationLog struct {
	OK      bool            `json:"ok"`
	Missing []validate.Item `json:"missing"`
}

type attemptEntry struct {
	Attempt    int   `json:"attempt"`
	DurationMs int64 `json:"duration_ms"`
	OK         bool  `json:"validation_ok"`
}

// Run executes one pipeline pass for inputPath.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (Result, error) {
	started := p.Now()

	rawData, err := p.FS.ReadFile(inputPath)
	if err != nil {
		return Result{}, errors.WrapWithDetails(errors.EInputNotFound,
			"input not found", err,
			map[string]string{"input": inputPath})
	}
	rawText := string(rawData)
	inputType := input.DetectType(inputPath)

	runID, err := p.createRunDir(inputPath)
	if err != nil {
		return Result{}, err
	}
	log := p.Log.With(zap.String("run_id", runID), zap.String("input", inputPath))
	log.Info("run started", zap.String("provider", p.Provider.Name()))

	p.event(runID, events.RunStarted, map[string]any{
		"input":    inputPath,
		"provider": p.Provider.Name(),
		"model":    p.Config.App.DefaultModel,
	})

	result, err := p.execute(ctx, runID, inputPath, inputType, rawText, started, log)
	if err != nil {
		p.event(runID, events.RunFinished,
			events.FinishData(store.StatusFailed, string(errors.GetCode(err)), p.sinceMs(started)))
		p.recordFailure(runID, inputPath, inputType, started, err)
		return Result{}, err
	}

	p.event(runID, events.RunFinished, events.FinishData(result.Status, "", p.sinceMs(started)))
	log.Info("run finished",
		zap.String("status", result.Status),
		zap.Int("attempts", result.Attempts),
	)
	return result, nil
}

// execute performs every step after the run folder exists.
func (p *Pipeline) execute(ctx context.Context, runID, inputPath string, inputType input.Type, rawText string, started time.Time, log *zap.Logger) (Result, error) {
	// Snapshot the input verbatim for traceability.
	ext := filepath.Ext(inputPath)
	snapshot := p.Store.InputPath(runID, ext)
	if err := fs.WriteFileAtomic(p.FS, snapshot, []byte(rawText), 0o644); err != nil {
		return Result{}, errors.WrapWithDetails(errors.EPersistFailed,
			"snapshot input", err, map[string]string{"run_id": runID, "path": snapshot})
	}
	p.event(runID, events.InputSnapshotted, map[string]any{"path": filepath.Base(snapshot)})

	// Fact extraction.
	doc := ir.Extract(rawText, inputPath, inputType)
	irData, err := ir.Marshal(doc)
	if err != nil {
		return Result{}, err
	}
	if err := p.Store.WriteArtifact(runID, store.FileIR, irData); err != nil {
		return Result{}, err
	}
	if err := p.Store.WriteArtifact(runID, store.FileIRSummary, []byte(ir.Summary(doc))); err != nil {
		return Result{}, err
	}
	p.event(runID, events.IRExtracted, map[string]any{
		"source_type": doc.Source.Type,
		"materials":   len(doc.Materials),
		"tolerances":  len(doc.Tolerances),
		"features":    len(doc.Features),
	})

	// Deterministic retrieval. A missing corpus category aborts here,
	// before any generation call.
	sel, err := corpus.Retrieve(p.FS, p.Config.Paths.Corpus, corpus.Limits{
		MaxExemplars:   p.Config.Limits.MaxExemplars,
		MaxCharsPerDoc: p.Config.Limits.MaxCharsPerDoc,
	})
	if err != nil {
		return Result{}, err
	}
	logData, err := json.MarshalIndent(sel.Log(p.Config.Paths.Corpus), "", "  ")
	if err != nil {
		return Result{}, errors.Wrap(errors.EInternal, "marshal selection log", err)
	}
	if err := p.Store.WriteArtifact(runID, store.FileRetrieved, logData); err != nil {
		return Result{}, err
	}
	p.event(runID, events.CorpusRetrieved, map[string]any{
		"retriever": corpus.RetrieverName,
		"exemplars": len(sel.Exemplars),
	})

	// Prompt packing.
	template, err := prompt.LoadTemplate(p.FS, p.Config.Paths.PromptTemplate)
	if err != nil {
		return Result{}, err
	}
	contextText := sel.ContextText()
	defaultsText := sel.ApprovedDefaultsText()
	factsText := ir.FormatFacts(doc)
	packed := prompt.Pack(template, prompt.Inputs{
		Request:          rawText,
		Facts:            factsText,
		ApprovedDefaults: defaultsText,
		Context:          contextText,
		IRJSON:           string(irData),
	})
	if err := p.Store.WriteArtifact(runID, store.FilePrompt, []byte(packed)); err != nil {
		return Result{}, err
	}
	p.event(runID, events.PromptPacked, map[string]any{"chars": len(packed)})

	// Everything the generator was shown; the style lint checks claims
	// against this union.
	sourceMaterial := strings.Join([]string{rawText, factsText, contextText, defaultsText}, "\n")

	// Attempt 1.
	text, firstMs, err := p.generate(ctx, runID, packed, 1)
	if err != nil {
		return Result{}, err
	}
	outcome := validate.Validate(text, defaultsText, sourceMaterial)
	p.event(runID, events.ValidationDone, events.ValidationData(outcome.OK, 1, outcome.Messages()))

	attempts := 1
	details := []attemptEntry{{Attempt: 1, DurationMs: firstMs, OK: outcome.OK}}
	retryUsed := false

	if !outcome.OK {
		// One corrective retry; the second result is accepted
		// unconditionally even if it still fails validation.
		log.Warn("validation failed, retrying once", zap.Strings("missing", outcome.Messages()))
		retryPrompt := prompt.Repair(packed, outcome.Messages())
		if err := p.Store.WriteArtifact(runID, store.FileRetryPrompt, []byte(retryPrompt)); err != nil {
			return Result{}, err
		}
		p.event(runID, events.RetryStarted, map[string]any{"missing": outcome.Messages()})

		retryText, retryMs, err := p.generate(ctx, runID, retryPrompt, 2)
		if err != nil {
			return Result{}, err
		}
		text = retryText
		outcome = validate.Validate(text, defaultsText, sourceMaterial)
		attempts = 2
		retryUsed = true
		details = append(details, attemptEntry{Attempt: 2, DurationMs: retryMs, OK: outcome.OK})
		p.event(runID, events.ValidationDone, events.ValidationData(outcome.OK, 2, outcome.Messages()))
	}

	// Persist generation metadata and the final document.
	genLog := generationLog{
		Provider:       p.Provider.Name(),
		Model:          p.Config.App.DefaultModel,
		MaxTokens:      p.Config.Limits.MaxTokens,
		Attempts:       attempts,
		RetryUsed:      retryUsed,
		Validation:     validationLog{OK: outcome.OK, Missing: outcome.Missing},
		AttemptDetails: details,
		Notes:          "Lexical validator: exemplar-backed details are required when present in retrieved exemplars.",
	}
	if retryUsed {
		genLog.RetryPromptFile = store.FileRetryPrompt
	}
	genData, err := json.MarshalIndent(genLog, "", "  ")
	if err != nil {
		return Result{}, errors.Wrap(errors.EInternal, "marshal generation log", err)
	}
	if err := p.Store.WriteArtifact(runID, store.FileGeneration, genData); err != nil {
		return Result{}, err
	}

	output := strings.TrimSpace(text) + "\n"
	if err := p.Store.WriteArtifact(runID, store.FileOutput, []byte(output)); err != nil {
		return Result{}, err
	}
	// output.html is a best-effort supplement; output.md stays canonical.
	if html, err := render.OutputHTML(runID, []byte(output)); err == nil {
		if err := p.Store.WriteArtifact(runID, store.FileOutputHTML, html); err != nil {
			return Result{}, err
		}
	} else {
		log.Warn("html rendering skipped", zap.Error(err))
	}

	status := store.StatusValidated
	if !outcome.OK {
		status = store.StatusValidationFailed
	}

	meta := store.RunMeta{
		SchemaVersion: store.MetaSchemaVersion,
		RunID:         runID,
		CreatedAt:     started.UTC().Format(time.RFC3339),
		Input: store.InputMeta{
			Path:         inputPath,
			Type:         string(inputType),
			SnapshotFile: filepath.Base(snapshot),
		},
		Provider:   p.Provider.Name(),
		Model:      p.Config.App.DefaultModel,
		Status:     status,
		Attempts:   attempts,
		RetryUsed:  retryUsed,
		Validation: store.ValidationMeta{OK: outcome.OK, Missing: outcome.Messages()},
		Artifacts:  p.artifactDigests(runID),
	}
	if err := p.Store.WriteMeta(meta); err != nil {
		return Result{}, err
	}

	return Result{
		RunID:      runID,
		RunDir:     p.Store.RunDir(runID),
		Status:     status,
		Attempts:   attempts,
		RetryUsed:  retryUsed,
		Validation: outcome,
		OutputPath: p.Store.ArtifactPath(runID, store.FileOutput),
	}, nil
}

// generate calls the backend once and records the generation event.
func (p *Pipeline) generate(ctx context.Context, runID, promptText string, attempt int) (string, int64, error) {
	start := p.Now()
	text, err := p.Provider.Generate(ctx, promptText)
	elapsed := p.sinceMs(start)
	if err != nil {
		return "", elapsed, err
	}
	p.event(runID, events.GenerationDone,
		events.GenerationData(p.Provider.Name(), p.Config.App.DefaultModel, attempt, elapsed))
	return text, elapsed, nil
}

// createRunDir allocates a unique run folder. A timestamp collision gets
// one uuid-suffixed retry.
func (p *Pipeline) createRunDir(inputPath string) (string, error) {
	runID := ids.NewRunID(p.Now(), inputPath)
	err := p.Store.CreateRunDir(runID)
	if err == nil {
		return runID, nil
	}
	if errors.GetCode(err) != errors.ERunDirExists {
		return "", err
	}
	runID = ids.WithCollisionSuffix(runID)
	if err := p.Store.CreateRunDir(runID); err != nil {
		return "", err
	}
	return runID, nil
}

// artifactDigests hashes every persisted artifact: JCS-canonical sha256
// for JSON files, plain sha256 for text.
func (p *Pipeline) artifactDigests(runID string) map[string]string {
	digests := make(map[string]string)
	entries, err := p.FS.ReadDir(p.Store.RunDir(runID))
	if err != nil {
		return digests
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == store.FileMeta || name == store.FileEvents {
			continue
		}
		data, err := p.Store.ReadArtifact(runID, name)
		if err != nil {
			continue
		}
		if filepath.Ext(name) == ".json" {
			if d, err := digest.JSON(data); err == nil {
				digests[name] = d
				continue
			}
		}
		digests[name] = digest.Bytes(data)
	}
	return digests
}

// recordFailure persists a failed-run meta.json so ls/show can see the
// run. Best-effort: the original error is what the caller reports.
func (p *Pipeline) recordFailure(runID, inputPath string, inputType input.Type, started time.Time, runErr error) {
	meta := store.RunMeta{
		SchemaVersion: store.MetaSchemaVersion,
		RunID:         runID,
		CreatedAt:     started.UTC().Format(time.RFC3339),
		Input: store.InputMeta{
			Path: inputPath,
			Type: string(inputType),
		},
		Provider:  p.Provider.Name(),
		Model:     p.Config.App.DefaultModel,
		Status:    store.StatusFailed,
		ErrorCode: string(errors.GetCode(runErr)),
	}
	_ = p.Store.WriteMeta(meta)
}

func (p *Pipeline) event(runID, name string, data map[string]any) {
	// Event logging is best-effort and never fails a run.
	_ = events.Append(p.Store.EventsPath(runID), events.Event{
		SchemaVersion: events.SchemaVersion,
		Timestamp:     p.Now().UTC().Format(time.RFC3339),
		RunID:         runID,
		Event:         name,
		Data:          data,
	})
}

func (p *Pipeline) sinceMs(t time.Time) int64 {
	return p.Now().Sub(t).Milliseconds()
}
