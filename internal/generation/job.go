// Package generation runs design generation: a PENDING row is created synchronously and a detached
// task drives it through PROCESSING to COMPLETED or FAILED.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"interior-design-backend/internal/ai"
	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
	"interior-design-backend/internal/observability"
)

// DefaultFailureMessage is recorded when a failure carries no message of its own.
const DefaultFailureMessage = "Design generation failed"

// DesignStore is the persistence the job needs. Updates are transition-shaped only.
type DesignStore interface {
	CreateDesign(ctx context.Context, design *models.Design) error
	GetDesign(ctx context.Context, designID uuid.UUID) (*models.Design, error)
	MarkDesignProcessing(ctx context.Context, designID uuid.UUID) error
	MarkDesignCompleted(ctx context.Context, designID uuid.UUID, result models.DesignResult) error
	MarkDesignFailed(ctx context.Context, designID uuid.UUID, processingTime int64, message string) error
	ListDesigns(ctx context.Context, userID uuid.UUID, filter models.DesignFilter, page, limit int) ([]models.Design, int64, error)
	DeleteDesign(ctx context.Context, designID uuid.UUID) error
}

type RoomLookup interface {
	GetRoomWithProject(ctx context.Context, roomID uuid.UUID) (*models.RoomWithOwner, error)
}

// Authorizer is the subset of authz.Gate the job applies.
type Authorizer interface {
	Room(ctx context.Context, userID, roomID uuid.UUID) error
	Design(ctx context.Context, userID, designID uuid.UUID) error
}

type Config struct {
	DefaultProvider string
	// Timeout bounds a single provider call. Zero disables it.
	Timeout time.Duration
}

type InitiateInput struct {
	RoomID       uuid.UUID
	CustomPrompt *string
	AIProvider   *string
}

// Overrides replace the original design's prompt or provider on regeneration.
type Overrides struct {
	CustomPrompt *string
	AIProvider   *string
}

type Job struct {
	store     DesignStore
	rooms     RoomLookup
	gate      Authorizer
	providers *ai.Registry
	log       *logger.Logger
	cfg       Config
	tracer    trace.Tracer

	wg       sync.WaitGroup
	inflight atomic.Int64
	now      func() time.Time
}

func NewJob(store DesignStore, rooms RoomLookup, gate Authorizer, providers *ai.Registry, log *logger.Logger, cfg Config) *Job {
	cfg.DefaultProvider = strings.ToUpper(strings.TrimSpace(cfg.DefaultProvider))
	return &Job{
		store:     store,
		rooms:     rooms,
		gate:      gate,
		providers: providers,
		log:       log.With("component", "generation"),
		cfg:       cfg,
		tracer:    observability.Tracer(),
		now:       time.Now,
	}
}

// snapshot is everything the detached task needs. It never reads the room again.
type snapshot struct {
	designID    uuid.UUID
	provider    string
	input       ai.PromptInput
	sourceImage *string
}

// Initiate creates a PENDING design for the room and schedules generation. It returns without
// waiting for the provider.
func (j *Job) Initiate(ctx context.Context, userID uuid.UUID, in InitiateInput) (*models.Design, error) {
	if in.RoomID == uuid.Nil {
		return nil, apperr.Validation("roomId is required")
	}
	provider, err := j.resolveProvider(in.AIProvider)
	if err != nil {
		return nil, err
	}
	customPrompt := trimmed(in.CustomPrompt)

	if err := j.gate.Room(ctx, userID, in.RoomID); err != nil {
		return nil, err
	}
	owner, err := j.rooms.GetRoomWithProject(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}

	design := &models.Design{
		RoomID:     in.RoomID,
		AIProvider: provider,
		Status:     models.DesignStatusPending,
	}
	if customPrompt != nil {
		design.Prompt = *customPrompt
	}
	if err := j.store.CreateDesign(ctx, design); err != nil {
		return nil, err
	}

	j.log.Info("design generation requested",
		"design_id", design.ID, "room_id", in.RoomID, "user_id", userID, "provider", provider)

	j.spawn(ctx, snapshot{
		designID:    design.ID,
		provider:    provider,
		input:       promptInput(owner, customPrompt),
		sourceImage: owner.Room.ImageURL,
	})
	return design, nil
}

// Regenerate starts a new design for the same room. The original row is left untouched.
func (j *Job) Regenerate(ctx context.Context, designID, userID uuid.UUID, o Overrides) (*models.Design, error) {
	if err := j.gate.Design(ctx, userID, designID); err != nil {
		return nil, err
	}
	original, err := j.store.GetDesign(ctx, designID)
	if err != nil {
		return nil, err
	}

	in := InitiateInput{RoomID: original.RoomID, CustomPrompt: trimmed(o.CustomPrompt), AIProvider: o.AIProvider}
	if in.CustomPrompt == nil && original.Prompt != "" {
		prompt := original.Prompt
		in.CustomPrompt = &prompt
	}
	if in.AIProvider == nil || strings.TrimSpace(*in.AIProvider) == "" {
		provider := original.AIProvider
		in.AIProvider = &provider
	}
	return j.Initiate(ctx, userID, in)
}

func (j *Job) Get(ctx context.Context, designID, userID uuid.UUID) (*models.Design, error) {
	if err := j.gate.Design(ctx, userID, designID); err != nil {
		return nil, err
	}
	return j.store.GetDesign(ctx, designID)
}

// List only ever returns designs in userID's own projects. A roomId filter is gate-checked first.
func (j *Job) List(ctx context.Context, userID uuid.UUID, filter models.DesignFilter, page, limit int) ([]models.Design, models.Pagination, error) {
	if filter.RoomID != nil {
		if err := j.gate.Room(ctx, userID, *filter.RoomID); err != nil {
			return nil, models.Pagination{}, err
		}
	}
	page, limit = models.NormalizePage(page, limit)
	designs, total, err := j.store.ListDesigns(ctx, userID, filter, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return designs, models.NewPagination(page, limit, total), nil
}

func (j *Job) Delete(ctx context.Context, designID, userID uuid.UUID) error {
	if err := j.gate.Design(ctx, userID, designID); err != nil {
		return err
	}
	if err := j.store.DeleteDesign(ctx, designID); err != nil {
		return err
	}
	j.log.Info("design deleted", "design_id", designID, "user_id", userID)
	return nil
}

// Wait blocks until every scheduled task has finished.
func (j *Job) Wait() {
	j.wg.Wait()
}

// Shutdown waits for in-flight tasks or gives up when ctx ends.
func (j *Job) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%d generation tasks still running: %w", j.inflight.Load(), ctx.Err())
	}
}

func (j *Job) resolveProvider(requested *string) (string, error) {
	provider := j.cfg.DefaultProvider
	if requested != nil && strings.TrimSpace(*requested) != "" {
		provider = strings.ToUpper(strings.TrimSpace(*requested))
	}
	if !models.IsValidAIProvider(provider) {
		return "", apperr.Validation("aiProvider must be one of %s", strings.Join(models.AIProviders, ", "))
	}
	if !j.providers.Has(provider) {
		return "", apperr.Validation("ai provider %s is not configured", provider)
	}
	return provider, nil
}

func (j *Job) spawn(ctx context.Context, s snapshot) {
	// Request cancellation must not abort the task, but trace and log values carry over.
	detached := context.WithoutCancel(ctx)
	j.wg.Add(1)
	j.inflight.Add(1)
	go func() {
		defer j.wg.Done()
		defer j.inflight.Add(-1)
		j.run(detached, s)
	}()
}

// run drives one design to a terminal state. Nothing escapes it.
func (j *Job) run(ctx context.Context, s snapshot) {
	ctx, span := j.tracer.Start(ctx, "generation.run", trace.WithAttributes(
		attribute.String("design.id", s.designID.String()),
		attribute.String("ai.provider", s.provider),
	))
	defer span.End()
	log := j.log.With("design_id", s.designID, "provider", s.provider)

	start := j.now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("generation task panicked", "panic", r)
			span.SetStatus(codes.Error, "panic")
			j.recordFailure(ctx, log, s.designID, j.elapsed(start), DefaultFailureMessage)
		}
	}()

	if err := j.store.MarkDesignProcessing(ctx, s.designID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) || apperr.IsKind(err, apperr.KindInvalidTransition) {
			log.Warn("design no longer pending, skipping generation", "error", err)
			return
		}
		log.Error("failed to mark design processing", "error", err)
		j.recordFailure(ctx, log, s.designID, j.elapsed(start), DefaultFailureMessage)
		return
	}

	result, err := j.generate(ctx, s)
	elapsed := j.elapsed(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("design generation failed", "error", err, "processing_ms", elapsed)
		j.recordFailure(ctx, log, s.designID, elapsed, failureMessage(err))
		return
	}

	metadata := make(map[string]interface{}, len(result.Metadata)+1)
	for k, v := range result.Metadata {
		metadata[k] = v
	}
	metadata["allImageUrls"] = result.ImageURLs
	prompt := strings.TrimSpace(result.Prompt)
	if prompt == "" {
		prompt = ai.BuildPrompt(s.input)
	}

	err = j.store.MarkDesignCompleted(ctx, s.designID, models.DesignResult{
		ImageURL:       result.ImageURLs[0],
		Prompt:         prompt,
		Metadata:       metadata,
		ProcessingTime: elapsed,
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) || apperr.IsKind(err, apperr.KindInvalidTransition) {
			log.Warn("design resolved elsewhere, dropping result", "error", err)
			return
		}
		log.Error("failed to record completed design", "error", err)
		j.recordFailure(ctx, log, s.designID, elapsed, DefaultFailureMessage)
		return
	}
	log.Info("design generation completed", "processing_ms", elapsed, "images", len(result.ImageURLs))
}

// generate calls the provider under the configured timeout. A provider that ignores its context
// is abandoned when the deadline passes.
func (j *Job) generate(ctx context.Context, s snapshot) (*ai.Result, error) {
	provider, err := j.providers.Get(ctx, s.provider)
	if err != nil {
		return nil, err
	}
	if j.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.Timeout)
		defer cancel()
	}

	type outcome struct {
		result *ai.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("provider panicked: %v", r)}
			}
		}()
		res, err := provider.Generate(ctx, s.input, ai.Options{Provider: s.provider, InputImageURL: s.sourceImage})
		done <- outcome{result: res, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = outcome{err: ctx.Err()}
	}
	if out.err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("generation timed out after %s", j.cfg.Timeout)
		}
		return nil, out.err
	}
	if out.result == nil || len(out.result.ImageURLs) == 0 || out.result.ImageURLs[0] == "" {
		return nil, errors.New("provider returned no images")
	}
	return out.result, nil
}

// recordFailure is the best-effort FAILED write. If it fails the row keeps its last written state.
func (j *Job) recordFailure(ctx context.Context, log *logger.Logger, designID uuid.UUID, elapsed int64, message string) {
	err := j.store.MarkDesignFailed(ctx, designID, elapsed, message)
	if err == nil {
		return
	}
	if apperr.IsKind(err, apperr.KindNotFound) || apperr.IsKind(err, apperr.KindInvalidTransition) {
		log.Warn("design resolved elsewhere, failure not recorded", "error", err)
		return
	}
	log.Error("failed to record design failure, design left in last written state", "error", err, "message", message)
}

func (j *Job) elapsed(start time.Time) int64 {
	return j.now().Sub(start).Milliseconds()
}

func promptInput(owner *models.RoomWithOwner, customPrompt *string) ai.PromptInput {
	materials := append([]string(nil), owner.Room.Materials...)
	return ai.PromptInput{
		RoomType: owner.Room.Type,
		Style:    owner.Project.Style,
		Dimensions: ai.Dimensions{
			Length: owner.Room.Length,
			Width:  owner.Room.Width,
			Height: owner.Room.Height,
		},
		Materials:    materials,
		AmbientColor: owner.Room.AmbientColor,
		CustomPrompt: customPrompt,
	}
}

func failureMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return DefaultFailureMessage
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
