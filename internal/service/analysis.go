package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/langchou/apexgazer/internal/api/livetiming"
	"github.com/langchou/apexgazer/internal/models"
	"github.com/langchou/apexgazer/internal/telemetry"
)

// timingClient is the acquisition collaborator.
type timingClient interface {
	GetSession(ctx context.Context, year int, event, sessionType string) (*livetiming.SessionInfo, error)
	ListLaps(ctx context.Context, sessionKey string) ([]livetiming.LapData, error)
	GetLapTelemetry(ctx context.Context, sessionKey, driver string, lapNumber int) ([]livetiming.SampleData, error)
}

// Cache store views. Satisfied by the repository package.
type sessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByKey(ctx context.Context, year int, event string, sessionType models.SessionType) (*models.Session, error)
	List(ctx context.Context) ([]*models.Session, error)
	Delete(ctx context.Context, id int64) error
}

type lapStore interface {
	Create(ctx context.Context, lap *models.Lap) error
	ListBySessionID(ctx context.Context, sessionID int64) ([]*models.Lap, error)
}

type sampleStore interface {
	CreateBatch(ctx context.Context, samples []models.TelemetrySample) error
	ListByLapID(ctx context.Context, lapID int64) ([]models.TelemetrySample, error)
}

// errCacheMiss signals a session cache miss internally.
var errCacheMiss = errors.New("service: session not cached")

// AnalyzeRequest selects one session. Combinations are not validated here;
// a combination without data surfaces as an acquisition failure.
type AnalyzeRequest struct {
	Year        int                `json:"year" binding:"required"`
	EventName   string             `json:"event_name" binding:"required"`
	SessionType models.SessionType `json:"session_type" binding:"required"`
}

// AnalysisReport is the full result for one analysis request: the fastest
// lap's scalar metrics plus the annotated series the dashboard charts from.
type AnalysisReport struct {
	Session    models.Session        `json:"session"`
	Lap        models.Lap            `json:"lap"`
	Metrics    models.DerivedMetrics `json:"metrics"`
	DRS        *models.DRSReport     `json:"drs,omitempty"`
	Comparison *models.LapComparison `json:"comparison,omitempty"`
	Samples    []telemetry.Annotated `json:"samples"`
}

// AnalysisService orchestrates one analysis request: resolve the session
// cache-first, pick the fastest lap, run the derivation pipeline, assemble
// the report. Requests run synchronously; the job manager only tracks
// progress for the dashboard.
type AnalysisService struct {
	logger      *zap.Logger
	timing      timingClient
	sessionRepo sessionStore
	lapRepo     lapStore
	sampleRepo  sampleStore
	jobs        *JobManager
}

// NewAnalysisService creates the analysis service.
func NewAnalysisService(
	logger *zap.Logger,
	timing timingClient,
	sessionRepo sessionStore,
	lapRepo lapStore,
	sampleRepo sampleStore,
	jobs *JobManager,
) *AnalysisService {
	return &AnalysisService{
		logger:      logger,
		timing:      timing,
		sessionRepo: sessionRepo,
		lapRepo:     lapRepo,
		sampleRepo:  sampleRepo,
		jobs:        jobs,
	}
}

// Jobs exposes the job manager for status lookups.
func (s *AnalysisService) Jobs() *JobManager {
	return s.jobs
}

// CachedSessions lists the sessions already in the local store.
func (s *AnalysisService) CachedSessions(ctx context.Context) ([]*models.Session, error) {
	return s.sessionRepo.List(ctx)
}

// SessionLaps lists a cached session's laps, fastest first.
func (s *AnalysisService) SessionLaps(ctx context.Context, sessionID int64) ([]*models.Lap, error) {
	return s.lapRepo.ListBySessionID(ctx, sessionID)
}

// EvictSession drops a session and its telemetry from the local store so a
// later request re-fetches it from the source.
func (s *AnalysisService) EvictSession(ctx context.Context, sessionID int64) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("Session evicted from cache", zap.Int64("session_id", sessionID))
	return nil
}

// Analyze runs one full analysis request. The returned job carries the
// report on success and the user-facing message on failure; err is the
// underlying cause for logging.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*Job, error) {
	job := s.jobs.Create(req)

	report, err := s.run(ctx, job, req)
	if err != nil {
		job.fail(UserMessage(err))
		s.logger.Warn("Analysis failed",
			zap.String("job_id", job.ID),
			zap.Int("year", req.Year),
			zap.String("event", req.EventName),
			zap.String("session", string(req.SessionType)),
			zap.Error(err))
		return job, err
	}

	job.complete(report)
	s.logger.Info("Analysis completed",
		zap.String("job_id", job.ID),
		zap.String("driver", report.Lap.Driver),
		zap.Int64("lap_time_ms", report.Lap.LapTimeMs),
		zap.Float64("speed_max_kmh", report.Metrics.SpeedMaxKmh))
	return job, nil
}

func (s *AnalysisService) run(ctx context.Context, job *Job, req AnalyzeRequest) (*AnalysisReport, error) {
	if err := job.advance(EventFetch); err != nil {
		return nil, err
	}

	session, laps, sessionKey, err := s.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		return nil, livetiming.ErrSessionUnavailable
	}

	// Laps come back ordered by lap time.
	fastest := laps[0]
	fastestSamples, err := s.loadSamples(ctx, sessionKey, fastest)
	if err != nil {
		return nil, err
	}

	if err := job.advance(EventDerive); err != nil {
		return nil, err
	}

	metrics, annotated, err := telemetry.Derive(fastestSamples)
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		Session: *session,
		Lap:     *fastest,
		Metrics: metrics,
		DRS:     telemetry.SegmentDRS(annotated),
		Samples: annotated,
	}

	// Two-lap comparison needs a second qualifying lap; with fewer the
	// feature is disabled, not an error.
	if len(laps) >= 2 {
		report.Comparison = s.compareWithRunnerUp(ctx, sessionKey, fastest, laps[1], annotated)
	}

	return report, nil
}

// resolveSession serves the session from the local cache when present and
// fetches + stores it otherwise. sessionKey is empty on a cache hit; sample
// loading then reads from the store instead of the source.
func (s *AnalysisService) resolveSession(ctx context.Context, req AnalyzeRequest) (*models.Session, []*models.Lap, string, error) {
	session, laps, err := s.lookupCache(ctx, req)
	if err == nil {
		s.logger.Debug("Session cache hit",
			zap.Int64("session_id", session.ID),
			zap.Int("laps", len(laps)))
		return session, laps, "", nil
	}
	if !errors.Is(err, errCacheMiss) {
		return nil, nil, "", err
	}

	info, err := s.timing.GetSession(ctx, req.Year, req.EventName, string(req.SessionType))
	if err != nil {
		return nil, nil, "", err
	}

	lapData, err := s.timing.ListLaps(ctx, info.SessionKey)
	if err != nil {
		return nil, nil, "", err
	}
	if len(lapData) == 0 {
		return nil, nil, "", livetiming.ErrSessionUnavailable
	}

	session = &models.Session{
		Year:        req.Year,
		EventName:   req.EventName,
		SessionType: req.SessionType,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, "", err
	}

	laps = make([]*models.Lap, 0, len(lapData))
	for _, ld := range lapData {
		lap := &models.Lap{
			SessionID: session.ID,
			Driver:    ld.Driver,
			LapNumber: ld.LapNumber,
			LapTimeMs: ld.LapTimeMs,
			Sector1Ms: ld.Sector1Ms,
			Sector2Ms: ld.Sector2Ms,
			Sector3Ms: ld.Sector3Ms,
		}
		if err := s.lapRepo.Create(ctx, lap); err != nil {
			return nil, nil, "", err
		}
		laps = append(laps, lap)
	}
	sortLapsByTime(laps)

	s.logger.Info("Session fetched and cached",
		zap.Int64("session_id", session.ID),
		zap.String("session_key", info.SessionKey),
		zap.Int("laps", len(laps)))

	return session, laps, info.SessionKey, nil
}

func (s *AnalysisService) lookupCache(ctx context.Context, req AnalyzeRequest) (*models.Session, []*models.Lap, error) {
	session, err := s.sessionRepo.GetByKey(ctx, req.Year, req.EventName, req.SessionType)
	if err != nil {
		return nil, nil, errCacheMiss
	}

	laps, err := s.lapRepo.ListBySessionID(ctx, session.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list cached laps: %w", err)
	}
	if len(laps) == 0 {
		return nil, nil, errCacheMiss
	}

	return session, laps, nil
}

// loadSamples returns a lap's telemetry, reading the cache when the session
// was served from it and downloading + storing otherwise.
func (s *AnalysisService) loadSamples(ctx context.Context, sessionKey string, lap *models.Lap) ([]models.TelemetrySample, error) {
	cached, err := s.sampleRepo.ListByLapID(ctx, lap.ID)
	if err != nil {
		return nil, fmt.Errorf("list cached samples: %w", err)
	}
	if len(cached) > 0 {
		return cached, nil
	}
	if sessionKey == "" {
		// Cache hit on the session but telemetry was never downloaded
		// for this lap; without a session key there is nothing to fetch.
		return nil, livetiming.ErrNoTelemetry
	}

	data, err := s.timing.GetLapTelemetry(ctx, sessionKey, lap.Driver, lap.LapNumber)
	if err != nil {
		return nil, err
	}

	samples := make([]models.TelemetrySample, len(data))
	for i, d := range data {
		samples[i] = models.TelemetrySample{
			LapID:          lap.ID,
			ElapsedSeconds: d.TimeSeconds,
			X:              d.X,
			Y:              d.Y,
			SpeedKmh:       d.SpeedKmh,
			Throttle:       d.Throttle,
			Brake:          d.Brake,
			RPM:            d.RPM,
			Gear:           d.Gear,
			DRS:            d.DRS,
		}
	}

	if err := s.sampleRepo.CreateBatch(ctx, samples); err != nil {
		return nil, err
	}

	return samples, nil
}

// compareWithRunnerUp derives the second-fastest lap and builds the
// comparison. Any failure here degrades to "no comparison" rather than
// failing the whole request.
func (s *AnalysisService) compareWithRunnerUp(
	ctx context.Context,
	sessionKey string,
	fastest *models.Lap,
	runnerUp *models.Lap,
	fastestAnnotated []telemetry.Annotated,
) *models.LapComparison {
	samples, err := s.loadSamples(ctx, sessionKey, runnerUp)
	if err != nil {
		s.logger.Warn("Skipping lap comparison",
			zap.String("driver", runnerUp.Driver),
			zap.Int("lap_number", runnerUp.LapNumber),
			zap.Error(err))
		return nil
	}

	_, annotated, err := telemetry.Derive(samples)
	if err != nil {
		s.logger.Warn("Skipping lap comparison", zap.Error(err))
		return nil
	}

	cmp, err := telemetry.Compare(
		lapLabel(fastest), fastestAnnotated,
		lapLabel(runnerUp), annotated,
	)
	if err != nil {
		return nil
	}
	return cmp
}

func lapLabel(lap *models.Lap) string {
	return fmt.Sprintf("%s L%d", lap.Driver, lap.LapNumber)
}

func sortLapsByTime(laps []*models.Lap) {
	sort.Slice(laps, func(i, j int) bool {
		return laps[i].LapTimeMs < laps[j].LapTimeMs
	})
}

// UserMessage maps an analysis failure to the message shown on the
// dashboard. No error is fatal to the process.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, livetiming.ErrSessionUnavailable):
		return "No data for this year, race and session combination. Try another."
	case errors.Is(err, livetiming.ErrRateLimited):
		return "The timing data source is rate limiting requests. Try again shortly."
	case errors.Is(err, livetiming.ErrNoTelemetry):
		return "No usable lap telemetry in this session."
	case errors.Is(err, telemetry.ErrNoSamples):
		return "No usable lap telemetry in this session."
	default:
		return "Failed to load session data. Try another race or session."
	}
}
