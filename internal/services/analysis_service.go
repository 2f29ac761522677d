package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/mirador-pathmine/internal/api"
	"github.com/miradorstack/mirador-pathmine/internal/config"
	"github.com/miradorstack/mirador-pathmine/internal/engine"
	"github.com/miradorstack/mirador-pathmine/internal/ingest"
	"github.com/miradorstack/mirador-pathmine/internal/models"
	"github.com/miradorstack/mirador-pathmine/internal/patterns"
)

// AnalysisService implements the CohortAnalysis gRPC service.
type AnalysisService struct {
	logger  *slog.Logger
	base    config.Config
	labeler *ingest.Labeler
}

var _ api.AnalysisServer = (*AnalysisService)(nil)

// NewAnalysisService constructs the analysis facade. base supplies the
// default thresholds that individual requests may override.
func NewAnalysisService(logger *slog.Logger, base config.Config, labeler *ingest.Labeler) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:  logger,
		base:    base,
		labeler: labeler,
	}
}

// Analyze runs a full cohort analysis over the records carried in req.
func (s *AnalysisService) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()
	in, err := api.FromProtoAnalyzeRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if limit := s.base.Server.MaxRecords; limit > 0 && len(in.Records) > limit {
		return nil, status.Errorf(codes.ResourceExhausted, "request carries %d records, limit is %d", len(in.Records), limit)
	}

	cfg := s.base
	applyOverrides(&cfg, in.Thresholds)
	if err := cfg.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	thresholds, err := engine.ThresholdsFromConfig(&cfg)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	norm := models.CodeNormalization(cfg.Input.Normalization)
	episodes := ingest.GroupEpisodes(in.DomainRecords(norm, ingest.OutcomeUnknown), s.labeler)

	pipeline := engine.NewPipeline(s.logger, patterns.NewMiner(s.logger, nil), thresholds)
	report, err := pipeline.Run(ctx, episodes)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return nil, status.Error(codes.Canceled, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		}
		s.logger.Error("analysis failed", slog.Any("error", err))
		return nil, status.Error(codes.Internal, "analysis failed")
	}

	resp, err := api.ToProtoReport(report)
	if err != nil {
		s.logger.Error("report conversion failed", slog.Any("error", err))
		return nil, status.Error(codes.Internal, "report conversion failed")
	}
	s.logger.Info("analysis served",
		slog.String("run_id", report.RunID),
		slog.Int("records", len(in.Records)),
		slog.Int("episodes", len(episodes)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func applyOverrides(cfg *config.Config, o *api.ThresholdOverrides) {
	if o == nil {
		return
	}
	if o.Threshold != nil {
		cfg.Mining.Threshold = *o.Threshold
	}
	if o.Extend != nil {
		cfg.Mining.Extend = *o.Extend
	}
	if o.Containment != "" {
		cfg.Mining.Containment = o.Containment
	}
	if len(o.Phases) > 0 {
		cfg.Cohorts.Phases = append([]string(nil), o.Phases...)
	}
	if o.Alpha != nil {
		cfg.Cohorts.Alpha = *o.Alpha
	}
	if o.Beta != nil {
		cfg.Cohorts.Beta = *o.Beta
	}
	if o.MinSupportDead != nil {
		cfg.Cohorts.MinSupportDead = *o.MinSupportDead
	}
	if o.MaxSupportAlive != nil {
		cfg.Cohorts.MaxSupportAlive = *o.MaxSupportAlive
	}
	if o.MaxHops != nil {
		cfg.Cohorts.MaxHops = *o.MaxHops
	}
	if o.Comparisons != nil {
		cmps := make([]config.Comparison, 0, len(o.Comparisons))
		for _, c := range o.Comparisons {
			cmps = append(cmps, config.Comparison{Reference: c.Reference, Comparison: c.Comparison})
		}
		cfg.Cohorts.Comparisons = cmps
	}
}
