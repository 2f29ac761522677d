package services

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/mirador-pathmine/internal/config"
)

func record(entity int, step int, code string, outcome int, category string) any {
	return map[string]any{
		"entity":   entity,
		"phase":    "early",
		"step":     step,
		"code":     code,
		"outcome":  outcome,
		"category": category,
	}
}

func fixtureRequest(t *testing.T, thresholds map[string]any) *structpb.Struct {
	t.Helper()
	records := []any{
		record(1, 1, "A", 0, "urgent"), record(1, 2, "B", 0, "urgent"), record(1, 3, "C", 0, "urgent"),
		record(2, 1, "A", 0, "chronic"), record(2, 2, "B", 0, "chronic"),
		record(3, 1, "X", 1, "urgent"), record(3, 2, "Y", 1, "urgent"), record(3, 3, "Z", 1, "urgent"),
		record(4, 1, "X", 1, "chronic"), record(4, 2, "Y", 1, "chronic"),
	}
	body := map[string]any{"records": records}
	if thresholds != nil {
		body["thresholds"] = thresholds
	}
	req, err := structpb.NewStruct(body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return req
}

func defaultOverrides() map[string]any {
	return map[string]any{
		"phases":          []any{"early"},
		"alpha":           0.5,
		"beta":            0.5,
		"minSupportDead":  2,
		"maxSupportAlive": 0,
	}
}

func TestAnalyzeReturnsReport(t *testing.T) {
	service := NewAnalysisService(nil, config.Default(), nil)

	resp, err := service.Analyze(context.Background(), fixtureRequest(t, defaultOverrides()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Fields["runId"].GetStringValue() == "" {
		t.Fatalf("expected run id")
	}

	phases := resp.Fields["phases"].GetListValue().GetValues()
	if len(phases) != 1 {
		t.Fatalf("expected one phase, got %d", len(phases))
	}
	early := phases[0].GetStructValue()
	if got := early.Fields["accuracy"].GetNumberValue(); got != 0.75 {
		t.Fatalf("expected accuracy 0.75, got %v", got)
	}
	do := early.Fields["do"].GetListValue().GetValues()
	if len(do) != 2 {
		t.Fatalf("expected two do transitions, got %d", len(do))
	}
	first := do[0].GetStructValue()
	if first.Fields["from"].GetStringValue() != "A" || first.Fields["to"].GetStringValue() != "B" {
		t.Fatalf("unexpected first do transition: %v", first)
	}
	harmful := early.Fields["harmful"].GetListValue().GetValues()
	if len(harmful) != 1 || harmful[0].GetStructValue().Fields["from"].GetStringValue() != "X" {
		t.Fatalf("unexpected harmful set: %v", harmful)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	service := NewAnalysisService(nil, config.Default(), nil)

	_, err := service.Analyze(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for empty request, got %v", err)
	}

	overrides := defaultOverrides()
	overrides["alpha"] = 2.0
	_, err = service.Analyze(context.Background(), fixtureRequest(t, overrides))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for alpha out of range, got %v", err)
	}

	overrides = defaultOverrides()
	overrides["containment"] = "fuzzy"
	_, err = service.Analyze(context.Background(), fixtureRequest(t, overrides))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for unknown containment, got %v", err)
	}

	overrides = defaultOverrides()
	overrides["phases"] = []any{"../early"}
	_, err = service.Analyze(context.Background(), fixtureRequest(t, overrides))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for path-like phase, got %v", err)
	}
}

func TestAnalyzeRecordLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxRecords = 3
	service := NewAnalysisService(nil, cfg, nil)

	_, err := service.Analyze(context.Background(), fixtureRequest(t, nil))
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	service := NewAnalysisService(nil, config.Default(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Analyze(ctx, fixtureRequest(t, defaultOverrides()))
	if status.Code(err) != codes.Canceled {
		t.Fatalf("expected Canceled, got %v", err)
	}
}
