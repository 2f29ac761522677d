package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// AnalyzeRequest is the decoded body of an Analyze call.
type AnalyzeRequest struct {
	Records    []RecordInput       `json:"records"`
	Thresholds *ThresholdOverrides `json:"thresholds,omitempty"`
}

// RecordInput is one coded step. Entity, step and code accept strings or
// numbers; numbers keep their JSON literal, so 1234567 and "1234567" are the
// same code. Struct numbers are doubles: identifiers above 2^53 must be sent
// as strings.
type RecordInput struct {
	Entity   any    `json:"entity"`
	Phase    string `json:"phase"`
	Step     any    `json:"step"`
	Code     any    `json:"code"`
	Outcome  *int   `json:"outcome"`
	Category string `json:"category"`
}

// ThresholdOverrides replaces individual server defaults for one call.
type ThresholdOverrides struct {
	Threshold       *int              `json:"threshold"`
	Extend          *bool             `json:"extend"`
	Containment     string            `json:"containment"`
	Phases          []string          `json:"phases"`
	Alpha           *float64          `json:"alpha"`
	Beta            *float64          `json:"beta"`
	MinSupportDead  *int              `json:"minSupportDead"`
	MaxSupportAlive *int              `json:"maxSupportAlive"`
	MaxHops         *int              `json:"maxHops"`
	Comparisons     []ComparisonInput `json:"comparisons"`
}

// ComparisonInput names a reference and comparison category pair.
type ComparisonInput struct {
	Reference  string `json:"reference"`
	Comparison string `json:"comparison"`
}

// FromProtoAnalyzeRequest decodes a Struct payload into an AnalyzeRequest.
func FromProtoAnalyzeRequest(req *structpb.Struct) (AnalyzeRequest, error) {
	if req == nil {
		return AnalyzeRequest{}, fmt.Errorf("request is nil")
	}
	data, err := protojson.Marshal(req)
	if err != nil {
		return AnalyzeRequest{}, fmt.Errorf("encode request: %w", err)
	}

	var out AnalyzeRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return AnalyzeRequest{}, fmt.Errorf("decode request: %w", err)
	}
	if len(out.Records) == 0 {
		return AnalyzeRequest{}, fmt.Errorf("records are required")
	}
	for i, rec := range out.Records {
		if rec.Entity == nil || rec.Code == nil {
			return AnalyzeRequest{}, fmt.Errorf("records[%d]: entity and code are required", i)
		}
	}
	return out, nil
}

// DomainRecords converts request records, applying code normalisation and
// marking absent outcomes as unknown.
func (r AnalyzeRequest) DomainRecords(norm models.CodeNormalization, unknownOutcome int) []models.Record {
	out := make([]models.Record, 0, len(r.Records))
	for _, rec := range r.Records {
		outcome := unknownOutcome
		if rec.Outcome != nil {
			outcome = *rec.Outcome
		}
		step := ""
		if rec.Step != nil {
			step = string(models.CanonicalCode(rec.Step))
		}
		out = append(out, models.Record{
			EntityID: string(models.CanonicalCode(rec.Entity)),
			Phase:    rec.Phase,
			Step:     step,
			Code:     norm.Apply(string(models.CanonicalCode(rec.Code))),
			Outcome:  outcome,
			Category: strings.TrimSpace(rec.Category),
		})
	}
	return out
}

// ToProtoReport encodes a report as a Struct payload.
func ToProtoReport(report *models.Report) (*structpb.Struct, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("convert report: %w", err)
	}
	return out, nil
}
