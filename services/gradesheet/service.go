package gradesheet

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/gradesheet")

// Service glues the upstream fetch to the extractor. Stateless, one
// instance serves all requests.
type Service struct {
	client *Client
}

func NewService(client *Client) Service {
	return Service{client: client}
}

func (s Service) Lookup(ctx context.Context, symbol, dob string) (Result, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()

	span.SetAttributes(attribute.String("symbol", symbol))

	html, err := s.client.FetchGradesheet(ctx, symbol, dob)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch gradesheet")
		return Result{}, err
	}

	result := Extract(html, symbol, dob)
	slog.DebugContext(
		ctx, "extracted gradesheet",
		"symbol", result.Symbol,
		"subjects", len(result.Subjects),
		"gpa_found", result.GPA != nil,
	)
	return result, nil
}
