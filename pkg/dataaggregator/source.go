package dataaggregator

import (
	"context"

	"github.com/travigo/liverail/pkg/ctdf"
	"github.com/travigo/liverail/pkg/dataaggregator/query"
)

type JourneySource interface {
	GetName() string
	JourneyPlanQuery(ctx context.Context, q query.JourneyPlan) ([]*ctdf.JourneyPlan, error)
}

type Corrector interface {
	CorrectAll(ctx context.Context, plans []*ctdf.JourneyPlan) []*ctdf.JourneyPlan
}
