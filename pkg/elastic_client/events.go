package elastic_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type JourneyPlanEvent struct {
	Timestamp time.Time

	Origin      string
	Destination string
	Provider    string
	Outcome     string

	Results   int
	FromCache bool
	Latency   time.Duration

	ShortestDuration time.Duration
}

type GetHomeEvent struct {
	Timestamp time.Time

	Home       string
	Metro      bool
	Candidates int
	Options    int
	Latency    time.Duration
}

func IndexJourneyPlanEvent(event *JourneyPlanEvent) {
	indexEvent("journey-plan-events", event)
}

func IndexGetHomeEvent(event *GetHomeEvent) {
	indexEvent("get-home-events", event)
}

func indexEvent(indexPrefix string, event any) {
	if Client == nil {
		return
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("index", indexPrefix).Msg("Failed to encode event")
		return
	}

	IndexRequest(fmt.Sprintf("%s-%d", indexPrefix, time.Now().Year()), bytes.NewReader(eventBytes))
}
