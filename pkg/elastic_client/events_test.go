package elastic_client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSkipsWithoutAddress(t *testing.T) {
	t.Setenv("TRAVIGO_ELASTICSEARCH_ADDRESS", "")

	require.NoError(t, Connect(false))
	assert.Nil(t, Client)
}

func TestIndexWithoutClientIsNoop(t *testing.T) {
	Client = nil

	assert.NotPanics(t, func() {
		IndexRequest("journey-plan-events-2024", strings.NewReader("{}"))
		IndexJourneyPlanEvent(&JourneyPlanEvent{Origin: "WKD", Destination: "EUS"})
		IndexGetHomeEvent(&GetHomeEvent{Home: "WGN"})
		WaitUntilQueueEmpty()
	})
}
