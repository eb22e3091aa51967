package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerCompleteRecordsOnce(t *testing.T) {
	tracker := NewTracker(nil, nil)

	marker := tracker.StartOperation("post_page_request", "published")
	marker.AddMetadata("slug", "hello")
	marker.Complete()
	marker.Complete()

	metrics := tracker.GetRecentMetrics(time.Minute)
	require.Len(t, metrics, 1)
	assert.Equal(t, "post_page_request", metrics[0].Operation)
	assert.True(t, metrics[0].Success)
	assert.Equal(t, "hello", metrics[0].Metadata["slug"])
}

func TestMarkerSetError(t *testing.T) {
	tracker := NewTracker(nil, nil)

	marker := tracker.StartOperation("contentful:entries", "preview")
	marker.SetError(errors.New("boom"))
	marker.Complete()

	summary := tracker.Summaries()["contentful:entries"]
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 1, summary.Failures)
}

func TestTrackerRingKeepsNewest(t *testing.T) {
	tracker := NewTracker(&TrackerConfig{MaxMarkers: 3, SlowThreshold: time.Hour}, nil)

	for _, op := range []string{"a", "b", "c", "d", "e"} {
		tracker.StartOperation(op, "published").Complete()
	}

	metrics := tracker.GetRecentMetrics(time.Minute)
	require.Len(t, metrics, 3)
	assert.Equal(t, "c", metrics[0].Operation)
	assert.Equal(t, "e", metrics[2].Operation)
}
