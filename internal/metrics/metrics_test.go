package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTick(t *testing.T) {
	before := testutil.ToFloat64(ticks)
	RecordTick(time.Millisecond)
	RecordTick(2 * time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(ticks))
}

func TestSetActiveSessions(t *testing.T) {
	SetActiveSessions(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(sessionsActive))
	SetActiveSessions(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(sessionsActive))
}

func TestRecordWrite(t *testing.T) {
	ok := testutil.ToFloat64(storeWrites.WithLabelValues("ok"))
	failed := testutil.ToFloat64(storeWrites.WithLabelValues("error"))

	RecordWrite(nil)
	RecordWrite(errors.New("boom"))
	RecordWrite(nil)

	assert.Equal(t, ok+2, testutil.ToFloat64(storeWrites.WithLabelValues("ok")))
	assert.Equal(t, failed+1, testutil.ToFloat64(storeWrites.WithLabelValues("error")))
}

func TestRecordSessionEndAndDropped(t *testing.T) {
	over := testutil.ToFloat64(sessionsEnded.WithLabelValues("game_over"))
	dropped := testutil.ToFloat64(storeDropped)

	RecordSessionEnd("game_over")
	RecordDropped()

	assert.Equal(t, over+1, testutil.ToFloat64(sessionsEnded.WithLabelValues("game_over")))
	assert.Equal(t, dropped+1, testutil.ToFloat64(storeDropped))
}

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterMetrics()
		RegisterMetrics()
	})
}
