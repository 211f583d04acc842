package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhinavmishra97/ai-call-processing-service/src/ai"
	"github.com/abhinavmishra97/ai-call-processing-service/src/models"
	"github.com/abhinavmishra97/ai-call-processing-service/src/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAnalyzer fails transiently a configured number of times, then
// succeeds (or always returns fatalErr when set). It records its inputs.
type scriptedAnalyzer struct {
	mu        sync.Mutex
	transient int
	fatalErr  error
	panicMsg  string

	calls  int
	inputs []string
}

func (a *scriptedAnalyzer) Analyze(_ context.Context, text string) (*ai.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	a.inputs = append(a.inputs, text)

	if a.panicMsg != "" {
		panic(a.panicMsg)
	}
	if a.fatalErr != nil {
		return nil, a.fatalErr
	}
	if a.calls <= a.transient {
		return nil, ai.ErrUnavailable
	}
	return &ai.Result{Transcript: "transcript of " + text, Sentiment: "positive"}, nil
}

func (a *scriptedAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type pipelineFixture struct {
	store    *memStore
	analyzer *scriptedAnalyzer
	notifier *recordingNotifier
	proc     *Processor
	sleeps   []time.Duration
}

func newPipelineFixture(t *testing.T, analyzer *scriptedAnalyzer) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		store:    newMemStore(),
		analyzer: analyzer,
		notifier: &recordingNotifier{},
	}
	f.proc = NewProcessor(f.store, analyzer, f.notifier, retry.Config{})
	f.proc.sleep = func(d time.Duration) {
		f.sleeps = append(f.sleeps, d)
	}
	return f
}

// endedCall seeds a COMPLETED call with packets inserted in the given arrival order.
func (f *pipelineFixture) endedCall(t *testing.T, callID string, sequences []int64, data []string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.store.CreateCall(ctx, callID)
	require.NoError(t, err)
	for i, seq := range sequences {
		require.NoError(t, f.store.InsertPacket(ctx, &models.Packet{
			CallID:   callID,
			Sequence: seq,
			Data:     data[i],
		}))
	}
	applied, err := f.store.TransitionState(ctx, callID, models.StateActive, models.StateEnded)
	require.NoError(t, err)
	require.True(t, applied)
}

func (f *pipelineFixture) callState(t *testing.T, callID string) *models.Call {
	t.Helper()
	call, err := f.store.GetCall(context.Background(), callID)
	require.NoError(t, err)
	return call
}

func TestPipeline_SuccessOnFirstAttempt(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{})
	f.endedCall(t, "call-1", []int64{1, 2}, []string{"hello", "world"})

	f.proc.Run("call-1")

	call := f.callState(t, "call-1")
	assert.Equal(t, models.StateArchived, call.Status)
	require.NotNil(t, call.Transcript)
	assert.Equal(t, "transcript of hello world", *call.Transcript)
	require.NotNil(t, call.Sentiment)
	assert.Equal(t, "positive", *call.Sentiment)
	assert.Empty(t, f.sleeps)
	assert.Equal(t, []models.CallState{models.StateAnalyzing, models.StateArchived}, f.notifier.states())
}

func TestPipeline_RecoversWithinRetryBudget(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{transient: 2})
	f.endedCall(t, "call-1", []int64{1}, []string{"hello"})

	f.proc.Run("call-1")

	call := f.callState(t, "call-1")
	assert.Equal(t, models.StateArchived, call.Status)
	assert.Equal(t, 3, f.analyzer.callCount())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, f.sleeps)
}

func TestPipeline_ExhaustedRetriesFailTheCall(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{transient: 1000})
	f.endedCall(t, "call-1", []int64{1}, []string{"hello"})

	f.proc.Run("call-1")

	call := f.callState(t, "call-1")
	assert.Equal(t, models.StateFailed, call.Status)
	assert.Nil(t, call.Transcript, "no partial result may be attached on failure")
	assert.Nil(t, call.Sentiment)
	assert.Equal(t, 5, f.analyzer.callCount())
	assert.Equal(t, []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}, f.sleeps)
	assert.Equal(t, []models.CallState{models.StateAnalyzing, models.StateFailed}, f.notifier.states())
}

func TestPipeline_FatalErrorIsNotRetried(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{fatalErr: errors.New("text too long")})
	f.endedCall(t, "call-1", []int64{1}, []string{"hello"})

	f.proc.Run("call-1")

	call := f.callState(t, "call-1")
	assert.Equal(t, models.StateFailed, call.Status)
	assert.Equal(t, 1, f.analyzer.callCount())
	assert.Empty(t, f.sleeps)
}

func TestPipeline_AggregatesInSequenceOrder(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{})
	// Arrival order 3, 1, 2; analysis input must follow sequence order.
	f.endedCall(t, "call-1", []int64{3, 1, 2}, []string{"three", "one", "two"})

	f.proc.Run("call-1")

	require.Len(t, f.analyzer.inputs, 1)
	assert.Equal(t, "one two three", f.analyzer.inputs[0])
}

func TestPipeline_MissingCallAbortsSilently(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{})

	f.proc.Run("nonexistent")

	assert.Zero(t, f.analyzer.callCount())
	assert.Empty(t, f.notifier.states())
}

func TestPipeline_SkipsCallNotAwaitingProcessing(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{})
	_, err := f.store.CreateCall(context.Background(), "call-1")
	require.NoError(t, err)

	// Still IN_PROGRESS: the COMPLETED -> PROCESSING_AI update must not apply.
	f.proc.Run("call-1")

	assert.Zero(t, f.analyzer.callCount())
	assert.Equal(t, models.StateActive, f.callState(t, "call-1").Status)
}

func TestPipeline_PanicForcesFailedState(t *testing.T) {
	f := newPipelineFixture(t, &scriptedAnalyzer{panicMsg: "boom"})
	f.endedCall(t, "call-1", []int64{1}, []string{"hello"})

	require.NotPanics(t, func() {
		f.proc.Run("call-1")
	})

	call := f.callState(t, "call-1")
	assert.Equal(t, models.StateFailed, call.Status, "a run must never leave the call stranded in PROCESSING_AI")
}
