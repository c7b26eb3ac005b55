package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/scriptorium/corpus"
	"github.com/c360studio/scriptorium/gate"
)

func newTestPipeline(t *testing.T, metrics *Metrics) *Pipeline {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := New(DefaultConfig(), logger, metrics)
	require.NoError(t, err)
	return p
}

func proseDocument(filename string) corpus.Document {
	text := "Title: Commentarii de Bello Gallico\n" +
		"Category: Latinitas Romana\n" +
		"----------------------------------------\n" +
		"Gallia est omnis divisa in partes tres, quarum unam incolunt Belgae, " +
		"aliam Aquitani, tertiam qui ipsorum lingua Celtae appellantur.\n" +
		"Hi omnes lingua, institutis, legibus inter se differunt. " +
		"Gallos ab Aquitanis Garumna flumen dividit.\n"
	return corpus.Document{Filename: filename, Text: text, Size: int64(len(text))}
}

func indexDocument(filename string) corpus.Document {
	var b strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "Liber %d. De rebus gestis\n", i)
	}
	text := b.String()
	return corpus.Document{Filename: filename, Text: text, Size: int64(len(text))}
}

func TestPipeline_Process_CuratesProse(t *testing.T) {
	p := newTestPipeline(t, nil)

	out := p.Process(context.Background(), proseDocument("bellum_gallicum.txt"))
	require.Equal(t, StatusCurated, out.Status)
	assert.Equal(t, "bellum_gallicum.txt", out.Filename)
	assert.Equal(t, "classical/prose", out.Classification.Label())
	assert.Equal(t, corpus.ConfidenceHigh, out.Classification.Confidence())
	assert.Contains(t, out.Document.Text, "gallia est omnis diuisa in partes tres")
	assert.NotContains(t, out.Document.Text, "Title:")
}

func TestPipeline_Process_RejectsTooSmall(t *testing.T) {
	p := newTestPipeline(t, nil)

	out := p.Process(context.Background(), corpus.Document{
		Filename: "fragment.txt", Text: "Gallia.", Size: 7,
	})
	require.Equal(t, StatusRejected, out.Status)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, gate.ReasonTooSmall, out.Rejection.Reason)
}

func TestPipeline_Process_RejectsIndexContent(t *testing.T) {
	p := newTestPipeline(t, nil)

	out := p.Process(context.Background(), indexDocument("index.txt"))
	require.Equal(t, StatusRejected, out.Status)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, gate.ReasonIndexContent, out.Rejection.Reason)
	assert.NotEmpty(t, out.Rejection.Evidence)
}

func TestPipeline_Process_RejectsEmptyOutput(t *testing.T) {
	p := newTestPipeline(t, nil)

	line := "DE BELLO GALLICO ET DE MORIBUS GERMANORUM\n"
	text := strings.Repeat(line, 8)
	out := p.Process(context.Background(), corpus.Document{
		Filename: "caps.txt", Text: text, Size: int64(len(text)),
	})
	require.Equal(t, StatusRejected, out.Status)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, gate.ReasonEmptyOutput, out.Rejection.Reason)
}

func TestPipeline_Run_PreservesInputOrder(t *testing.T) {
	p := newTestPipeline(t, nil)

	docs := []corpus.Document{
		proseDocument("a.txt"),
		indexDocument("b.txt"),
		proseDocument("c.txt"),
	}
	outcomes, err := p.Run(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, "a.txt", outcomes[0].Filename)
	assert.Equal(t, "b.txt", outcomes[1].Filename)
	assert.Equal(t, "c.txt", outcomes[2].Filename)

	summary := Summarize(outcomes)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Curated)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, 2, summary.ByLabel["classical/prose"])
	assert.Equal(t, 1, summary.ByReason[gate.ReasonIndexContent])
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	p := newTestPipeline(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := p.Run(ctx, []corpus.Document{proseDocument("a.txt")})
	require.Error(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusErrored, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}

func TestPipeline_Stages_Order(t *testing.T) {
	p := newTestPipeline(t, nil)

	assert.Equal(t, []string{"gate", "classify", "normalize", "standardize"}, p.Stages())
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := newTestPipeline(t, metrics)

	_ = p.Process(context.Background(), proseDocument("a.txt"))
	_ = p.Process(context.Background(), indexDocument("b.txt"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.processed.WithLabelValues("curated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.processed.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rejections.WithLabelValues("index_content")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.classifications.WithLabelValues("classical", "prose")))
}
