package sigv4metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/ethanadams/sigv4/internal/sigv4err"
	"github.com/ethanadams/sigv4/internal/sigv4metrics"
)

func TestRecordSign_Success(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := sigv4metrics.NewCollector(reg)

	c.RecordSign("s3", "us-east-1", 10*time.Millisecond, nil)

	count, err := testutil.GatherAndCount(reg, "sigv4_sign_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "sigv4_sign_errors_total")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestRecordSign_FailureTagsErrorKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := sigv4metrics.NewCollector(reg)

	err := sigv4err.New(sigv4err.InvalidParameter, "boom")
	c.RecordSign("execute-api", "us-west-2", 5*time.Millisecond, err)

	count, gatherErr := testutil.GatherAndCount(reg, "sigv4_sign_errors_total")
	require.NoError(t, gatherErr)
	require.Equal(t, 1, count)

	families, gatherErr := reg.Gather()
	require.NoError(t, gatherErr)
	require.True(t, hasLabelValue(families, "sigv4_sign_errors_total", "kind", "InvalidParameter"))
}

func hasLabelValue(families []*dto.MetricFamily, name, labelName, labelValue string) bool {
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == labelName && lp.GetValue() == labelValue {
					return true
				}
			}
		}
	}
	return false
}
