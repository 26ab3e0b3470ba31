package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveParse(t *testing.T) {
	okBefore := testutil.ToFloat64(FormulasParsed.WithLabelValues("loda", ResultOK))
	errBefore := testutil.ToFloat64(FormulasParsed.WithLabelValues("loda", ResultError))

	ObserveParse("loda", nil)
	ObserveParse("loda", errors.New("boom"))
	ObserveParse("loda", nil)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(FormulasParsed.WithLabelValues("loda", ResultOK)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(FormulasParsed.WithLabelValues("loda", ResultError)))
}

func TestObserveValidation(t *testing.T) {
	stateBefore := testutil.ToFloat64(FormulasValidated.WithLabelValues("oeis", "mismatched"))
	matchBefore := testutil.ToFloat64(Comparisons.WithLabelValues(ResultMatch))
	missBefore := testutil.ToFloat64(Comparisons.WithLabelValues(ResultMiss))

	ObserveValidation("oeis", "mismatched", 5, 2, time.Millisecond)

	assert.Equal(t, stateBefore+1, testutil.ToFloat64(FormulasValidated.WithLabelValues("oeis", "mismatched")))
	assert.Equal(t, matchBefore+5, testutil.ToFloat64(Comparisons.WithLabelValues(ResultMatch)))
	assert.Equal(t, missBefore+2, testutil.ToFloat64(Comparisons.WithLabelValues(ResultMiss)))
}
