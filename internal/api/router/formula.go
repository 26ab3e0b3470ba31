// Package router binds the formula HTTP handlers.
package router

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/loda-lang/formula-analyzer/internal/apperr"
	"github.com/loda-lang/formula-analyzer/internal/domain"
	"github.com/loda-lang/formula-analyzer/internal/dto"
	"github.com/loda-lang/formula-analyzer/internal/eval"
	"github.com/loda-lang/formula-analyzer/internal/grammar"
	"github.com/loda-lang/formula-analyzer/internal/parser"
	"github.com/loda-lang/formula-analyzer/internal/seqdata"
	"github.com/loda-lang/formula-analyzer/internal/storage"
	"github.com/loda-lang/formula-analyzer/internal/validate"
)

// adHocSequenceID labels validations submitted without a sequence id.
const adHocSequenceID = "A000000"

const sinkTimeout = 5 * time.Second

var requestValidate = validator.New()

type FormulaRouter struct {
	e         *echo.Echo
	parser    *parser.Parser
	evaluator *eval.Evaluator
	runner    *validate.Runner
	sink      storage.Sink
}

type FormulaRouterOption func(*FormulaRouter)

// WithSink stores every validation served by the API.
func WithSink(sink storage.Sink) FormulaRouterOption {
	return func(r *FormulaRouter) {
		r.sink = sink
	}
}

func WithRegistry(registry *grammar.Registry) FormulaRouterOption {
	return func(r *FormulaRouter) {
		r.parser = parser.New(registry)
		r.evaluator = eval.New(registry)
	}
}

func NewFormulaRouter(e *echo.Echo, opts ...FormulaRouterOption) *FormulaRouter {
	r := &FormulaRouter{
		e:         e,
		parser:    parser.New(nil),
		evaluator: eval.New(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.runner = validate.New(validate.Config{Workers: 1}, r.evaluator)
	return r
}

func (r *FormulaRouter) Bind() {
	r.e.POST("/evaluate", r.evaluateHandler)
	r.e.POST("/validate", r.validateHandler)
}

// evaluateHandler godoc
// @Summary Evaluate a formula
// @Description Evaluates a closed-form expression in n exactly at each requested point
// @Tags formula
// @Accept json
// @Produce json
// @Param request body dto.EvaluateRequest true "Expression and points"
// @Success 200 {object} dto.EvaluateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /evaluate [post]
func (r *FormulaRouter) evaluateHandler(c echo.Context) error {
	var req dto.EvaluateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	node, err := r.parser.Parse(req.Expression)
	if err != nil {
		return err
	}

	resp := dto.EvaluateResponse{
		Expression: parser.Sanitize(req.Expression),
		Values:     make([]dto.PointValue, 0, len(req.N)),
	}
	for _, n := range req.N {
		pv := dto.PointValue{N: n}
		v, err := r.evaluator.Evaluate(node, big.NewInt(n))
		if err != nil {
			pv.Error = err.Error()
			pv.Code = string(apperr.CodeOf(err))
		} else {
			pv.Value = v.RatString()
		}
		resp.Values = append(resp.Values, pv)
	}
	return c.JSON(http.StatusOK, resp)
}

// validateHandler godoc
// @Summary Validate a formula against terms
// @Description Compares a(offset+i) with the i-th supplied term for every term
// @Tags formula
// @Accept json
// @Produce json
// @Param request body dto.ValidateRequest true "Expression, offset and terms"
// @Success 200 {object} dto.ValidateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /validate [post]
func (r *FormulaRouter) validateHandler(c echo.Context) error {
	var req dto.ValidateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	seqID := req.SequenceID
	if seqID == "" {
		seqID = adHocSequenceID
	}
	if !domain.IsSequenceID(seqID) {
		return apperr.NewValidation("sequence_id must look like A000045")
	}

	terms := make([]*big.Int, len(req.Terms))
	for i, s := range req.Terms {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return apperr.NewValidation("terms must be decimal integers")
		}
		terms[i] = v
	}

	f := r.parser.ParseFormula(seqID, domain.SourceLODA, req.Expression)
	if f.ParseErr != nil {
		return f.ParseErr
	}

	tables := validate.Tables{
		Offsets: seqdata.NewOffsetTable(domain.OffsetRecord{SequenceID: seqID, Primary: req.Offset}),
		Terms:   seqdata.NewTermTable(domain.SequenceTerms{SequenceID: seqID, Terms: terms}),
	}
	o := r.runner.Check(f, tables)
	r.store(c.Request().Context(), o)

	return c.JSON(http.StatusOK, toValidateResponse(req.SequenceID, o))
}

func (r *FormulaRouter) store(ctx context.Context, o validate.Outcome) {
	if r.sink == nil {
		return
	}
	res := &validate.Result{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Outcomes:  []validate.Outcome{o},
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := r.sink.SaveBulk(ctx, res.Records()); err != nil {
		slog.Warn("Failed to store validation", "sequence", o.Formula.SequenceID, "error", err)
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := requestValidate.Struct(req); err != nil {
		return apperr.NewValidationWrap("invalid request", err)
	}
	return nil
}

func toValidateResponse(seqID string, o validate.Outcome) dto.ValidateResponse {
	resp := dto.ValidateResponse{
		SequenceID: seqID,
		Expression: o.Formula.Expression,
		State:      string(o.State),
		Offset:     o.Offset,
		Checked:    o.Checked,
		Mismatches: o.Mismatches,
	}
	if o.FirstFailure >= 0 {
		first := o.FirstFailure
		resp.FirstFailure = &first
	}
	for _, f := range o.Failures {
		resp.Failures = append(resp.Failures, dto.Failure{
			Index:    f.Index,
			N:        f.N,
			Kind:     string(f.Kind),
			Expected: f.Expected,
			Got:      f.Got,
			Error:    f.Error,
		})
	}
	return resp
}
