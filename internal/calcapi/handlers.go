package calcapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"scicalc/internal/calculator"
	"scicalc/internal/handlers"
	"scicalc/internal/observability"
	"scicalc/internal/session"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints.
type Handler struct {
	sessions *session.Manager
}

func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{sessions: sessions}
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "create_session")
	defer span.End()

	snap, err := h.sessions.Create(ctx)
	if err != nil {
		fail(ctx, span, logger, w, "create_session", "could not create session", err, http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("session.id", snap.ID))
	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusCreated, stateResponse(snap))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "get_session")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	snap, err := h.sessions.Get(ctx, id)
	if err != nil {
		failSession(ctx, span, logger, w, "get_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, stateResponse(snap))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "delete_session")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	if err := h.sessions.Delete(ctx, id); err != nil {
		failSession(ctx, span, logger, w, "delete_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	w.WriteHeader(http.StatusNoContent)
}

// Keys handles POST /calculator/sessions/{id}/keys. It presses a sequence of
// keys on one session. The session layer adds a child span per key.
func (h *Handler) Keys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := startSpan(r, "keys")
	defer span.End()
	requestID := observability.RequestIDFromContext(ctx)

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(ctx, span, logger, w, "keys", "invalid request body", err, http.StatusBadRequest)
		return
	}

	toks, err := parseKeys(req)
	if err != nil {
		fail(ctx, span, logger, w, "keys", err.Error(), err, http.StatusBadRequest)
		return
	}
	if len(toks) == 0 {
		fail(ctx, span, logger, w, "keys", "no keys provided", errors.New("tokens and input are empty"), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := h.sessions.Press(ctx, id, toks)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	if err != nil {
		failSession(ctx, span, logger, w, "keys", err)
		return
	}

	keys := make([]KeyResult, 0, len(res.Steps))
	for _, step := range res.Steps {
		kind := calculator.ErrorKind(step.Err)
		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", step.Token.Kind.String())))
		if step.Err != nil {
			errorCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", step.Token.String()),
				attribute.String("kind", kind),
			))
		}
		keys = append(keys, KeyResult{
			Token:     step.Token.String(),
			Display:   step.Display.String(),
			ErrorKind: kind,
		})
	}

	attrs := metric.WithAttributes(attribute.String("operation", "keys"))
	opsHistogram.Record(ctx, elapsed, attrs)
	recordResult(ctx, res.State.Display, attrs)

	span.AddEvent("keys.complete", trace.WithAttributes(
		attribute.String("display", res.State.Display.String()),
		attribute.Int("keys", len(keys)),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator keys processed",
		zap.String("session_id", id),
		zap.Int("keys", len(keys)),
		zap.String("display", res.State.Display.String()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, KeysResponse{
		StateResponse: stateResponse(res.Snapshot),
		Keys:          keys,
	})
}

// ---------------------------------------------------------------------------
// Handlers: stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	handleCompute(w, r, "evaluate", func(body []byte) (any, calculator.Display, error, error) {
		var req EvaluateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, calculator.Display{}, nil, err
		}
		op, err := calculator.ParseOperator(req.Op)
		if err != nil {
			return nil, calculator.Display{}, nil, err
		}
		d, calcErr := calculator.Evaluate(req.A, req.B, op)
		return EvaluateResponse{Op: op.String(), A: req.A, B: req.B, Display: d.String()}, d, calcErr, nil
	})
}

// Scientific handles POST /calculator/scientific
func (h *Handler) Scientific(w http.ResponseWriter, r *http.Request) {
	handleCompute(w, r, "scientific", func(body []byte) (any, calculator.Display, error, error) {
		var req ScientificRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, calculator.Display{}, nil, err
		}
		fn, err := calculator.ParseFunction(req.Function)
		if err != nil {
			return nil, calculator.Display{}, nil, err
		}
		mode := calculator.Degrees
		if req.AngleMode != "" {
			if mode, err = calculator.ParseAngleMode(req.AngleMode); err != nil {
				return nil, calculator.Display{}, nil, err
			}
		}
		d, calcErr := calculator.Apply(fn, req.X, mode)
		return ScientificResponse{
			Function:  fn.String(),
			X:         req.X,
			AngleMode: mode.String(),
			Display:   d.String(),
		}, d, calcErr, nil
	})
}

// computeFunc decodes a request body and runs one evaluator. It returns the
// response body, the display, the calculator fault (if any) and a request
// error for undecodable input.
type computeFunc func(body []byte) (resp any, d calculator.Display, calcErr error, reqErr error)

// handleCompute is the shared implementation for the stateless endpoints.
func handleCompute(w http.ResponseWriter, r *http.Request, opName string, compute computeFunc) {
	ctx, span, logger := startSpan(r, opName)
	defer span.End()
	requestID := observability.RequestIDFromContext(ctx)

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(ctx, span, logger, w, opName, "invalid request body", err, http.StatusBadRequest)
		return
	}

	start := time.Now()
	resp, d, calcErr, reqErr := compute(body)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if reqErr != nil {
		fail(ctx, span, logger, w, opName, "invalid request: "+reqErr.Error(), reqErr, http.StatusBadRequest)
		return
	}
	if calcErr != nil {
		observability.RecordError(ctx, span, logger, errorCounter, observability.ErrorReport{
			Operation: opName,
			Kind:      calculator.ErrorKind(calcErr),
			Message:   calcErr.Error(),
			Err:       calcErr,
			Status:    http.StatusUnprocessableEntity,
		}, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	keysCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	recordResult(ctx, d, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("display", d.String()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.String("display", d.String()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func startSpan(r *http.Request, opName string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

func fail(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName, msg string, err error, status int) {
	observability.RecordError(ctx, span, logger, errorCounter, observability.ErrorReport{
		Operation: opName,
		Message:   msg,
		Err:       err,
		Status:    status,
	}, w)
}

// failSession maps session errors to 404 or 500.
func failSession(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName string, err error) {
	if errors.Is(err, session.ErrNotFound) {
		fail(ctx, span, logger, w, opName, "session not found", err, http.StatusNotFound)
		return
	}
	fail(ctx, span, logger, w, opName, "session store failure", err, http.StatusInternalServerError)
}

func parseKeys(req KeysRequest) ([]calculator.Token, error) {
	if len(req.Tokens) == 0 {
		return calculator.ParseSequence(req.Input)
	}
	toks := make([]calculator.Token, 0, len(req.Tokens))
	for _, label := range req.Tokens {
		tok, err := calculator.ParseToken(label)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// recordResult feeds the last-result gauge when the display is numeric.
func recordResult(ctx context.Context, d calculator.Display, attrs metric.MeasurementOption) {
	if x, err := d.Float(); err == nil {
		resultGauge.Record(ctx, x, attrs)
	}
}

func stateResponse(snap session.Snapshot) StateResponse {
	return StateResponse{
		SessionID: snap.ID,
		Display:   snap.State.Display.String(),
		State:     snap.State,
	}
}
