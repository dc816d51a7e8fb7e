// Package gateway is the single entry point calling tools use: one
// resolve-then-admit call per request, returning the final model, an optional
// fallback warning and the admission verdict.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"model_gateway/internal/admission"
	"model_gateway/internal/catalog"
	"model_gateway/internal/logging"
	"model_gateway/internal/metrics"
	"model_gateway/internal/models"
	"model_gateway/internal/resolver"
	"model_gateway/internal/restrictions"
	"model_gateway/internal/utils"
)

// ErrNoAllowedModels is returned when fallback exhausts: no backend has any
// permitted model. This is a deployment configuration error, distinct from a
// per-request admission reject; no request of any shape can succeed until the
// allow-lists are fixed.
var ErrNoAllowedModels = errors.New("no backend has any permitted model")

// ErrCatalogInconsistent is returned when a resolved model has no descriptor
// in the catalog, which can only happen when the catalog and the restriction
// evaluator were built from different configurations.
var ErrCatalogInconsistent = errors.New("catalog and restrictions are inconsistent")

// Result pairs the resolution outcome with the admission verdict for one
// dispatch call.
type Result struct {
	Resolution models.ResolutionResult
	Admission  models.AdmissionVerdict
}

// Flat returns the wire representation of the result.
func (r *Result) Flat() models.DispatchResponse {
	return models.FlattenDispatch(r.Resolution, r.Admission)
}

// Options tune a single dispatch call.
type Options struct {
	// BackendScope restricts resolution to one backend, e.g. when the
	// caller sent a vendor-qualified name.
	BackendScope string

	// PinToScope prevents fallback from crossing out of BackendScope.
	// The default lets fallback pick any enabled backend.
	PinToScope bool

	// ExcludeBackend removes one backend from fallback consideration,
	// e.g. after the caller already failed against it. Ignored when
	// PinToScope is set.
	ExcludeBackend string
}

// Dispatcher composes the resolver, restriction evaluator, fallback selector
// and admission controller. It is stateless per request and safe for
// unsynchronized concurrent use: all configuration it reads is immutable.
type Dispatcher struct {
	cat      *catalog.Catalog
	eval     *restrictions.Evaluator
	resolver *resolver.Resolver
	fallback *resolver.FallbackSelector
	ctrl     *admission.Controller
	sink     logging.Sink
	logger   *utils.Logger
}

// NewDispatcher wires the dispatch facade. sink may be nil to disable
// auditing.
func NewDispatcher(cat *catalog.Catalog, eval *restrictions.Evaluator, ctrl *admission.Controller, sink logging.Sink) *Dispatcher {
	if sink == nil {
		sink = logging.NewNoopSink()
	}
	return &Dispatcher{
		cat:      cat,
		eval:     eval,
		resolver: resolver.NewResolver(cat),
		fallback: resolver.NewFallbackSelector(cat, eval),
		ctrl:     ctrl,
		sink:     sink,
		logger:   utils.NewLogger("dispatcher"),
	}
}

// Dispatch resolves requestedModel, substitutes a permitted model when the
// request is unresolved or disallowed, and sizes estimatedInputTokens against
// the final model's context window. It performs no retries and mutates
// nothing; retrying with a different model is the caller's decision.
func (d *Dispatcher) Dispatch(ctx context.Context, requestedModel string, estimatedInputTokens int) (*Result, error) {
	return d.DispatchWithOptions(ctx, requestedModel, estimatedInputTokens, Options{})
}

// DispatchWithOptions is Dispatch with per-call scoping options.
func (d *Dispatcher) DispatchWithOptions(ctx context.Context, requestedModel string, estimatedInputTokens int, opts Options) (*Result, error) {
	start := time.Now()
	record := models.NewDispatchRecord(requestedModel, estimatedInputTokens)

	res := models.ResolutionResult{Requested: requestedModel}

	// Resolve, then check permission. The two are orthogonal: a name can
	// resolve to a catalog entry the allow-lists deny.
	canonicalID, backend, resolved := d.resolver.Resolve(requestedModel, opts.BackendScope)

	switch {
	case resolved && d.eval.IsAllowed(backend, canonicalID):
		res.ResolvedModel = canonicalID
		res.Backend = backend

	default:
		reason := "unresolved"
		if resolved {
			reason = "disallowed"
		}

		substitute, substituteBackend, ok := d.selectFallback(opts)
		if !ok {
			metrics.DispatchCount.WithLabelValues("exhausted").Inc()
			record.Error = ErrNoAllowedModels.Error()
			record.GatewayMicros = time.Since(start).Microseconds()
			d.audit(record)
			d.logger.Error("Fallback exhausted", "requested", requestedModel)
			return nil, ErrNoAllowedModels
		}

		metrics.FallbackCount.WithLabelValues(reason).Inc()
		res.ResolvedModel = substitute
		res.Backend = substituteBackend
		res.FallbackOccurred = true
		res.Warning = fallbackWarning(requestedModel, reason, substitute, substituteBackend)
		d.logger.Warn("Model fallback", "requested", requestedModel, "reason", reason,
			"substitute", substitute, "backend", substituteBackend)
	}

	desc, ok := d.cat.Descriptor(res.Backend, res.ResolvedModel)
	if !ok {
		// Unreachable with a validated catalog; kept as a guard against
		// inconsistent configuration.
		metrics.DispatchCount.WithLabelValues("inconsistent").Inc()
		err := fmt.Errorf("resolved model %q missing from catalog: %w", res.ResolvedModel, ErrCatalogInconsistent)
		record.Error = err.Error()
		record.GatewayMicros = time.Since(start).Microseconds()
		d.audit(record)
		return nil, err
	}

	verdict := d.ctrl.Admit(desc, estimatedInputTokens)

	outcome := "admitted"
	if !verdict.Admitted {
		outcome = "rejected"
	}
	metrics.DispatchCount.WithLabelValues(outcome).Inc()
	metrics.ResolvedModelCount.WithLabelValues(res.Backend, res.ResolvedModel).Inc()
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	record.ResolvedModel = res.ResolvedModel
	record.Backend = res.Backend
	record.FallbackOccurred = res.FallbackOccurred
	record.Warning = res.Warning
	record.Admitted = verdict.Admitted
	record.InputBudget = verdict.InputBudget
	record.OutputBudget = verdict.OutputBudget
	record.RejectReason = verdict.Reason
	record.GatewayMicros = time.Since(start).Microseconds()
	d.audit(record)

	return &Result{Resolution: res, Admission: verdict}, nil
}

// selectFallback narrows fallback to the pinned backend when PinToScope is
// set; otherwise any enabled backend except opts.ExcludeBackend may serve.
func (d *Dispatcher) selectFallback(opts Options) (string, string, bool) {
	if !opts.PinToScope || opts.BackendScope == "" {
		return d.fallback.Select(opts.ExcludeBackend)
	}
	scope := opts.BackendScope
	for _, id := range d.eval.AllowedModels(scope) {
		if !d.eval.IsAllowed(scope, id) {
			continue
		}
		if canonical, found := d.cat.LookupCanonical(scope, id); found {
			return canonical, models.NormalizeModelName(scope), true
		}
	}
	return "", "", false
}

// audit hands the record to the sink; a full or failed sink must never fail
// the dispatch itself.
func (d *Dispatcher) audit(record *models.DispatchRecord) {
	if err := d.sink.Enqueue(record); err != nil {
		d.logger.Error("Failed to enqueue audit record", "error", err, "id", record.ID)
	}
}

func fallbackWarning(requested, reason, substitute, backend string) string {
	switch reason {
	case "disallowed":
		return fmt.Sprintf("requested model %q is not permitted by the current restrictions; using %q (%s) instead", requested, substitute, backend)
	default:
		return fmt.Sprintf("requested model %q was not recognized; using %q (%s) instead", requested, substitute, backend)
	}
}
