package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/csheth/nutriscout/internal/classifier"
	"github.com/csheth/nutriscout/internal/health"
	"github.com/csheth/nutriscout/internal/logger"
)

// User-facing messages for each failure kind.
const (
	MessageEmptyInput    = "Please enter some ingredients to analyze."
	MessageServerFailure = "Failed to analyze ingredients"
	MessageConnectivity  = "Failed to connect to the server. Please try again."
)

// ErrEmptyInput is the validation failure for blank input.
var ErrEmptyInput = errors.New("no ingredients provided")

// OverlapPolicy decides what a submission does while another is in flight.
type OverlapPolicy string

const (
	// OverlapReject ignores submissions until the outstanding one resolves.
	OverlapReject OverlapPolicy = "reject"
	// OverlapLatest lets submissions through; only the newest generation's
	// completion is applied.
	OverlapLatest OverlapPolicy = "latest"
)

// ParseOverlapPolicy accepts "reject" or "latest". An empty value means
// OverlapReject.
func ParseOverlapPolicy(value string) (OverlapPolicy, error) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", OverlapReject:
		return OverlapReject, nil
	case OverlapLatest:
		return OverlapLatest, nil
	default:
		return "", fmt.Errorf("unknown overlap policy %q (want reject or latest)", value)
	}
}

// Policy groups the behaviour switches of an Orchestrator.
type Policy struct {
	Gauge   health.GaugePolicy
	Overlap OverlapPolicy
}

// Ticket is one accepted submission waiting to be run.
type Ticket struct {
	Generation  uint64
	Ingredients string
}

// Orchestrator validates submissions and turns classifier calls into
// completion events.
type Orchestrator struct {
	client classifier.Client
	policy Policy
	log    *logger.Logger
}

// NewOrchestrator returns an orchestrator over client. A nil log discards
// output.
func NewOrchestrator(client classifier.Client, policy Policy, log *logger.Logger) *Orchestrator {
	if policy.Gauge == "" {
		policy.Gauge = health.GaugePreserve
	}
	if policy.Overlap == "" {
		policy.Overlap = OverlapReject
	}
	return &Orchestrator{client: client, policy: policy, log: log.WithComponent("flow")}
}

// Policy returns the effective policy.
func (o *Orchestrator) Policy() Policy {
	return o.policy
}

// Endpoint names the classifier service requests go to.
func (o *Orchestrator) Endpoint() string {
	return o.client.Endpoint()
}

// Accepts reports whether a submission made in s is processed at all.
func (o *Orchestrator) Accepts(s State) bool {
	return !s.InFlight() || o.policy.Overlap != OverlapReject
}

// Begin validates raw against s. Blank input moves straight to the error
// panel. Valid input moves to loading and yields the ticket to Run. A nil
// ticket means no request must be made.
func (o *Orchestrator) Begin(s State, raw string) (State, *Ticket) {
	if !o.Accepts(s) {
		o.log.Debug("submission ignored while generation %d is in flight", s.Generation)
		return s, nil
	}
	generation := s.Generation + 1
	ingredients := strings.TrimSpace(raw)
	if ingredients == "" {
		o.log.Debug("generation %d rejected: %v", generation, ErrEmptyInput)
		return Transition(s, Rejected{Generation: generation, Message: Message(ErrEmptyInput)}), nil
	}
	return Transition(s, Submitted{Generation: generation}), &Ticket{
		Generation:  generation,
		Ingredients: ingredients,
	}
}

// Run performs the single request for t and reports its completion.
func (o *Orchestrator) Run(ctx context.Context, t Ticket) Event {
	started := time.Now()
	result, err := o.client.Predict(ctx, t.Ingredients)
	if err != nil {
		o.log.WarnWithFields("prediction failed", []logger.Field{
			logger.F("generation", t.Generation),
			logger.Duration(time.Since(started)),
			logger.Err(err),
		})
		return Failed{Generation: t.Generation, Message: Message(err), Err: err}
	}
	o.log.InfoWithFields("prediction received", []logger.Field{
		logger.F("generation", t.Generation),
		logger.F("rating", result.Rating),
		logger.F("level", result.Level),
		logger.Duration(time.Since(started)),
	})
	return Succeeded{Generation: t.Generation, View: health.Render(result, t.Ingredients, o.policy.Gauge)}
}

// Analyze runs one complete submission synchronously: Begin, then Run and
// the completing transition when a ticket was issued.
func (o *Orchestrator) Analyze(ctx context.Context, s State, raw string) State {
	next, ticket := o.Begin(s, raw)
	if ticket == nil {
		return next
	}
	return Transition(next, o.Run(ctx, *ticket))
}

// Message maps an error to the text shown on the error panel. Server errors
// surface their own message when they carry one. Transport and malformed
// response failures share the connectivity message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyInput) {
		return MessageEmptyInput
	}
	var serverErr *classifier.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return MessageServerFailure
	}
	return MessageConnectivity
}
