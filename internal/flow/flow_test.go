package flow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/csheth/nutriscout/internal/classifier"
	"github.com/csheth/nutriscout/internal/health"
)

type fakeClassifier struct {
	calls  []string
	result health.Result
	err    error
}

func (f *fakeClassifier) Predict(ctx context.Context, ingredients string) (health.Result, error) {
	f.calls = append(f.calls, ingredients)
	return f.result, f.err
}

func (f *fakeClassifier) Endpoint() string { return "fake" }

func newTestOrchestrator(client classifier.Client, overlap OverlapPolicy) *Orchestrator {
	return NewOrchestrator(client, Policy{Gauge: health.GaugePreserve, Overlap: overlap}, nil)
}

func TestBlankInputNeverCallsClassifier(t *testing.T) {
	inputs := []string{"", " ", "\t", "\n\n", "   \r\n  "}
	for _, input := range inputs {
		fake := &fakeClassifier{}
		o := newTestOrchestrator(fake, OverlapReject)

		state := o.Analyze(context.Background(), Initial(), input)
		if len(fake.calls) != 0 {
			t.Fatalf("input %q issued %d requests", input, len(fake.calls))
		}
		if state.Panel != PanelError {
			t.Fatalf("input %q ended on %v", input, state.Panel)
		}
		if state.Message != MessageEmptyInput {
			t.Fatalf("input %q message = %q", input, state.Message)
		}
		if !state.TriggerEnabled {
			t.Fatalf("input %q left trigger disabled", input)
		}
	}
}

func TestValidInputIssuesExactlyOneTrimmedRequest(t *testing.T) {
	fake := &fakeClassifier{result: health.Result{Rating: 6, Level: "Good", Color: "#3b82f6"}}
	o := newTestOrchestrator(fake, OverlapReject)

	state := o.Analyze(context.Background(), Initial(), "  oats, milk \n")
	if len(fake.calls) != 1 {
		t.Fatalf("expected one request, got %d", len(fake.calls))
	}
	if fake.calls[0] != "oats, milk" {
		t.Fatalf("request ingredients = %q", fake.calls[0])
	}
	if state.Panel != PanelResults {
		t.Fatalf("expected results panel, got %v", state.Panel)
	}
	if state.View.Ingredients != "oats, milk" {
		t.Fatalf("echoed ingredients = %q", state.View.Ingredients)
	}
	if !state.ScrollToResults {
		t.Fatal("results should request scroll into view")
	}
}

func TestBeginEntersLoadingAndDisablesTrigger(t *testing.T) {
	o := newTestOrchestrator(&fakeClassifier{}, OverlapReject)

	state, ticket := o.Begin(Initial(), "apple")
	if ticket == nil {
		t.Fatal("expected a ticket")
	}
	if state.Panel != PanelLoading {
		t.Fatalf("expected loading, got %v", state.Panel)
	}
	if state.TriggerEnabled {
		t.Fatal("trigger should be disabled while loading")
	}
	if ticket.Generation != state.Generation {
		t.Fatalf("ticket generation %d != state generation %d", ticket.Generation, state.Generation)
	}
}

func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		handler     http.HandlerFunc
		wantPanel   Panel
		wantMessage string
		wantHits    int
	}{
		{
			name:  "excellent result",
			input: "apple, spinach, water",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"rating":9,"level":"Excellent","color":"#2ecc71"}`))
			},
			wantPanel: PanelResults,
			wantHits:  1,
		},
		{
			name:        "empty input",
			input:       "",
			handler:     func(w http.ResponseWriter, r *http.Request) {},
			wantPanel:   PanelError,
			wantMessage: MessageEmptyInput,
			wantHits:    0,
		},
		{
			name:  "server error with message",
			input: "salt",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"model unavailable"}`))
			},
			wantPanel:   PanelError,
			wantMessage: "model unavailable",
			wantHits:    1,
		},
		{
			name:  "server error without message",
			input: "salt",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`bad gateway`))
			},
			wantPanel:   PanelError,
			wantMessage: MessageServerFailure,
			wantHits:    1,
		},
		{
			name:  "malformed success body",
			input: "salt",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"rating":"high"}`))
			},
			wantPanel:   PanelError,
			wantMessage: MessageConnectivity,
			wantHits:    1,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var hits int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits++
				tt.handler(w, r)
			}))
			t.Cleanup(server.Close)

			client := classifier.New(classifier.Config{Endpoint: server.URL, HTTPClient: server.Client()})
			o := newTestOrchestrator(client, OverlapReject)
			state := o.Analyze(context.Background(), Initial(), tt.input)

			if hits != tt.wantHits {
				t.Fatalf("requests = %d, want %d", hits, tt.wantHits)
			}
			if state.Panel != tt.wantPanel {
				t.Fatalf("panel = %v, want %v", state.Panel, tt.wantPanel)
			}
			if state.Message != tt.wantMessage {
				t.Fatalf("message = %q, want %q", state.Message, tt.wantMessage)
			}
			if !state.TriggerEnabled {
				t.Fatal("trigger must end re-enabled")
			}
		})
	}
}

func TestExcellentScenarioView(t *testing.T) {
	fake := &fakeClassifier{result: health.Result{Rating: 9, Level: "Excellent", Color: "#2ecc71"}}
	o := newTestOrchestrator(fake, OverlapReject)

	state := o.Analyze(context.Background(), Initial(), "apple, spinach, water")
	view := state.View
	if view.Rating != "9" || view.Level != "Excellent" || view.Color != "#2ecc71" {
		t.Fatalf("unexpected view: %#v", view)
	}
	if view.Description != health.Describe("Excellent") {
		t.Fatalf("description = %q", view.Description)
	}
	if math.Abs(view.Gauge.DashOffset-53.4) > 1e-9 {
		t.Fatalf("dashOffset = %v, want 53.4", view.Gauge.DashOffset)
	}
}

func TestTransportFailureUsesConnectivityMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	o := newTestOrchestrator(classifier.New(classifier.Config{Endpoint: endpoint}), OverlapReject)
	state := o.Analyze(context.Background(), Initial(), "apple")
	if state.Panel != PanelError {
		t.Fatalf("panel = %v", state.Panel)
	}
	if state.Message != MessageConnectivity {
		t.Fatalf("message = %q", state.Message)
	}
	if !state.TriggerEnabled {
		t.Fatal("trigger must end re-enabled")
	}
}

func TestRejectPolicyIgnoresSubmissionsInFlight(t *testing.T) {
	fake := &fakeClassifier{}
	o := newTestOrchestrator(fake, OverlapReject)

	loading, first := o.Begin(Initial(), "apple")
	if first == nil {
		t.Fatal("expected first ticket")
	}
	again, second := o.Begin(loading, "banana")
	if second != nil {
		t.Fatal("second submission should be ignored while in flight")
	}
	if again != loading {
		t.Fatalf("ignored submission changed state: %#v", again)
	}
	blank, third := o.Begin(loading, "")
	if third != nil || blank != loading {
		t.Fatal("blank submission should also be ignored while in flight")
	}
}

func TestLatestPolicyDiscardsStaleCompletions(t *testing.T) {
	o := newTestOrchestrator(&fakeClassifier{}, OverlapLatest)

	s1, first := o.Begin(Initial(), "apple")
	s2, second := o.Begin(s1, "sugar")
	if first == nil || second == nil {
		t.Fatal("latest policy should accept both submissions")
	}
	if second.Generation <= first.Generation {
		t.Fatalf("generations not increasing: %d then %d", first.Generation, second.Generation)
	}

	newest := Succeeded{Generation: second.Generation, View: health.Render(health.Result{Rating: 1, Level: "Very Poor", Color: "#dc2626"}, "sugar", health.GaugePreserve)}
	stale := Succeeded{Generation: first.Generation, View: health.Render(health.Result{Rating: 9, Level: "Excellent", Color: "#10b981"}, "apple", health.GaugePreserve)}

	done := Transition(s2, newest)
	if done.View.Ingredients != "sugar" {
		t.Fatalf("newest completion not applied: %#v", done.View)
	}
	after := Transition(done, stale)
	if after != done {
		t.Fatalf("stale completion changed state: %#v", after)
	}
	if got := Transition(s2, Failed{Generation: first.Generation, Message: "late"}); got != s2 {
		t.Fatalf("stale failure changed state: %#v", got)
	}
}

func TestLatestPolicyBlankInputSupersedesInFlight(t *testing.T) {
	o := newTestOrchestrator(&fakeClassifier{}, OverlapLatest)

	loading, ticket := o.Begin(Initial(), "apple")
	rejected, none := o.Begin(loading, "  ")
	if none != nil {
		t.Fatal("blank input must not produce a ticket")
	}
	if rejected.Panel != PanelError || !rejected.TriggerEnabled {
		t.Fatalf("unexpected state: %#v", rejected)
	}
	late := Transition(rejected, Failed{Generation: ticket.Generation, Message: "late"})
	if late.Message != MessageEmptyInput {
		t.Fatalf("superseded completion overwrote the error: %q", late.Message)
	}
}

func TestTransitionReplacesPanelWholesale(t *testing.T) {
	results := Transition(Transition(Initial(), Submitted{Generation: 1}), Succeeded{Generation: 1, View: health.View{Rating: "5"}})
	errored := Transition(results, Rejected{Generation: 2, Message: MessageEmptyInput})
	if errored.View != (health.View{}) {
		t.Fatalf("error panel kept results view: %#v", errored.View)
	}
	loading := Transition(errored, Submitted{Generation: 3})
	if loading.Message != "" {
		t.Fatalf("loading panel kept error message: %q", loading.Message)
	}
}

func TestRenderTwiceGivesSameState(t *testing.T) {
	view := health.Render(health.Result{Rating: 4, Level: "Moderate", Color: "#f59e0b"}, "rice, beans", health.GaugePreserve)
	loading := Transition(Initial(), Submitted{Generation: 1})
	once := Transition(loading, Succeeded{Generation: 1, View: view})
	twice := Transition(once, Succeeded{Generation: 1, View: view})
	if once != twice {
		t.Fatalf("rendering twice changed state:\n%#v\n%#v", once, twice)
	}
}

func TestScrollHandledClearsRequest(t *testing.T) {
	s := Transition(Transition(Initial(), Submitted{Generation: 1}), Succeeded{Generation: 1})
	s = Transition(s, ScrollHandled{})
	if s.ScrollToResults {
		t.Fatal("scroll request should be cleared")
	}
	if s.Panel != PanelResults {
		t.Fatalf("scroll acknowledgement changed panel to %v", s.Panel)
	}
}

func TestMessageMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmptyInput, MessageEmptyInput},
		{&classifier.ServerError{StatusCode: 500, Message: "model unavailable"}, "model unavailable"},
		{fmt.Errorf("wrapped: %w", &classifier.ServerError{StatusCode: 400}), MessageServerFailure},
		{fmt.Errorf("%w: dial tcp", classifier.ErrTransport), MessageConnectivity},
		{fmt.Errorf("%w: eof", classifier.ErrMalformedResponse), MessageConnectivity},
		{errors.New("anything else"), MessageConnectivity},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Fatalf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSubmitsOnKey(t *testing.T) {
	if !SubmitsOnKey(Key{Enter: true}) {
		t.Fatal("plain enter should submit")
	}
	if SubmitsOnKey(Key{Enter: true, Shift: true}) {
		t.Fatal("shift+enter should insert a newline")
	}
	if SubmitsOnKey(Key{}) {
		t.Fatal("other keys should not submit")
	}
}

func TestTriggerOpacity(t *testing.T) {
	if got := TriggerOpacity("apple"); got != TriggerOpacityReady {
		t.Fatalf("opacity with text = %v", got)
	}
	if got := TriggerOpacity("  \n "); got != TriggerOpacityPassive {
		t.Fatalf("opacity when blank = %v", got)
	}
}

func TestParseOverlapPolicy(t *testing.T) {
	if p, err := ParseOverlapPolicy(""); err != nil || p != OverlapReject {
		t.Fatalf("empty: %q, %v", p, err)
	}
	if p, err := ParseOverlapPolicy("LATEST"); err != nil || p != OverlapLatest {
		t.Fatalf("latest: %q, %v", p, err)
	}
	if _, err := ParseOverlapPolicy("queue"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
