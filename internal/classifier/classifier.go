// Package classifier assigns an intent category to an inbound inquiry.
// Classification is pure string analysis over the lead's free-text fields:
// deterministic, no I/O, no model calls. Rules run in a fixed precedence
// order that encodes business priority — a legal trigger outranks
// everything, a happy client outranks intent scoring, and ambiguity always
// resolves to noise so sales attention is never over-committed.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type Input struct {
	Name   string
	Email  string
	Market string
	Role   string
	Pain   string
}

type Result struct {
	Classification    string
	RecommendedAction string
	Signals           entity.Signals
	Rationale         string
}

// rule inspects the lowered full text and either claims the inquiry with a
// Result or passes by returning nil. First claim wins.
type rule func(text string, signals *entity.Signals) *Result

var rules = []rule{
	riskRule,
	reputationRule,
	intentRule,
}

// Classify maps a lead's fields to an intent category, an explanation, and
// a recommended next action.
func Classify(in Input) Result {
	text := strings.ToLower(in.Pain + " " + in.Role + " " + in.Market)

	signals := entity.Signals{
		LocationSpecificity: in.Market,
		ReadinessIndicators: []string{},
		RiskTriggers:        []string{},
	}
	if signals.LocationSpecificity == "" {
		signals.LocationSpecificity = "Not specified"
	}

	for _, r := range rules {
		if res := r(text, &signals); res != nil {
			return *res
		}
	}

	// Unreachable: intentRule always claims.
	return Result{Classification: entity.ClassificationNoise, Signals: signals}
}

var riskKeywords = []string{
	"lawsuit", "legal", "attorney", "dispute", "fraud", "complaint",
	"scam", "threatened", "threatening", "sue", "suing", "court",
	"lawyer", "illegal", "violation", "breach", "compliance",
}

// riskRule has the highest precedence: any legal or compliance trigger
// escalates regardless of every other signal.
func riskRule(text string, signals *entity.Signals) *Result {
	for _, k := range riskKeywords {
		if strings.Contains(text, k) {
			signals.RiskTriggers = append(signals.RiskTriggers, k)
		}
	}
	if len(signals.RiskTriggers) == 0 {
		return nil
	}

	signals.TimelineClarity = "Urgent - immediate attention required"
	return &Result{
		Classification:    entity.ClassificationRisk,
		RecommendedAction: "Escalate to compliance team immediately",
		Signals:           *signals,
		Rationale:         "Legal/compliance matter detected. Potential liability exposure requiring immediate escalation to reduce risk.",
	}
}

var reputationKeywords = []string{
	"review", "testimonial", "feedback", "referral", "recommend",
	"excellent experience", "great service", "thank you", "appreciation",
	"satisfied", "happy with", "exceeded expectations",
}

func reputationRule(text string, signals *entity.Signals) *Result {
	matched := false
	for _, k := range reputationKeywords {
		if strings.Contains(text, k) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	signals.ReadinessIndicators = append(signals.ReadinessIndicators, "Positive sentiment expressed")
	if strings.Contains(text, "review") || strings.Contains(text, "testimonial") {
		signals.ReadinessIndicators = append(signals.ReadinessIndicators, "Review intent")
	}
	if strings.Contains(text, "refer") || strings.Contains(text, "recommend") {
		signals.ReadinessIndicators = append(signals.ReadinessIndicators, "Referral intent")
	}

	return &Result{
		Classification:    entity.ClassificationReputation,
		RecommendedAction: "Send review request + referral form",
		Signals:           *signals,
		Rationale:         "Satisfied client offering reputation boost through review or referrals. High-value engagement opportunity to capture testimonial and potential new leads.",
	}
}

var (
	urgentTimeline = []string{"asap", "urgent", "immediately", "this week", "this month", "need to move"}
	clearTimeline  = []string{"next month", "by march", "by april", "q1", "q2", "spring", "summer"}
	vagueTimeline  = []string{"someday", "eventually", "maybe", "thinking about", "just browsing", "not sure"}
)

// readinessSignals maps keywords to deduplicated indicator labels; every
// matching entry is collected, not just the first.
var readinessSignals = []struct {
	keyword string
	label   string
}{
	{"preapproved", "Preapproved for financing"},
	{"pre-approved", "Preapproved for financing"},
	{"cash buyer", "Cash buyer"},
	{"ready to buy", "Stated readiness to purchase"},
	{"looking to purchase", "Active purchase intent"},
	{"need to sell", "Active selling intent"},
	{"specific budget", "Budget defined"},
	{"budget of", "Budget defined"},
	{"$", "Budget mentioned"},
	{"beds", "Specific property requirements"},
	{"bedroom", "Specific property requirements"},
	{"square feet", "Specific property requirements"},
	{"sq ft", "Specific property requirements"},
}

var bedroomPattern = regexp.MustCompile(`(?i)\d+\s*(bed|br|bedroom)`)

var noiseIndicators = []string{
	"just looking", "just browsing", "curious", "information only",
	"what are your fees", "how much", "rates", "not ready",
	"not sure", "might", "could", "would you", "do you have",
}

// intentRule separates opportunity from noise using three independent
// signal axes: timeline clarity, readiness indicators, property clarity.
// It always claims the inquiry; the default is noise.
func intentRule(text string, signals *entity.Signals) *Result {
	switch {
	case containsAny(text, urgentTimeline):
		signals.TimelineClarity = "Urgent timeline indicated"
		signals.ReadinessIndicators = append(signals.ReadinessIndicators, "Time-sensitive requirement")
	case containsAny(text, clearTimeline):
		signals.TimelineClarity = "Clear timeline provided"
		signals.ReadinessIndicators = append(signals.ReadinessIndicators, "Defined timeline")
	case containsAny(text, vagueTimeline):
		signals.TimelineClarity = "Vague or no timeline"
	}

	for _, rs := range readinessSignals {
		if strings.Contains(text, rs.keyword) && !containsLabel(signals.ReadinessIndicators, rs.label) {
			signals.ReadinessIndicators = append(signals.ReadinessIndicators, rs.label)
		}
	}

	switch {
	case bedroomPattern.MatchString(text):
		signals.PropertyClarity = "Specific bedroom count mentioned"
	case strings.Contains(text, "commercial") || strings.Contains(text, "office") || strings.Contains(text, "retail"):
		signals.PropertyClarity = "Commercial property specified"
	case strings.Contains(text, "land") || strings.Contains(text, "lot"):
		signals.PropertyClarity = "Land/lot specified"
	default:
		signals.PropertyClarity = "Property type not clearly specified"
	}

	hasNoiseSignal := containsAny(text, noiseIndicators)
	hasStrongReadiness := len(signals.ReadinessIndicators) >= 2
	hasTimeline := signals.TimelineClarity != "" && !strings.Contains(signals.TimelineClarity, "Vague")
	hasPropertyClarity := !strings.Contains(signals.PropertyClarity, "not clearly")

	if hasStrongReadiness && hasTimeline {
		return &Result{
			Classification:    entity.ClassificationOpportunity,
			RecommendedAction: "Route to sales team immediately - high-intent lead",
			Signals:           *signals,
			Rationale: fmt.Sprintf(
				"Qualified lead with %d readiness indicators and clear timeline. High probability of conversion. Immediate follow-up recommended.",
				len(signals.ReadinessIndicators)),
		}
	}

	if (hasStrongReadiness || hasTimeline) && hasPropertyClarity {
		return &Result{
			Classification:    entity.ClassificationOpportunity,
			RecommendedAction: "Route to sales team for qualification call",
			Signals:           *signals,
			Rationale:         "Lead shows definite intent with some readiness signals. Worth sales team attention for qualification and nurturing.",
		}
	}

	if hasNoiseSignal || (!hasTimeline && len(signals.ReadinessIndicators) == 0) {
		return &Result{
			Classification:    entity.ClassificationNoise,
			RecommendedAction: "Add to long-term nurture sequence",
			Signals:           *signals,
			Rationale:         "Early-stage browser with no clear intent or timeline. Automated nurture sequence appropriate to maintain engagement without immediate sales resource allocation.",
		}
	}

	return &Result{
		Classification:    entity.ClassificationNoise,
		RecommendedAction: "Add to general nurture sequence",
		Signals:           *signals,
		Rationale:         "Insufficient signals to determine clear intent. Add to nurture sequence for future engagement opportunities.",
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
