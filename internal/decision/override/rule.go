package override

import (
	"gatesort/internal/decision"

	"github.com/google/cel-go/cel"
)

// Rule is one operator-defined override applied after the airline rule has
// resolved a disposition. The When field holds a CEL expression over the
// prediction and the already-resolved action; if it evaluates to true, the
// action in Then replaces the resolved one. The CEL program is compiled by
// Init and reused for every evaluation.
//
// Overrides are how richer actions than keep/discard enter the system, e.g.
// routing low-confidence predictions to manual review:
//
//   - when: confidence < 0.5
//     then: review
type Rule struct {
	// When — CEL expression defining the override condition.
	// Must return a boolean value.
	When string `yaml:"when"`
	// Then — action that replaces the resolved disposition when the
	// condition is true.
	Then decision.Disposition `yaml:"then"`
	// program — compiled CEL program used to execute the condition.
	program cel.Program
}

// NewPredictionEnv builds the CEL environment override expressions are
// checked against: the normalized prediction fields plus the action the
// airline rule resolved.
func NewPredictionEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("fileName", cel.StringType),
		cel.Variable("confidence", cel.DoubleType),
		cel.Variable("predictedClass", cel.StringType),
		cel.Variable("action", cel.StringType),
	)
}

// Init compiles the string expression in the When field into an executable
// CEL program using the provided env environment.
// In case of syntax or semantic errors, returns the corresponding error.
// After successful initialization, the rule is ready for use in Eval.
func (r *Rule) Init(env *cel.Env) error {
	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}

	var err error
	r.program, err = env.Program(checked)
	if err != nil {
		return err
	}

	return nil
}

// Eval executes the compiled rule against one prediction and its resolved
// action. Returns the replacement action and true when the condition holds.
// On evaluation errors or a false condition the incoming action is returned
// unchanged — a broken override never interrupts the batch.
func (r *Rule) Eval(p decision.RawPrediction, action decision.Disposition) (decision.Disposition, bool) {
	result, _, err := r.program.Eval(map[string]any{
		"fileName":       p.FileName,
		"confidence":     p.Confidence,
		"predictedClass": string(p.PredictedClass),
		"action":         string(action),
	})
	if err != nil || result.Value() == false {
		return action, false
	}

	return r.Then, true
}

// Apply runs every rule, in declaration order, over each resolved action.
// Later rules see (and may replace) the action produced by earlier ones.
// predictions and actions correspond index-for-index, as produced by
// decision.ResolveActions.
func Apply(rules []Rule, predictions []decision.RawPrediction, actions []decision.BottleAction) []decision.BottleAction {
	if len(rules) == 0 {
		return actions
	}

	for i := range actions {
		for r := range rules {
			actions[i].Action, _ = rules[r].Eval(predictions[i], actions[i].Action)
		}
	}
	return actions
}
