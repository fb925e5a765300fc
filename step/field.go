package step

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/recognize"
	"github.com/tbxark/formdialog/types"
)

var _ Interactive[any] = (*FieldStep[any])(nil)

// FieldStep asks for one field, clarifies ambiguous replies one ambiguity at
// a time and settles the field once every ambiguity is resolved.
type FieldStep[T any] struct {
	field field.Field[T]
}

func NewFieldStep[T any](f field.Field[T]) *FieldStep[T] {
	return &FieldStep[T]{field: f}
}

func (s *FieldStep[T]) Field() field.Field[T] {
	return s.field
}

func (s *FieldStep[T]) Name() string {
	return s.field.Name()
}

func (s *FieldStep[T]) Kind() Kind {
	return KindField
}

func (s *FieldStep[T]) Active(model T) bool {
	return s.field.Active(model)
}

func (s *FieldStep[T]) Dependencies() []string {
	return nil
}

func (s *FieldStep[T]) Start(ctx context.Context, model T, form FormState) (FormState, string, error) {
	text, err := s.render(ctx, model, prompt.UsagePrompt, s.field.Recognizer(), nil)
	if err != nil {
		return form, "", err
	}
	out := form.Clone()
	out.Phase = types.StepResponding
	out.Field = &FieldStepState{SubPhase: SentPrompt}
	return out, text, nil
}

func (s *FieldStep[T]) Match(ctx context.Context, model T, form FormState, input string) ([]types.TermMatch, error) {
	if form.Field == nil {
		return nil, fmt.Errorf("match %s: %w", s.Name(), ErrNoStepState)
	}
	if form.Field.SubPhase != SentClarify {
		current, err := s.field.Value(model)
		if err != nil {
			return nil, err
		}
		return s.field.Recognizer().Matches(ctx, input, current)
	}

	idx, ok := form.Field.active()
	if !ok {
		return nil, fmt.Errorf("match %s: no ambiguity to clarify: %w", s.Name(), ErrNoStepState)
	}
	scoped := s.scoped(form.Field.Pending[idx])
	matches, err := scoped.Matches(ctx, input, nil)
	if err != nil {
		return nil, err
	}
	matches = recognize.Coalesce(recognize.HighestConfidence(matches), input)
	if len(recognize.DistinctValues(matches)) != 1 {
		return nil, nil
	}
	return matches[:1], nil
}

func (s *FieldStep[T]) Process(ctx context.Context, model *T, form FormState, input string, matches []types.TermMatch) (FormState, Result, error) {
	if form.Field == nil {
		return form, Result{}, fmt.Errorf("process %s: %w", s.Name(), ErrNoStepState)
	}
	slog.Debug("Processing field step", "field", s.Name(), "sub_phase", form.Field.SubPhase, "matches", len(matches))
	if form.Field.SubPhase == SentClarify {
		return s.processClarify(ctx, model, form, matches)
	}

	out := form.Clone()
	state := out.Field
	state.Unmatched = s.unmatched(input, matches)

	switch len(matches) {
	case 0:
		return out, Result{}, nil
	case 1:
		return s.settle(ctx, model, out, matches[0].Value)
	}

	groups := recognize.GroupedMatches(matches)
	if !s.field.AllowsMultiple() {
		groups = [][]types.TermMatch{matches}
	}
	var settled []any
	var pending []Ambiguity
	for _, group := range groups {
		distinct := recognize.DistinctValues(group)
		if len(distinct) == 1 {
			settled = appendValues(settled, distinct[0])
			continue
		}
		pending = append(pending, Ambiguity{
			Description: describe(input, group),
			Candidates:  distinct,
		})
	}

	if len(pending) == 0 {
		return s.settle(ctx, model, out, s.collapse(settled))
	}

	state.SubPhase = SentClarify
	state.Settled = settled
	state.Pending = pending
	text, err := s.clarify(ctx, *model, state)
	if err != nil {
		return form, Result{}, err
	}
	if err := s.field.SetUnknown(model); err != nil {
		return form, Result{}, err
	}
	return out, Result{Prompt: text}, nil
}

func (s *FieldStep[T]) processClarify(ctx context.Context, model *T, form FormState, matches []types.TermMatch) (FormState, Result, error) {
	if len(matches) != 1 {
		return form, Result{}, nil
	}
	idx, ok := form.Field.active()
	if !ok {
		return form, Result{}, fmt.Errorf("process %s: no ambiguity to clarify: %w", s.Name(), ErrNoStepState)
	}
	out := form.Clone()
	state := out.Field
	state.Settled = appendValues(state.Settled, matches[0].Value)
	state.Pending = slices.Delete(state.Pending, idx, idx+1)

	if _, more := state.active(); more {
		text, err := s.clarify(ctx, *model, state)
		if err != nil {
			return form, Result{}, err
		}
		return out, Result{Prompt: text}, nil
	}
	return s.settle(ctx, model, out, s.collapse(state.Settled))
}

// settle validates value and completes the field. A rejected value restarts
// the field: the validator message is returned as feedback together with the
// field prompt.
func (s *FieldStep[T]) settle(ctx context.Context, model *T, out FormState, value any) (FormState, Result, error) {
	if err := s.field.Validate(*model, value); err != nil {
		text, rErr := s.render(ctx, *model, prompt.UsagePrompt, s.field.Recognizer(), nil)
		if rErr != nil {
			return out, Result{}, rErr
		}
		out.Phase = types.StepResponding
		out.Field = &FieldStepState{SubPhase: SentPrompt}
		return out, Result{Feedback: err.Error(), Prompt: text}, nil
	}

	var feedback string
	if unmatched := out.Field.Unmatched; unmatched != nil {
		usage := prompt.UsageFeedback
		if *unmatched != "" {
			usage = prompt.UsageFeedbackUnmatched
		}
		text, err := s.render(ctx, *model, usage, nil, prompt.Vars{
			prompt.VarValue:     s.display(value),
			prompt.VarUnmatched: *unmatched,
		})
		if err != nil {
			return out, Result{}, err
		}
		feedback = text
	}

	if err := s.field.SetValue(model, value); err != nil {
		return out, Result{}, err
	}
	out.Phase = types.StepCompleted
	out.Field = nil
	next := s.field.Next(value, *model)
	return out, Result{Next: &next, Feedback: feedback}, nil
}

// Back leaves clarification, keeping what was settled so far.
func (s *FieldStep[T]) Back(model *T, form FormState) (FormState, bool, error) {
	if form.Field == nil {
		return form, false, fmt.Errorf("back %s: %w", s.Name(), ErrNoStepState)
	}
	if form.Field.SubPhase != SentClarify {
		return form, false, nil
	}
	if settled := form.Field.Settled; len(settled) > 0 {
		var value any = settled[0]
		if s.field.AllowsMultiple() {
			value = slices.Clone(settled)
		}
		if err := s.field.SetValue(model, value); err != nil {
			return form, false, err
		}
	}
	out := form.Clone()
	out.Phase = types.StepReady
	out.Field = nil
	return out, true, nil
}

func (s *FieldStep[T]) Help(ctx context.Context, model T, form FormState, commands string) (string, error) {
	if form.Field == nil {
		return "", fmt.Errorf("help %s: %w", s.Name(), ErrNoStepState)
	}
	if form.Field.SubPhase == SentClarify {
		idx, ok := form.Field.active()
		if !ok {
			return "", fmt.Errorf("help %s: no ambiguity to clarify: %w", s.Name(), ErrNoStepState)
		}
		scoped := s.scoped(form.Field.Pending[idx])
		return asBullet(s.render(ctx, model, prompt.UsageHelpClarify, scoped, prompt.Vars{
			prompt.VarHelp:     bullet(scoped.Help(nil)),
			prompt.VarCommands: commands,
		}))
	}
	current, err := s.field.Value(model)
	if err != nil {
		return "", err
	}
	r := s.field.Recognizer()
	return asBullet(s.render(ctx, model, prompt.UsageHelp, r, prompt.Vars{
		prompt.VarHelp:     bullet(r.Help(current)),
		prompt.VarCommands: commands,
	}))
}

func (s *FieldStep[T]) NotUnderstood(ctx context.Context, model T, form FormState, input string) (string, error) {
	vars := prompt.Vars{prompt.VarInput: input}
	if form.Field != nil && form.Field.SubPhase == SentClarify {
		vars[prompt.VarField] = ""
	}
	return s.render(ctx, model, prompt.UsageNotUnderstood, nil, vars)
}

func (s *FieldStep[T]) clarify(ctx context.Context, model T, state *FieldStepState) (string, error) {
	idx, ok := state.active()
	if !ok {
		return "", ErrNoStepState
	}
	amb := state.Pending[idx]
	return s.render(ctx, model, prompt.UsageClarify, s.scoped(amb), prompt.Vars{
		prompt.VarInput: amb.Description,
	})
}

func (s *FieldStep[T]) scoped(amb Ambiguity) *recognize.Enumeration {
	return recognize.Scope(amb.Candidates, s.field.Recognizer(), s.field.Template(prompt.UsageClarify).AllowNumbers)
}

func (s *FieldStep[T]) render(ctx context.Context, model T, usage prompt.Usage, r recognize.Recognizer, extra prompt.Vars) (string, error) {
	text, err := render(ctx, s.field.Template(usage), r, s.field.Vars(model), extra)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", s.Name(), err)
	}
	return text, nil
}

// unmatched applies the feedback policy to the words of input no match
// explains. A nil result means nothing is echoed.
func (s *FieldStep[T]) unmatched(input string, matches []types.TermMatch) *string {
	policy := s.field.Template(prompt.UsageFeedback).Feedback
	if policy == types.FeedbackNever {
		return nil
	}
	words := recognize.NonNoiseWords(recognize.WordBreak(strings.Join(recognize.Unmatched(input, matches), " ")))
	if len(words) == 0 && policy != types.FeedbackAlways {
		return nil
	}
	text := strings.Join(words, " ")
	return &text
}

func (s *FieldStep[T]) collapse(settled []any) any {
	if s.field.AllowsMultiple() {
		return settled
	}
	if len(settled) == 0 {
		return nil
	}
	return settled[0]
}

func (s *FieldStep[T]) display(value any) string {
	values := recognize.Flatten(value)
	if len(values) == 0 {
		return types.DisplayValue(nil)
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, s.field.Recognizer().ValueDescription(v))
	}
	return strings.Join(parts, ", ")
}

func appendValues(settled []any, value any) []any {
	for _, v := range recognize.Flatten(value) {
		if !recognize.ContainsValue(settled, v) {
			settled = append(settled, v)
		}
	}
	return settled
}

// describe joins the distinct substrings a group of matches spans.
func describe(input string, group []types.TermMatch) string {
	var parts []string
	for _, m := range group {
		if m.Start < 0 || m.End() > len(input) {
			continue
		}
		text := input[m.Start:m.End()]
		if !slices.Contains(parts, text) {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
