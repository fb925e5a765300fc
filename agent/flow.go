package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/formdialog/command"
	"github.com/tbxark/formdialog/dialogue"
	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/patch"
	"github.com/tbxark/formdialog/step"
	"github.com/tbxark/formdialog/types"
)

// ErrFormClosed is returned for input to a confirmed or cancelled session.
var ErrFormClosed = errors.New("form is closed")

const (
	completedMessage   = "Thank you, the form is complete."
	cancelledMessage   = "The form was cancelled."
	nothingBackMessage = "There is nothing to go back to."
)

// FormFlow drives a Form one user turn at a time.
type FormFlow[T any] struct {
	form              *Form[T]
	commandParser     command.Parser
	dialogueGenerator dialogue.Generator
	manager           FormManager[T]
	initial           func(ctx context.Context) T
}

type Option[T any] func(*FormFlow[T])

func WithCommandParser[T any](parser command.Parser) Option[T] {
	return func(f *FormFlow[T]) {
		f.commandParser = parser
	}
}

func WithDialogueGenerator[T any](generator dialogue.Generator) Option[T] {
	return func(f *FormFlow[T]) {
		f.dialogueGenerator = generator
	}
}

func WithManager[T any](manager FormManager[T]) Option[T] {
	return func(f *FormFlow[T]) {
		f.manager = manager
	}
}

// WithInitialModel sets the model new and reset sessions start from. Values
// it fills in count as already answered.
func WithInitialModel[T any](initial func(ctx context.Context) T) Option[T] {
	return func(f *FormFlow[T]) {
		f.initial = initial
	}
}

func NewFormFlow[T any](form *Form[T], opts ...Option[T]) (*FormFlow[T], error) {
	if form == nil {
		return nil, fmt.Errorf("form is required")
	}
	flow := &FormFlow[T]{
		form:              form,
		commandParser:     command.NewLocalCommandParser(),
		dialogueGenerator: &dialogue.LocalDialogueGenerator{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(flow)
		}
	}
	return flow, nil
}

// NewToolBasedFormFlow parses commands and phrases replies with chatModel,
// falling back to the local parser and the form's own text when it fails.
func NewToolBasedFormFlow[T any](form *Form[T], chatModel model.ToolCallingChatModel, opts ...Option[T]) (*FormFlow[T], error) {
	parser, err := command.NewToolBasedCommandParser(chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool-based command parser: %w", err)
	}
	base := []Option[T]{
		WithCommandParser[T](command.NewFailbackCommandParser(parser, command.NewLocalCommandParser())),
		WithDialogueGenerator[T](dialogue.NewFailbackDialogueGenerator(
			dialogue.NewToolBasedDialogueGenerator(chatModel),
			&dialogue.LocalDialogueGenerator{},
		)),
	}
	return NewFormFlow(form, append(base, opts...)...)
}

func (a *FormFlow[T]) Form() *Form[T] {
	return a.form
}

func (a *FormFlow[T]) JSONSchema() (string, error) {
	return a.form.JSONSchema()
}

// NewSession returns a session that has not shown its first prompt yet.
func (a *FormFlow[T]) NewSession(ctx context.Context) *Session[T] {
	if a.initial != nil {
		return NewSession(a.initial(ctx))
	}
	var zero T
	return NewSession(zero)
}

// turn collects what one Invoke says back.
type turn struct {
	feedback []string
	prompt   []string
}

func (t *turn) say(feedback, prompt string) {
	if feedback != "" {
		t.feedback = append(t.feedback, feedback)
	}
	if prompt != "" {
		t.prompt = append(t.prompt, prompt)
	}
}

// Invoke handles one user turn. The session in input is left untouched; the
// response carries the new one.
func (a *FormFlow[T]) Invoke(ctx context.Context, input *Request[T]) (*Response[T], error) {
	if input.Session == nil {
		input.Session = a.NewSession(ctx)
	}
	if input.Session.Closed() {
		return nil, ErrFormClosed
	}
	sess := input.Session.Clone()
	out := &turn{}

	var err error
	if !sess.Started {
		err = a.start(ctx, sess, out)
	} else {
		err = a.runInternal(ctx, sess, input.UserInput, out)
	}
	if err != nil {
		return nil, err
	}

	req := &dialogue.Request{
		Phase:         sess.Phase,
		Step:          sess.Step,
		LastUserInput: input.UserInput,
		Feedback:      strings.Join(out.feedback, "\n"),
		Prompt:        strings.Join(out.prompt, "\n"),
	}
	slog.Debug("Generating dialogue", "step", sess.Step, "phase", sess.Phase)
	message, err := a.dialogueGenerator.GenerateDialogue(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dialogue: %w", err)
	}
	if len(out.prompt) > 0 {
		sess.LatestQuestion = req.Prompt
	}
	return &Response[T]{
		Message: message,
		Session: sess,
		Metadata: map[string]string{
			"phase": string(sess.Phase),
			"step":  sess.Step,
		},
	}, nil
}

func (a *FormFlow[T]) start(ctx context.Context, sess *Session[T], out *turn) error {
	sess.Started = true
	prefilled, err := patch.Prefilled(sess.Model)
	if err != nil {
		return err
	}
	for _, f := range a.form.Fields().All() {
		if pointer := field.Pointer(f); pointer != "" && slices.Contains(prefilled, pointer) {
			slog.Debug("Field prefilled", "field", f.Name())
			sess.Completed[f.Name()] = true
		}
	}
	return a.advance(ctx, sess, types.Next(), out)
}

func (a *FormFlow[T]) runInternal(ctx context.Context, sess *Session[T], input string, out *turn) error {
	cur, err := a.current(ctx, sess)
	if err != nil {
		return err
	}
	if cur == nil {
		return a.advance(ctx, sess, types.Next(), out)
	}

	slog.Debug("Parsing command", "step", sess.Step)
	cmd, err := a.commandParser.ParseCommand(ctx, &command.Request{Question: sess.LatestQuestion, Answer: input})
	if err != nil {
		return fmt.Errorf("failed to parse command: %w", err)
	}
	slog.Debug("Parsed command", "command", cmd)

	switch cmd {
	case command.Quit:
		return a.finish(ctx, sess, types.PhaseCancelled, out)
	case command.Reset:
		*sess = *a.NewSession(ctx)
		return a.start(ctx, sess, out)
	case command.Status:
		out.say(a.form.Summary(sess.Model), sess.LatestQuestion)
		return nil
	case command.Help:
		text, hErr := cur.Help(ctx, sess.Model, sess.Form, command.Describe(command.All...))
		if hErr != nil {
			return hErr
		}
		out.say(text, "")
		return nil
	case command.Back:
		return a.back(ctx, sess, cur, out)
	}

	matches, err := cur.Match(ctx, sess.Model, sess.Form, input)
	if err != nil {
		return fmt.Errorf("failed to match input: %w", err)
	}
	slog.Debug("Processing step", "step", cur.Name(), "matches", len(matches))
	if len(matches) == 0 {
		text, nErr := cur.NotUnderstood(ctx, sess.Model, sess.Form, input)
		if nErr != nil {
			return nErr
		}
		out.say(text, "")
		return nil
	}

	form, result, err := cur.Process(ctx, &sess.Model, sess.Form, input, matches)
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", cur.Name(), err)
	}
	sess.Form = form
	out.say(result.Feedback, result.Prompt)

	switch form.Phase {
	case types.StepCompleted:
		a.complete(sess, cur)
		next := types.Next()
		if result.Next != nil {
			next = *result.Next
		}
		return a.advance(ctx, sess, next, out)
	case types.StepReady:
		if cur.Kind() == step.KindConfirm {
			return a.navigate(ctx, sess, cur, out)
		}
		return a.enter(ctx, sess, cur, out)
	default:
		return nil
	}
}

// current resolves the step waiting for input.
func (a *FormFlow[T]) current(ctx context.Context, sess *Session[T]) (step.Interactive[T], error) {
	if sess.Step == "" {
		return nil, nil
	}
	if sess.Step == step.NavigationName {
		confirm, err := a.lastConfirm(sess)
		if err != nil {
			return nil, err
		}
		return a.navigation(ctx, sess, confirm)
	}
	s, ok := a.form.Step(sess.Step)
	if !ok {
		return nil, fmt.Errorf("%w: %s", field.ErrUnknownField, sess.Step)
	}
	interactive, ok := s.(step.Interactive[T])
	if !ok {
		return nil, fmt.Errorf("step %s takes no input", s.Name())
	}
	return interactive, nil
}

func (a *FormFlow[T]) complete(sess *Session[T], s step.Interactive[T]) {
	if s.Kind() == step.KindNavigation {
		return
	}
	sess.Completed[s.Name()] = true
	sess.History = append(sess.History, s.Name())
	for _, other := range a.form.Steps() {
		dependent, ok := other.(step.Interactive[T])
		if !ok || other.Name() == s.Name() {
			continue
		}
		if slices.Contains(dependent.Dependencies(), s.Name()) && sess.Completed[other.Name()] {
			slog.Debug("Invalidating dependent step", "step", other.Name(), "changed", s.Name())
			delete(sess.Completed, other.Name())
		}
	}
}

// advance starts the step next asks for, showing any messages on the way.
func (a *FormFlow[T]) advance(ctx context.Context, sess *Session[T], next types.NextStep, out *turn) error {
	switch next.Direction {
	case types.DirectionQuit:
		return a.finish(ctx, sess, types.PhaseCancelled, out)
	case types.DirectionReset:
		*sess = *a.NewSession(ctx)
		return a.start(ctx, sess, out)
	case types.DirectionNamed:
		for _, name := range next.Names {
			s, ok := a.form.Step(name)
			if !ok || !s.Active(sess.Model) {
				continue
			}
			if interactive, ok := s.(step.Interactive[T]); ok {
				return a.enter(ctx, sess, interactive, out)
			}
		}
	}

	for _, s := range a.form.Steps() {
		if sess.Completed[s.Name()] || !s.Active(sess.Model) {
			continue
		}
		interactive, ok := s.(step.Interactive[T])
		if !ok {
			_, text, err := s.Start(ctx, sess.Model, step.FormState{})
			if err != nil {
				return err
			}
			sess.Completed[s.Name()] = true
			out.say("", text)
			continue
		}
		return a.enter(ctx, sess, interactive, out)
	}
	return a.finish(ctx, sess, types.PhaseConfirmed, out)
}

func (a *FormFlow[T]) enter(ctx context.Context, sess *Session[T], s step.Interactive[T], out *turn) error {
	form, text, err := s.Start(ctx, sess.Model, step.FormState{Phase: types.StepReady})
	if err != nil {
		return err
	}
	sess.Step = s.Name()
	sess.Form = form
	switch s.Kind() {
	case step.KindConfirm:
		sess.Phase = types.PhaseConfirming
	case step.KindField:
		sess.Phase = types.PhaseCollecting
	}
	slog.Debug("Entered step", "step", s.Name(), "phase", sess.Phase)
	out.say("", text)
	return nil
}

// navigate offers the answers confirm covers for change after a "no". A
// confirmation of a single answer reopens that answer directly.
func (a *FormFlow[T]) navigate(ctx context.Context, sess *Session[T], confirm step.Interactive[T], out *turn) error {
	delete(sess.Completed, confirm.Name())
	eligible := a.eligible(sess, confirm)
	if len(eligible) == 0 {
		return a.enter(ctx, sess, confirm, out)
	}
	sess.History = append(sess.History, confirm.Name())
	if len(eligible) == 1 {
		return a.enter(ctx, sess, eligible[0], out)
	}
	nav, err := a.navigation(ctx, sess, confirm)
	if err != nil {
		return err
	}
	return a.enter(ctx, sess, nav, out)
}

func (a *FormFlow[T]) eligible(sess *Session[T], confirm step.Interactive[T]) []*step.FieldStep[T] {
	deps := confirm.Dependencies()
	var out []*step.FieldStep[T]
	for _, s := range a.form.Steps() {
		fs, ok := s.(*step.FieldStep[T])
		if !ok || !sess.Completed[s.Name()] || !s.Active(sess.Model) {
			continue
		}
		if len(deps) > 0 && !slices.Contains(deps, s.Name()) {
			continue
		}
		out = append(out, fs)
	}
	return out
}

func (a *FormFlow[T]) navigation(ctx context.Context, sess *Session[T], confirm step.Interactive[T]) (step.Interactive[T], error) {
	steps := a.eligible(sess, confirm)
	if len(steps) == 0 {
		return nil, nil
	}
	fields := make([]field.Field[T], 0, len(steps))
	for _, fs := range steps {
		fields = append(fields, fs.Field())
	}
	return step.NewNavigationStep(ctx, sess.Model, fields)
}

func (a *FormFlow[T]) lastConfirm(sess *Session[T]) (step.Interactive[T], error) {
	for i := len(sess.History) - 1; i >= 0; i-- {
		s, ok := a.form.Step(sess.History[i])
		if ok && s.Kind() == step.KindConfirm {
			return s.(step.Interactive[T]), nil
		}
	}
	return nil, fmt.Errorf("navigation without a confirmation: %w", step.ErrNoStepState)
}

// back undoes progress inside the current step, or reopens the step
// answered before it.
func (a *FormFlow[T]) back(ctx context.Context, sess *Session[T], cur step.Interactive[T], out *turn) error {
	form, ok, err := cur.Back(&sess.Model, sess.Form)
	if err != nil {
		return err
	}
	sess.Form = form
	if ok {
		return a.enter(ctx, sess, cur, out)
	}
	for len(sess.History) > 0 {
		prev := sess.History[len(sess.History)-1]
		sess.History = sess.History[:len(sess.History)-1]
		s, found := a.form.Step(prev)
		interactive, isInteractive := s.(step.Interactive[T])
		if !found || !isInteractive || !s.Active(sess.Model) {
			continue
		}
		delete(sess.Completed, prev)
		return a.enter(ctx, sess, interactive, out)
	}
	out.say(nothingBackMessage, sess.LatestQuestion)
	return nil
}

func (a *FormFlow[T]) finish(ctx context.Context, sess *Session[T], phase types.Phase, out *turn) error {
	sess.Phase = phase
	sess.Step = ""
	sess.Form = step.FormState{}
	if a.manager != nil {
		var err error
		if phase == types.PhaseConfirmed {
			err = a.manager.Submit(ctx, sess.Model)
		} else {
			err = a.manager.Cancel(ctx, sess.Model)
		}
		if err != nil {
			return fmt.Errorf("failed to close form: %w", err)
		}
	}
	if phase == types.PhaseConfirmed {
		out.say("", completedMessage)
	} else {
		out.say("", cancelledMessage)
	}
	return nil
}
