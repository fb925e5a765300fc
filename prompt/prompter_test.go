package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formdialog/recognize"
	"github.com/tbxark/formdialog/types"
)

func TestRenderDefaults(t *testing.T) {
	p := NewPrompter(Default(UsagePrompt), nil)
	text, err := p.Render(context.Background(), Vars{VarField: "Bread"})
	require.NoError(t, err)
	assert.Equal(t, "Please enter Bread.", text)
}

func TestRenderChoices(t *testing.T) {
	r := recognize.NewEnumeration([]any{"white", "whole-wheat"})
	p := NewPrompter(Template{Usage: UsagePrompt, Pattern: ChoicePattern, AllowNumbers: true}, r)
	text, err := p.Render(context.Background(), Vars{VarField: "Bread"})
	require.NoError(t, err)
	assert.Equal(t, "Please select Bread:\n1. White\n2. Whole Wheat", text)

	p = NewPrompter(Template{Usage: UsagePrompt, Pattern: ChoicePattern}, r)
	text, err = p.Render(context.Background(), Vars{VarField: "Bread"})
	require.NoError(t, err)
	assert.Equal(t, "Please select Bread:\n- White\n- Whole Wheat", text)
}

func TestRenderTidiesEmptyVars(t *testing.T) {
	p := NewPrompter(Default(UsageNotUnderstood), nil)
	text, err := p.Render(context.Background(), Vars{VarInput: "rye"})
	require.NoError(t, err)
	assert.Equal(t, "\"rye\" is not a valid option.", text)

	p = NewPrompter(Default(UsageHelp), nil)
	text, err = p.Render(context.Background(), Vars{VarField: "Bread", VarHelp: "* anything"})
	require.NoError(t, err)
	assert.Equal(t, "You are filling in Bread. Possible responses:\n* anything", text)
}

func TestDefault(t *testing.T) {
	tpl := Default(UsageClarify)
	assert.Equal(t, UsageClarify, tpl.Usage)
	assert.True(t, tpl.AllowNumbers)
	assert.Equal(t, types.FeedbackAuto, tpl.Feedback)
	assert.Empty(t, Default(Usage("missing")).Pattern)
}
