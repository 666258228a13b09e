// pkg/classify/run_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Scripted prompter
// PURPOSE: Test the interactive classification loop end to end

package classify_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/pcc/pkg/classify"
	"github.com/arthur-debert/pcc/pkg/testutil"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/arthur-debert/pcc/pkg/ui/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultCategories = []classify.Category{
	{Name: "dev", Description: "Runtime development dependencies."},
	{Name: "lint", Description: "Packages for linting/formatting (e.g., eslint, knip)."},
	{Name: "frontend", Description: "Packages for frontend development (e.g., vue, pinia)."},
}

func options() classify.Options {
	usage := types.UsageIndex{}
	usage.Add("vue", "web")
	usage.Add("vue", "docs")
	usage.Add("vue", "admin")
	usage.Add("eslint", "root")
	return classify.Options{Categories: defaultCategories, Usage: usage}
}

func TestRunSingleRound(t *testing.T) {
	doc := parseWorkspace(t, workspaceYAML)
	p := testutil.NewScriptedPrompter(
		testutil.Pick("eslint", "bumpp"),
		testutil.Choose("dev"),
		testutil.Confirm(true),  // place in dev
		testutil.Confirm(false), // stop
		testutil.Confirm(true),  // write
	)

	out, err := classify.Run(context.Background(), p, doc, options())
	require.NoError(t, err)
	assert.Zero(t, p.Remaining())

	assert.True(t, out.Confirmed())
	require.NotNil(t, out.Definition)
	assert.Equal(t, "dev", out.Definition.Name)
	assert.Equal(t, map[string]string{"eslint": "^9.0.0", "bumpp": "^10.3.2"}, out.Definition.Dependencies)
	assert.Equal(t, []string{"vue"}, names(out.Session.Remaining()))

	// the document is left alone
	assert.Len(t, doc.Catalog(), 3)

	assert.Equal(t, []string{
		classify.MsgSelectDependencies,
		classify.MsgSelectCatalog,
		fmt.Sprintf(classify.MsgPlaceInCatalog, "dev"),
		classify.MsgContinue,
		fmt.Sprintf(classify.MsgConfirmWrite, "pnpm-workspace.yaml"),
	}, p.Asked)
}

func TestRunOffersUsageHintsAndCatalogs(t *testing.T) {
	doc := parseWorkspace(t, workspaceYAML)
	p := testutil.NewScriptedPrompter(
		testutil.Pick("vue"),
		testutil.Choose("frontend"),
		testutil.Confirm(true),
		testutil.Confirm(false),
		testutil.Confirm(true),
	)

	_, err := classify.Run(context.Background(), p, doc, options())
	require.NoError(t, err)
	require.Len(t, p.Options, 2)

	deps := p.Options[0]
	require.Len(t, deps, 3)
	assert.Equal(t, prompt.Option{Value: "vue", Label: "vue (^3.4.0)", Hint: "web, docs and 1 other package"}, deps[0])
	assert.Equal(t, "root", deps[1].Hint)
	assert.Equal(t, "unused", deps[2].Hint)

	var values []string
	for _, o := range p.Options[1] {
		values = append(values, o.Value)
	}
	// existing catalogs first, configured ones without duplicates, then a new name
	assert.Equal(t, []string{"lint", "dev", "frontend", classify.NewCatalogValue}, values)
	assert.Equal(t, defaultCategories[1].Description, p.Options[1][0].Hint)
}

func TestRunCustomName(t *testing.T) {
	doc := parseWorkspace(t, workspaceYAML)
	p := testutil.NewScriptedPrompter(
		testutil.Pick("bumpp"),
		testutil.Choose(classify.NewCatalogValue),
		testutil.Type(""),
		testutil.Type("lint"),
		testutil.Type("release"),
		testutil.Confirm(true),
		testutil.Confirm(false),
		testutil.Confirm(true),
	)

	out, err := classify.Run(context.Background(), p, doc, options())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "lint"}, p.Rejected)
	assert.Equal(t, "release", out.Definition.Name)
}

func TestRunMultipleRoundsUntilDone(t *testing.T) {
	doc := parseWorkspace(t, workspaceYAML)
	p := testutil.NewScriptedPrompter(
		testutil.Pick("vue"),
		testutil.Choose("frontend"),
		testutil.Confirm(true),
		testutil.Confirm(true), // continue
		testutil.Pick(),        // skip a round
		testutil.Confirm(true),
		testutil.Pick("eslint", "bumpp"),
		testutil.Choose("lint"),
		testutil.Confirm(true),
		// nothing remains: no continue question
		testutil.Confirm(true),
	)

	out, err := classify.Run(context.Background(), p, doc, options())
	require.NoError(t, err)
	assert.Zero(t, p.Remaining())
	assert.True(t, out.Session.Done())
	assert.Equal(t, "frontend, lint", out.Definition.Name)
	assert.Equal(t, "lint", out.Definition.CategoryOf("bumpp"))
}

func TestRunRefusedPlacement(t *testing.T) {
	doc := parseWorkspace(t, workspaceYAML)
	p := testutil.NewScriptedPrompter(
		testutil.Pick("vue"),
		testutil.Choose("frontend"),
		testutil.Confirm(false), // do not place
		testutil.Confirm(false), // stop
	)

	out, err := classify.Run(context.Background(), p, doc, options())
	require.NoError(t, err)
	assert.Equal(t, classify.ReasonNothingAssigned, out.Reason)
	assert.False(t, out.Confirmed())
	assert.Nil(t, out.Definition)
}

func TestRunDeclinedWrite(t *testing.T) {
	doc := parseWorkspace(t, workspaceYAML)
	p := testutil.NewScriptedPrompter(
		testutil.Pick("vue"),
		testutil.Choose("frontend"),
		testutil.Confirm(true),
		testutil.Confirm(false),
		testutil.Confirm(false), // refuse write
	)

	out, err := classify.Run(context.Background(), p, doc, options())
	require.NoError(t, err)
	assert.Equal(t, classify.ReasonDeclined, out.Reason)
	assert.Nil(t, out.Definition)
}

func TestRunCancelled(t *testing.T) {
	tests := []struct {
		name    string
		answers []testutil.Answer
	}{
		{
			name:    "cancel dependency selection",
			answers: []testutil.Answer{testutil.Cancel(testutil.KindMultiSelect)},
		},
		{
			name: "cancel catalog selection",
			answers: []testutil.Answer{
				testutil.Pick("vue"),
				testutil.Cancel(testutil.KindSelect),
			},
		},
		{
			name: "cancel custom name",
			answers: []testutil.Answer{
				testutil.Pick("vue"),
				testutil.Choose(classify.NewCatalogValue),
				testutil.Cancel(testutil.KindInput),
			},
		},
		{
			name: "cancel final write",
			answers: []testutil.Answer{
				testutil.Pick("vue"),
				testutil.Choose("frontend"),
				testutil.Confirm(true),
				testutil.Confirm(false),
				testutil.Cancel(testutil.KindConfirm),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseWorkspace(t, workspaceYAML)
			p := testutil.NewScriptedPrompter(tt.answers...)

			out, err := classify.Run(context.Background(), p, doc, options())
			assert.Nil(t, out)
			assert.True(t, prompt.IsCancelled(err))
			assert.Len(t, doc.Catalog(), 3)
		})
	}
}
