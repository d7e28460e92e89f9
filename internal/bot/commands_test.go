package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

func TestQAToggle(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "qa on")
	assert.Equal(t, "QA reviewer is ON.", reply)
	assert.Equal(t, 0, b.completer.callCount(), "toggles never call the model")
	assert.True(t, b.conversation(t, 1).ReviewEnabled)

	reply = b.handler.HandleMessage(context.Background(), 1, "QA OFF")
	assert.Equal(t, "QA reviewer is OFF.", reply)
	assert.False(t, b.conversation(t, 1).ReviewEnabled)
}

func TestCouncilToggle(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "council on")
	assert.Equal(t, "Council ON. Roles: Assistant, BrandExpert, Copywriter", reply)
	assert.True(t, b.conversation(t, 1).CouncilEnabled)

	reply = b.handler.HandleMessage(context.Background(), 1, "council off")
	assert.Equal(t, "Council OFF.", reply)
	assert.False(t, b.conversation(t, 1).CouncilEnabled)
}

func TestSetCouncilRolesReplacesList(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "council roles: Copywriter, BrandExpert")
	assert.Equal(t, "Council roles set: Copywriter, BrandExpert", reply)
	assert.Equal(t, []string{"Copywriter", "BrandExpert"}, b.conversation(t, 1).CouncilRoles)
}

func TestSetCouncilRolesRejectsWholeListOnUnknown(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "council roles: BrandExpert, UnknownRole")
	assert.Contains(t, reply, "Unknown role(s): UnknownRole")
	assert.Contains(t, reply, "Valid:")

	conv := b.conversation(t, 1)
	assert.Equal(t, []string{persona.Assistant, persona.BrandExpert, persona.Copywriter}, conv.CouncilRoles,
		"list is unchanged when any entry is unknown")
}

func TestSetCouncilRolesRejectsInternalRole(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "council roles: Assistant, Reviewer")
	assert.Contains(t, reply, "Unknown role(s): Reviewer")
}

func TestSetCouncilRolesEmptyPayload(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "council roles: , ,")
	assert.Contains(t, reply, "No roles given.")
}

func TestSetPersona(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "persona: BrandExpert")
	assert.Equal(t, "Persona set to BrandExpert.", reply)
	assert.Equal(t, persona.BrandExpert, b.conversation(t, 1).ActiveRole)
}

func TestSetPersonaRejectsUnknown(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "persona: Wizard")
	assert.Contains(t, reply, `Unknown persona "Wizard".`)
	assert.Equal(t, persona.Assistant, b.conversation(t, 1).ActiveRole)
}

func TestRememberAndForget(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "remember: SaaS for florists, friendly tone")
	assert.Equal(t, "Got it - I'll keep that in mind.", reply)
	assert.Equal(t, "SaaS for florists, friendly tone", b.conversation(t, 1).Profile)

	reply = b.handler.HandleMessage(context.Background(), 1, "forget")
	assert.Equal(t, "Cleared conversation memory for this chat.", reply)

	conv := b.conversation(t, 1)
	assert.Empty(t, conv.Profile)
	assert.Empty(t, conv.Summary)
}

func TestGreetingShowsMenuWithoutModelCall(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	for _, word := range []string{"hi", "Hello", "HEY"} {
		reply := b.handler.HandleMessage(context.Background(), 1, word)
		assert.Equal(t, greetingMenu, reply)
	}
	assert.Equal(t, 0, b.completer.callCount())
}

func TestBrandHelpersAnswerLocally(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	reply := b.handler.HandleMessage(context.Background(), 1, "brand colors: friendly fintech")
	assert.Contains(t, reply, "#0B3D2E")

	reply = b.handler.HandleMessage(context.Background(), 1, "fonts: modern, trustworthy")
	assert.Contains(t, reply, "Headline: Inter")

	reply = b.handler.HandleMessage(context.Background(), 1, "logo prompts: minimal owl")
	assert.Contains(t, reply, "minimal owl")

	reply = b.handler.HandleMessage(context.Background(), 1, "website outline: Florista")
	assert.Contains(t, reply, "Sitemap for Florista:")

	assert.Equal(t, 0, b.completer.callCount())
}

func TestPlanRoutesThroughAssistant(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)
	var gotPrompt string
	b.completer.fn = func(_, prompt string) (string, error) {
		gotPrompt = prompt
		return "1. do the thing", nil
	}

	reply := b.handler.HandleMessage(context.Background(), 1, "plan: launch in Q4")
	assert.Equal(t, "1. do the thing", reply)
	assert.Contains(t, gotPrompt, "Create a concise, prioritised plan:\nlaunch in Q4")
}

func TestCouncilRoutingAfterEnable(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)
	b.handler.HandleMessage(context.Background(), 1, "council on")

	reply := b.handler.HandleMessage(context.Background(), 1, "pitch my product")
	assert.Equal(t, "model reply", reply)
	// Lead draft, two reviews and a synthesis.
	assert.Equal(t, 4, b.completer.callCount())
}

func TestAfterColonPayload(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Hello World", afterColon("remember: Hello World"))
	require.Equal(t, "", afterColon("forget"))
	require.Equal(t, "a: b", afterColon("x: a: b"))
}
