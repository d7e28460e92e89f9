package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

// The control vocabulary is an ordered list of (matcher, handler) pairs
// evaluated before the generation flow. Matching is case-insensitive; the
// payload is the raw text after the first colon.

type matchFunc func(lower, raw string) (payload string, ok bool)

type handleFunc func(ctx context.Context, conv *domain.Conversation, payload string) string

type command struct {
	match  matchFunc
	handle handleFunc
}

func exact(words ...string) matchFunc {
	return func(lower, _ string) (string, bool) {
		for _, w := range words {
			if lower == w {
				return "", true
			}
		}
		return "", false
	}
}

func prefix(prefixes ...string) matchFunc {
	return func(lower, raw string) (string, bool) {
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p) {
				return afterColon(raw), true
			}
		}
		return "", false
	}
}

func afterColon(raw string) string {
	_, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}

func orDefault(payload, fallback string) string {
	if payload == "" {
		return fallback
	}
	return payload
}

func (h *Handler) commandTable() []command {
	return []command{
		{exact("qa on"), func(_ context.Context, conv *domain.Conversation, _ string) string {
			conv.ReviewEnabled = true
			return "QA reviewer is ON."
		}},
		{exact("qa off"), func(_ context.Context, conv *domain.Conversation, _ string) string {
			conv.ReviewEnabled = false
			return "QA reviewer is OFF."
		}},
		{exact("council on"), func(_ context.Context, conv *domain.Conversation, _ string) string {
			conv.CouncilEnabled = true
			return "Council ON. Roles: " + strings.Join(conv.CouncilRoles, ", ")
		}},
		{exact("council off"), func(_ context.Context, conv *domain.Conversation, _ string) string {
			conv.CouncilEnabled = false
			return "Council OFF."
		}},
		{prefix("council roles:"), h.setCouncilRoles},
		{prefix("persona:"), h.setPersona},
		{prefix("remember:"), func(_ context.Context, conv *domain.Conversation, payload string) string {
			conv.Profile = payload
			return "Got it - I'll keep that in mind."
		}},
		{exact("forget"), func(_ context.Context, conv *domain.Conversation, _ string) string {
			conv.ClearMemory()
			return "Cleared conversation memory for this chat."
		}},
		{exact("hi", "hello", "hey", "yo", "sup", "hai"), func(context.Context, *domain.Conversation, string) string {
			return greetingMenu
		}},
		{prefix("brand colors:", "palette:"), func(_ context.Context, _ *domain.Conversation, payload string) string {
			return makePalette(orDefault(payload, "modern tech"))
		}},
		{prefix("fonts:", "font pairing for"), func(_ context.Context, _ *domain.Conversation, payload string) string {
			return suggestFonts(orDefault(payload, "modern, trustworthy"))
		}},
		{prefix("logo prompts", "logo ideas", "logo brief"), func(_ context.Context, _ *domain.Conversation, payload string) string {
			return logoPrompts(orDefault(payload, "Tech, minimal, bold"))
		}},
		{prefix("website outline", "sitemap", "wireframe"), func(_ context.Context, _ *domain.Conversation, payload string) string {
			return websiteOutline(orDefault(payload, "Your Brand"))
		}},
		{prefix("plan:"), func(ctx context.Context, conv *domain.Conversation, payload string) string {
			ask := "Create a concise, prioritised plan:\n" + payload
			return h.respond(ctx, conv, persona.Assistant, ask)
		}},
		{prefix("draft:"), func(ctx context.Context, conv *domain.Conversation, payload string) string {
			ask := "Draft the requested artifact with clear sections:\n" + payload
			return h.respond(ctx, conv, persona.Copywriter, ask)
		}},
	}
}

// setCouncilRoles replaces the council list. The whole list is rejected when
// any entry is unknown; state stays unchanged.
func (h *Handler) setCouncilRoles(_ context.Context, conv *domain.Conversation, payload string) string {
	var list, unknown []string
	for _, part := range strings.Split(payload, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		list = append(list, name)
		if !h.registry.IsUserRole(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Sprintf("Unknown role(s): %s. Valid: %s", strings.Join(unknown, ", "), h.registry.UserRoleList())
	}
	if len(list) == 0 {
		return "No roles given. Valid: " + h.registry.UserRoleList()
	}
	conv.CouncilRoles = list
	return "Council roles set: " + strings.Join(list, ", ")
}

func (h *Handler) setPersona(_ context.Context, conv *domain.Conversation, payload string) string {
	name := strings.TrimSpace(payload)
	if !h.registry.IsUserRole(name) {
		return fmt.Sprintf("Unknown persona %q. Try: %s", name, h.registry.UserRoleList())
	}
	conv.ActiveRole = name
	return "Persona set to " + name + "."
}
