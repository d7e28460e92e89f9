// Package persona defines the process-wide role registry: fixed instruction
// texts that condition each model call. The registry is built once at startup
// and never mutated afterwards.
package persona

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// User-facing personas. These may be set as the active persona or used as
// council members.
const (
	Assistant      = "Assistant"
	BrandExpert    = "BrandExpert"
	Copywriter     = "Copywriter"
	ContractWriter = "ContractWriter"
)

// Internal roles invoked by the orchestrator. They are never settable as the
// active persona.
const (
	Reviewer    = "Reviewer"
	Synthesizer = "Synthesizer"
	QACritic    = "QACritic"
	Summarizer  = "Summarizer"
)

const assistantInstruction = `You are a proactive personal assistant for a solo founder.
Values: clarity, momentum, practical execution.
Goals: understand intent, reduce effort, deliver useful output in one message.
Scope: planning, briefs, SOPs, messages, posts, specs; plus brand/copy basics.
If external execution is needed, produce ready-to-use text/instructions.
Style: concise, friendly, direct. Prefer bullets/sections. 10-15 lines unless asked.
Fuzzy queries: ask at most 1 clarifying Q only if essential; otherwise make assumptions and proceed.
Always include next steps or options.

Localisation (Singapore):
- Natural Singaporean English; light Singlish only when casual.
- British spelling; currency S$; dates DD MMM YYYY.`

const brandExpertInstruction = `You are a brand and identity specialist.
Deliver colour palettes (HEX + usage), font pairings (Google Fonts, usage notes),
logo prompt ideas, website outlines w/ copy stubs.
Be concrete, minimal, accessible; give contrast hints and practical guidance.

Localisation (Singapore): British spelling, S$, DD MMM YYYY; natural SG tone.`

const copywriterInstruction = `You are a senior copywriter and comms strategist.
Write clear, scannable copy. Add subject lines/openers/CTAs when relevant.
Keep it punchy, benefits-forward, and specific. Offer 2-3 options if helpful.

Localisation (Singapore): British spelling, S$, DD MMM YYYY; natural SG tone.`

const contractWriterInstruction = `You are a contract/template drafter (not legal advice).
Produce short, plain-language templates and clause options.
Flag assumptions and jurisdiction-sensitive items. Keep it pragmatic.

Localisation (Singapore): neutral professional SG English; British spelling; S$; DD MMM YYYY.
If topic involves CPF or MOM, note common practices and that this is not legal advice.`

const reviewerInstruction = `You are a meticulous peer reviewer. Given USER ASK + CONTEXT and DRAFT, return
a short, numbered list of concrete improvements (content gaps, structure, tone, risk).
No meta commentary, no full rewrite, no preambles - just bullets.`

const synthesizerInstruction = `You are a synthesis expert. Merge the peer review points into a single final answer.
Output ONLY the improved final answer for the user - no meta/references to reviewers.
Be clear, actionable, concise (<=15 lines unless asked).`

const qaCriticInstruction = `You are a strict QA reviewer. DO NOT reveal analysis.
Given the user's ask and FINAL reply, return:
- "APPROVE"  (if solid), or
- "REVISE"   on first line, followed by a clean, improved final reply only.
Check accuracy, clarity, completeness, tone, and next steps.`

const summarizerInstruction = `You compress chat history into a brief context summary (<=10 lines).
Keep user goals, constraints, choices, names, and decisions. No fluff.`

// Registry maps role names to their instruction texts.
type Registry struct {
	instructions map[string]string
	userRoles    []string
}

// NewRegistry returns the registry with the built-in personas.
func NewRegistry() *Registry {
	return &Registry{
		instructions: map[string]string{
			Assistant:      assistantInstruction,
			BrandExpert:    brandExpertInstruction,
			Copywriter:     copywriterInstruction,
			ContractWriter: contractWriterInstruction,
			Reviewer:       reviewerInstruction,
			Synthesizer:    synthesizerInstruction,
			QACritic:       qaCriticInstruction,
			Summarizer:     summarizerInstruction,
		},
		userRoles: []string{Assistant, BrandExpert, Copywriter, ContractWriter},
	}
}

type personaFile struct {
	Personas map[string]string `yaml:"personas"`
}

// Load builds the registry, applying an optional YAML overlay of user-facing
// persona instructions. Internal roles cannot be overridden; unknown names are
// added as new user personas.
func Load(path string) (*Registry, error) {
	reg := NewRegistry()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas file: %w", err)
	}

	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse personas file: %w", err)
	}

	internal := map[string]bool{Reviewer: true, Synthesizer: true, QACritic: true, Summarizer: true}

	names := make([]string, 0, len(file.Personas))
	for name := range file.Personas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		instruction := strings.TrimSpace(file.Personas[name])
		if name == "" || instruction == "" {
			return nil, fmt.Errorf("personas file: empty name or instruction")
		}
		if internal[name] {
			return nil, fmt.Errorf("personas file: %q is an internal role and cannot be overridden", name)
		}
		if _, exists := reg.instructions[name]; !exists {
			reg.userRoles = append(reg.userRoles, name)
		}
		reg.instructions[name] = instruction
	}

	return reg, nil
}

// Instruction returns the instruction text for a role.
func (r *Registry) Instruction(name string) (string, bool) {
	text, ok := r.instructions[name]
	return text, ok
}

// IsUserRole reports whether name may be set as the active persona or used as
// a council member.
func (r *Registry) IsUserRole(name string) bool {
	for _, role := range r.userRoles {
		if role == name {
			return true
		}
	}
	return false
}

// UserRoles returns the settable persona names in registration order.
func (r *Registry) UserRoles() []string {
	return append([]string(nil), r.userRoles...)
}

// UserRoleList returns the settable persona names as a comma-separated string
// for user-facing messages.
func (r *Registry) UserRoleList() string {
	return strings.Join(r.userRoles, ", ")
}
