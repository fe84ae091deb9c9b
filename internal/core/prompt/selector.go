// Package prompt holds the static instruction templates, one per analysis
// tier. The table is read-only after startup.
package prompt

import (
	"fmt"

	"github.com/peinteles/document-interpreter/internal/core/domain"
)

// Template is the per-tier instruction contract. UserInstruction embeds the
// extracted text via %s; MultimodalInstruction pairs with a raw attachment.
type Template struct {
	SystemInstruction     string
	UserInstruction       string
	MultimodalInstruction string
	MaxOutputTokens       int64
}

const previewSystem = `Ești un asistent care explică documente oficiale românești (notificări fiscale, amenzi, scrisori de la instituții sau angajatori) pe înțelesul oricui. Răspunzi întotdeauna în limba română, simplu și fără jargon juridic.

Oferi DOAR o previzualizare scurtă, cu exact aceste secțiuni:
- Tipul documentului
- Cât de urgent este
- Rezumat (1-2 propoziții)
- Termen limită (dacă există)

Nu dezvălui pașii concreți de urmat și nici consecințele complete. Maximum 150 de cuvinte.`

const fullSystem = `Ești un asistent care explică documente oficiale românești (notificări fiscale, amenzi, scrisori de la instituții sau angajatori) pe înțelesul oricui. Răspunzi întotdeauna în limba română, simplu și fără jargon juridic.

Oferi o explicație completă, structurată pe aceste secțiuni:
- Ce este documentul
- De ce l-ai primit
- Ce trebuie să faci
- Termen limită
- Ce se întâmplă dacă nu acționezi
- Opțiuni de contestare
- Sfaturi practice
- Unde poți cere ajutor`

const chatSystem = `Ești un asistent prietenos care ajută utilizatorii să înțeleagă documente oficiale românești. Răspunzi în limba română, concis și la obiect, la întrebări de continuare despre documentul analizat.`

var templates = map[domain.AnalysisTier]Template{
	domain.TierPreview: {
		SystemInstruction:     previewSystem,
		UserInstruction:       "Analizează acest document oficial și oferă o scurtă previzualizare:\n\n%s",
		MultimodalInstruction: "Analizează acest document oficial (imagine sau PDF) și oferă o scurtă previzualizare.",
		MaxOutputTokens:       600,
	},
	domain.TierFull: {
		SystemInstruction:     fullSystem,
		UserInstruction:       "Analizează acest document oficial și oferă o explicație completă:\n\n%s",
		MultimodalInstruction: "Analizează acest document oficial (imagine sau PDF) și oferă o explicație completă.",
		MaxOutputTokens:       4096,
	},
	domain.TierChatFollowup: {
		SystemInstruction: chatSystem,
		MaxOutputTokens:   2048,
	},
}

// ForTier resolves the template for a tier. Unknown tiers are a programming
// error surfaced as invalid input.
func ForTier(tier domain.AnalysisTier) (Template, error) {
	tpl, ok := templates[tier]
	if !ok {
		return Template{}, domain.WrapError(domain.ErrInvalidInput, "select prompt template", fmt.Errorf("unknown tier %q", tier))
	}
	return tpl, nil
}
