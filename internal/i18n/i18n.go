// Package i18n selects the page language and formats counts and status text for it.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"portfolio.dev/portfolio/internal/stats"
)

// Supported languages, in preference order.
const (
	Portuguese = "pt"
	English    = "en"
)

var (
	tags    = []language.Tag{language.BrazilianPortuguese, language.AmericanEnglish}
	codes   = []string{Portuguese, English}
	matcher = language.NewMatcher(tags)
)

// Message keys. The English text doubles as the key.
const (
	StatusLive        = "Live"
	StatusPartial     = "Partial"
	StatusLoading     = "Loading..."
	StatusUnavailable = "Unavailable"
	StatusOffline     = "No connection"

	LabelVisits      = "Visits"
	LabelPortfolio   = "Portfolio"
	LabelStudio      = "Rizzer Studio"
	LabelCombined    = "Combined"
	LabelFollowers   = "Followers"
	LabelGitHub      = "GitHub"
	LabelLinkedIn    = "LinkedIn"
	LabelTotal       = "Total"
	LabelToday       = "Today"
	LabelAllChannels = "All channels"
	LabelUpdated     = "Updated %s"
	LabelRefreshHint = "r refresh • q quit"
)

var portuguese = map[string]string{
	StatusLive:        "Ativo",
	StatusPartial:     "Parcial",
	StatusLoading:     "Carregando...",
	StatusUnavailable: "Indisponível",
	StatusOffline:     "Sem conexão",
	LabelVisits:       "Visitas",
	LabelCombined:     "Combinado",
	LabelFollowers:    "Seguidores",
	LabelToday:        "Hoje",
	LabelAllChannels:  "Todos os canais",
	LabelUpdated:      "Atualizado %s",
	LabelRefreshHint:  "r atualizar • q sair",
}

var messages = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	for key, msg := range portuguese {
		_ = b.SetString(language.BrazilianPortuguese, key, msg)
	}
	return b
}()

// Match picks the supported language closest to the given preferences. Each preference may be
// a language tag or an Accept-Language header value. No usable preference yields Portuguese.
func Match(prefs ...string) string {
	var wanted []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		wanted = append(wanted, parsed...)
	}
	if len(wanted) == 0 {
		return Portuguese
	}
	_, index, confidence := matcher.Match(wanted...)
	if confidence == language.No {
		return Portuguese
	}
	return codes[index]
}

// Tag returns the locale used to format lang.
func Tag(lang string) language.Tag {
	if lang == English {
		return language.AmericanEnglish
	}
	return language.BrazilianPortuguese
}

// Printer formats text and numbers for one language.
type Printer struct {
	lang string
	p    *message.Printer
}

// NewPrinter returns a printer for lang. Unsupported languages use Portuguese.
func NewPrinter(lang string) *Printer {
	if lang != English {
		lang = Portuguese
	}
	return &Printer{lang: lang, p: message.NewPrinter(Tag(lang), message.Catalog(messages))}
}

// Lang returns the printer language code.
func (p *Printer) Lang() string {
	return p.lang
}

// T translates a message key, applying args as Sprintf would.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Number formats n with locale digit grouping.
func (p *Printer) Number(n int64) string {
	return p.p.Sprintf("%d", n)
}

// Count formats c, or "-" when unavailable.
func (p *Printer) Count(c stats.Count) string {
	if !c.OK {
		return "-"
	}
	return p.Number(c.Value)
}

// Status returns the status line for a visit snapshot.
func (p *Printer) Status(snap stats.VisitSnapshot) string {
	switch {
	case snap.HasError:
		return p.T(StatusOffline)
	case snap.Partial:
		return p.T(StatusPartial)
	default:
		return p.T(StatusLive)
	}
}
