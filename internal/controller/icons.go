package controller

import m "testtree.dev/pkg/testtree/internal/model"

var iconGlyphs = map[m.IconKind]string{
	m.IconPending:            "○",
	m.IconPendingAutorun:     "◎",
	m.IconScheduled:          "◌",
	m.IconRunning:            "▶",
	m.IconRunningFailed:      "▷",
	m.IconPassed:             "✓",
	m.IconPassedAutorun:      "✓*",
	m.IconFailed:             "✗",
	m.IconFailedAutorun:      "✗*",
	m.IconSkipped:            "-",
	m.IconSelected:           "●",
	m.IconPassedFaint:        "(✓)",
	m.IconPassedFaintAutorun: "(✓)*",
	m.IconFailedFaint:        "(✗)",
	m.IconFailedFaintAutorun: "(✗)*",
	m.IconError:              "!",
}

// Glyph returns the text symbol for an icon.
func Glyph(icon m.IconKind) string {
	if glyph, ok := iconGlyphs[icon]; ok {
		return glyph
	}

	return "?"
}
