package main

import (
	"krypt-tui/styles"
)

// -------------------- THEME (Lip Gloss) --------------------
// Styles come from the styles package

var (
	cPanel   = styles.CPanel
	cBorder  = styles.CBorder
	cMuted   = styles.CMuted
	cText    = styles.CText
	cAccent  = styles.CAccent
	cAccent2 = styles.CAccent2
	cWarn    = styles.CWarn

	appStyle   = styles.AppStyle
	panelStyle = styles.PanelStyle
)
