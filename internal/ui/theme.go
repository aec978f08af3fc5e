package ui

import (
	"image/color"

	"memeforge/internal/notify"
)

type Theme struct {
	AppBackground   color.RGBA
	TopBar          color.RGBA
	TopBarText      color.RGBA
	Toolbar         color.RGBA
	Button          color.RGBA
	ButtonActive    color.RGBA
	ButtonHover     color.RGBA
	ButtonText      color.RGBA
	ButtonDisabled  color.RGBA
	Canvas          color.RGBA
	Checker         color.RGBA
	Border          color.RGBA
	StatusBar       color.RGBA
	StatusText      color.RGBA
	Accent          color.RGBA
	Shadow          color.RGBA
	Primary         color.RGBA
	Success         color.RGBA
	Danger          color.RGBA
	Warning         color.RGBA
	MenuHeightDp    int
	ToolbarHeightDp int
	StatusHeightDp  int
	PageMarginDp    int
}

func DefaultTheme() Theme {
	return Theme{
		AppBackground:   color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		TopBar:          color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		TopBarText:      color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		Toolbar:         color.RGBA{0xF7, 0xF9, 0xFC, 0xFF},
		Button:          color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		ButtonActive:    color.RGBA{0xD6, 0xE4, 0xF7, 0xFF},
		ButtonHover:     color.RGBA{0xEC, 0xF1, 0xF8, 0xFF},
		ButtonText:      color.RGBA{0x1F, 0x2A, 0x37, 0xFF},
		ButtonDisabled:  color.RGBA{0xA0, 0xA8, 0xB4, 0xFF},
		Canvas:          color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		Checker:         color.RGBA{0xF0, 0xF0, 0xF0, 0xFF},
		Border:          color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		StatusBar:       color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		StatusText:      color.RGBA{0x33, 0x3D, 0x4A, 0xFF},
		Accent:          color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Shadow:          color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		Primary:         color.RGBA{0x0D, 0x6E, 0xFD, 0xFF},
		Success:         color.RGBA{0x19, 0x87, 0x54, 0xFF},
		Danger:          color.RGBA{0xDC, 0x35, 0x45, 0xFF},
		Warning:         color.RGBA{0xFF, 0xC1, 0x07, 0xFF},
		MenuHeightDp:    30,
		ToolbarHeightDp: 76,
		StatusHeightDp:  28,
		PageMarginDp:    24,
	}
}

type ToastStyle struct {
	Background color.RGBA
	Foreground color.RGBA
}

// ToastStyle maps a notification severity onto theme colours.
func (t Theme) ToastStyle(sev notify.Severity) ToastStyle {
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	switch sev {
	case notify.Success:
		return ToastStyle{Background: t.Success, Foreground: white}
	case notify.Error:
		return ToastStyle{Background: t.Danger, Foreground: white}
	case notify.Warning:
		return ToastStyle{Background: t.Warning, Foreground: color.RGBA{0x21, 0x25, 0x29, 0xFF}}
	default:
		return ToastStyle{Background: t.Primary, Foreground: white}
	}
}
