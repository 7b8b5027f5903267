package helpers

import (
	"strings"

	"github.com/mdp/qrterminal/v3"
)

// QRCode renders data as a half-block QR code for the terminal
func QRCode(data string) string {
	if data == "" {
		return ""
	}

	var b strings.Builder
	qrterminal.GenerateWithConfig(data, qrterminal.Config{
		Level:          qrterminal.L,
		Writer:         &b,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      1,
	})
	return strings.TrimRight(b.String(), "\n")
}
