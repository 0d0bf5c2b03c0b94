package types

import "fmt"

// Language is the scripting language of a project.
type Language string

const (
	LanguagePython Language = "python"
	LanguageLua    Language = "lua"
)

// ParseLanguage accepts "python" or "lua".
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguagePython, LanguageLua:
		return Language(s), nil
	default:
		return "", invalid("language", s)
	}
}

// WindowLabel names one of the application windows.
type WindowLabel string

const (
	WindowMain    WindowLabel = "main"
	WindowMonitor WindowLabel = "monitor"
)

func ParseWindowLabel(s string) (WindowLabel, error) {
	switch WindowLabel(s) {
	case WindowMain, WindowMonitor:
		return WindowLabel(s), nil
	default:
		return "", invalid("window label", s)
	}
}

// VerifyStatus is the outcome of checking a project directory.
type VerifyStatus string

const (
	VerifyValid   VerifyStatus = "valid"
	VerifyInvalid VerifyStatus = "invalid"
	VerifyMoved   VerifyStatus = "moved"
)

func ParseVerifyStatus(s string) (VerifyStatus, error) {
	switch VerifyStatus(s) {
	case VerifyValid, VerifyInvalid, VerifyMoved:
		return VerifyStatus(s), nil
	default:
		return "", invalid("verify status", s)
	}
}

// Port is a TCP port in [1, 65535].
type Port uint16

func NewPort(v float64) (Port, error) {
	if !isIntegerInRange(v, 1, 65535) {
		return 0, invalid("port", v)
	}
	return Port(v), nil
}

func (p Port) String() string {
	return fmt.Sprintf("%d", uint16(p))
}
