package server

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength     = 20
	maxRoomCodeLength = 12
	defaultPlayerName = "Player"
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("roomcode", func(fl validator.FieldLevel) bool {
			return isRoomCode(fl.Field().String())
		})
	})
}

func isRoomCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > maxRoomCodeLength {
		return false
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// sanitizeName never rejects a display name: markup and control characters
// are dropped, whitespace is collapsed, and the result is cut to
// maxNameLength runes. Nothing left means defaultPlayerName.
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '<', r == '>', r == '`':
			return -1
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r), r == utf8.RuneError:
			return -1
		}
		return r
	}, name)
	cleaned = normalizeText(cleaned)
	if utf8.RuneCountInString(cleaned) > maxNameLength {
		cleaned = strings.TrimSpace(string([]rune(cleaned)[:maxNameLength]))
	}
	if cleaned == "" {
		return defaultPlayerName
	}
	return cleaned
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
