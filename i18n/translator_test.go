package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndRussian(t *testing.T) {
	// default is en
	assert.Equal(t, "required name", T("required", map[string]string{"key": "name"}))

	SetLanguage("ru")
	defer SetLanguage("en")
	assert.Equal(t, "обязательное поле name", T("required", map[string]string{"key": "name"}))
}

func TestTranslator_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	SetLanguage("xx")
	defer SetLanguage("en")
	assert.Equal(t, "unknown property x", T("unknown_key", map[string]string{"key": "x"}))
}

func TestTranslator_UnknownCode(t *testing.T) {
	assert.Equal(t, "no_such_code", T("no_such_code", nil))
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	assert.Equal(t, "X:required", T("required", nil))
	SetTranslator(nil)
	assert.Equal(t, "required {key}", T("required", nil))
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	assert.Equal(t, "a {b} c", Render("{a} {b} c", map[string]string{"a": "a"}))
}
