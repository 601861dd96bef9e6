package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides the values substituted for {placeholders} in the message
// (for example "key" or "value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"unknown_key":          "unknown property {key}",
		"invalid_key":          "invalid key: {key}",
		"invalid_value":        "invalid {key}: {value}",
		"required":             "required {key}",
		"const":                "cannot assign to read only property: {key}",
		"not_unique":           "{key} is not unique, duplicated value {duplicate} inside arr: {value}",
		"circular":             "cannot convert circular structure to JSON",
		"missing_schema":       "schema of {type} is not declared",
		"reserved_primary_key": "field {key} cannot be primary key, because it is a reserved word",
		"conflicting_options":  "{key}: conflicting parameters: use only {first} or only {second}",
		"invalid_validator":    "{key}: {option} should be a func or *regexp.Regexp: {value}",
		"invalid_option":       "{key}: invalid {option}: {value}",
		"invalid_schema":       "{type}: {reason}",
		"unknown_type":         "field {key}, unknown type: {value}",
		"invalid_number":       "invalid number for {key}: {value}",
		"invalid_string":       "invalid string for {key}: {value}",
		"invalid_boolean":      "invalid boolean for {key}: {value}",
		"invalid_date":         "invalid date for {key}: {value}",
		"invalid_array":        "invalid array[{element}] for {key}: {value}",
		"invalid_object":       "invalid object for {key}: {value}",
		"invalid_object_entry": "invalid object[{element}] for {key}: {value}",
		"invalid_model":        "invalid model {type} for {key}: {value}",
		"invalid_collection":   "invalid collection {type} for {key}: {value}",
		"index_out_of_range":   "index {index} out of range [0:{len}]",
		"too_short":            "{key} needs at least {min} item(s)",
		"rule_failed":          "{key}: {reason}",
	},
	"ru": {
		"unknown_key":          "неизвестное свойство {key}",
		"invalid_key":          "некорректный ключ: {key}",
		"invalid_value":        "некорректное значение {key}: {value}",
		"required":             "обязательное поле {key}",
		"const":                "нельзя изменить свойство только для чтения: {key}",
		"not_unique":           "{key} не уникальный массив, дублируется значение {duplicate} внутри массива: {value}",
		"circular":             "невозможно преобразовать цикличную структуру в JSON",
		"missing_schema":       "схема {type} не объявлена",
		"reserved_primary_key": "поле {key} не может быть первичным ключом, потому что это слово занято",
		"conflicting_options":  "{key}: разрешено использовать только {first} или только {second}",
		"invalid_validator":    "{key}: {option} должен быть функцией или *regexp.Regexp: {value}",
		"invalid_option":       "{key}: некорректное значение для параметра {option}: {value}",
		"invalid_schema":       "{type}: {reason}",
		"unknown_type":         "поле {key}, неизвестный тип: {value}",
		"invalid_number":       "некорректное число для поля {key}: {value}",
		"invalid_string":       "некорректная строка для поля {key}: {value}",
		"invalid_boolean":      "некорректный boolean для поля {key}: {value}",
		"invalid_date":         "некорректная дата для поля {key}: {value}",
		"invalid_array":        "некорректный массив {element}[] для поля {key}: {value}",
		"invalid_object":       "некорректный объект для поля {key}: {value}",
		"invalid_object_entry": "некорректный объект {*: {element}} для поля {key}: {value}",
		"invalid_model":        "некорректная модель {type} для поля {key}: {value}",
		"invalid_collection":   "некорректная коллекция {type} для поля {key}: {value}",
		"index_out_of_range":   "индекс {index} вне диапазона [0:{len}]",
		"too_short":            "{key} должен содержать хотя бы {min} элемент(ов)",
		"rule_failed":          "{key}: {reason}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		tmpl, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	return Render(tmpl, data)
}

// Render substitutes {name} placeholders in tmpl with values from data.
// Unknown placeholders are left untouched.
func Render(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ru").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// Languages lists the languages of the built-in dictionaries.
func Languages() []string { return []string{"en", "ru"} }

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
