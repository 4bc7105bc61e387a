package adapter

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// MediaOption describes one selectable audio or subtitle track.
type MediaOption struct {
	Index        int
	Title        string
	Identifier   string
	LanguageCode string // empty when unknown
}

// NewMediaOption creates an option whose identifier is its title.
func NewMediaOption(index int, title string) MediaOption {
	return MediaOption{
		Index:        index,
		Title:        title,
		Identifier:   title,
		LanguageCode: baseLanguage(title),
	}
}

// MediaOptionFromLocale creates an option from an engine-reported locale
// identifier. It returns false when the locale cannot be resolved.
func MediaOptionFromLocale(index int, locale string) (MediaOption, bool) {
	if locale == "" {
		return MediaOption{}, false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return MediaOption{}, false
	}
	title := display.English.Tags().Name(tag)
	if title == "" {
		title = locale
	}
	return MediaOption{
		Index:        index,
		Title:        title,
		Identifier:   locale,
		LanguageCode: baseLanguage(locale),
	}, true
}

// Equal reports whether o and other designate the same track. Title and
// language are not part of identity.
func (o MediaOption) Equal(other MediaOption) bool {
	return o.Index == other.Index && o.Identifier == other.Identifier
}

func (o MediaOption) String() string {
	if o.LanguageCode == "" {
		return o.Title
	}
	return o.Title + " (" + o.LanguageCode + ")"
}

// optionKey is the identity of a MediaOption, usable as a map key.
type optionKey struct {
	index      int
	identifier string
}

func (o MediaOption) key() optionKey {
	return optionKey{index: o.Index, identifier: o.Identifier}
}

func baseLanguage(s string) string {
	tag, err := language.Parse(s)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
