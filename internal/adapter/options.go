package adapter

import (
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/engine"
)

// defaultAudioLanguage is picked when no preselected audio language matches.
const defaultAudioLanguage = "en"

// AudioOptions returns the audio options derived for the current load.
func (a *Adapter) AudioOptions() []MediaOption { return slices.Clone(a.audioOptions) }

// SubtitleOptions returns the subtitle options derived for the current load.
// Forced-only subtitle tracks are never listed.
func (a *Adapter) SubtitleOptions() []MediaOption { return slices.Clone(a.subtitleOptions) }

// CurrentAudioOption returns the selected audio option, if any.
func (a *Adapter) CurrentAudioOption() (MediaOption, bool) { return deref(a.currentAudio) }

// CurrentSubtitleOption returns the selected subtitle option, if any.
func (a *Adapter) CurrentSubtitleOption() (MediaOption, bool) { return deref(a.currentSubtitle) }

// SetCurrentAudioOption selects opt on the current item. nil clears the
// engine selection.
func (a *Adapter) SetCurrentAudioOption(opt *MediaOption) {
	a.currentAudio = clone(opt)
	a.applySelection(engine.Audible, a.currentAudio, a.audioRefs)
}

// SetCurrentSubtitleOption selects opt on the current item. nil turns
// subtitles off.
func (a *Adapter) SetCurrentSubtitleOption(opt *MediaOption) {
	a.currentSubtitle = clone(opt)
	a.applySelection(engine.Legible, a.currentSubtitle, a.subtitleRefs)
}

// PreselectedAudioLanguage returns the sticky preferred audio language.
func (a *Adapter) PreselectedAudioLanguage() string { return a.preselectedAudio }

// SetPreselectedAudioLanguage sets the audio language preferred on the next loads.
func (a *Adapter) SetPreselectedAudioLanguage(lang string) { a.preselectedAudio = lang }

// PreselectedSubtitleLanguage returns the sticky preferred subtitle language.
func (a *Adapter) PreselectedSubtitleLanguage() string { return a.preselectedSubtitle }

// SetPreselectedSubtitleLanguage sets the subtitle language preferred on the
// next loads. Empty keeps subtitles off by default.
func (a *Adapter) SetPreselectedSubtitleLanguage(lang string) { a.preselectedSubtitle = lang }

func (a *Adapter) deriveAudioOptions() {
	a.audioOptions, a.audioRefs = nil, nil
	group, ok := a.mediaGroup(engine.Audible)
	if !ok {
		return
	}
	a.audioOptions, a.audioRefs = enumerateOptions(group.Options, false)

	// preselected language, then English, then whatever comes first
	opt, found := findLanguage(a.audioOptions, a.preselectedAudio)
	if !found {
		opt, found = findLanguage(a.audioOptions, defaultAudioLanguage)
	}
	if !found && len(a.audioOptions) > 0 {
		opt, found = a.audioOptions[0], true
	}
	if found {
		a.SetCurrentAudioOption(&opt)
	} else {
		a.SetCurrentAudioOption(nil)
	}

	a.logger.Debug("audio options derived",
		zap.Int("count", len(a.audioOptions)),
		zap.Stringer("selected", optionLabel{a.currentAudio}))
}

func (a *Adapter) deriveSubtitleOptions() {
	a.subtitleOptions, a.subtitleRefs = nil, nil
	group, ok := a.mediaGroup(engine.Legible)
	if !ok {
		return
	}
	a.subtitleOptions, a.subtitleRefs = enumerateOptions(group.Options, true)

	// Subtitles stay off unless the caller asked for a language.
	if opt, found := findLanguage(a.subtitleOptions, a.preselectedSubtitle); found {
		a.SetCurrentSubtitleOption(&opt)
	} else {
		a.SetCurrentSubtitleOption(nil)
	}

	a.logger.Debug("subtitle options derived",
		zap.Int("count", len(a.subtitleOptions)),
		zap.Stringer("selected", optionLabel{a.currentSubtitle}))
}

func (a *Adapter) clearOptions() {
	a.SetCurrentAudioOption(nil)
	a.SetCurrentSubtitleOption(nil)
	a.audioOptions, a.audioRefs = nil, nil
	a.subtitleOptions, a.subtitleRefs = nil, nil
}

func (a *Adapter) mediaGroup(kind engine.MediaKind) (engine.Group, bool) {
	if a.item == nil {
		return engine.Group{}, false
	}
	return a.item.MediaGroup(kind)
}

// applySelection resolves opt to its engine-native position and applies it.
// Options unknown to the current load clear the selection.
func (a *Adapter) applySelection(kind engine.MediaKind, opt *MediaOption, refs map[optionKey]int) {
	if _, ok := a.mediaGroup(kind); !ok {
		return
	}
	groupIndex := -1
	if opt != nil {
		if i, ok := refs[opt.key()]; ok {
			groupIndex = i
		}
	}
	a.item.Select(kind, groupIndex)
}

// enumerateOptions turns engine options into MediaOptions. When skipForced is
// set, forced-only entries are removed before indexes are assigned. Options
// that are not playable or have no resolvable locale are skipped but keep
// their index slot.
func enumerateOptions(native []engine.Option, skipForced bool) ([]MediaOption, map[optionKey]int) {
	var options []MediaOption
	refs := make(map[optionKey]int)

	index := 0
	for groupIndex, n := range native {
		if skipForced && n.ForcedOnly {
			continue
		}
		offset := index
		index++
		if !n.Playable {
			continue
		}
		opt, ok := MediaOptionFromLocale(offset, n.Locale)
		if !ok {
			continue
		}
		if n.DisplayName != "" {
			opt.Title = n.DisplayName
		}
		options = append(options, opt)
		refs[opt.key()] = groupIndex
	}
	return options, refs
}

func findLanguage(options []MediaOption, lang string) (MediaOption, bool) {
	if lang == "" {
		return MediaOption{}, false
	}
	return lo.Find(options, func(o MediaOption) bool {
		return o.LanguageCode == lang || o.Identifier == lang
	})
}

func clone(opt *MediaOption) *MediaOption {
	if opt == nil {
		return nil
	}
	c := *opt
	return &c
}

func deref(opt *MediaOption) (MediaOption, bool) {
	if opt == nil {
		return MediaOption{}, false
	}
	return *opt, true
}

// optionLabel logs a possibly absent selection.
type optionLabel struct{ opt *MediaOption }

func (l optionLabel) String() string {
	if l.opt == nil {
		return "none"
	}
	return l.opt.String()
}
