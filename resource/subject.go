package resource

import (
	"encoding/json"
	"time"
)

// SubjectType names one of the four subject kinds. It is the wire value used
// by subject_type fields and subject_types filters.
type SubjectType string

// Subject kinds.
const (
	SubjectRadical        SubjectType = "radical"
	SubjectKanji          SubjectType = "kanji"
	SubjectVocabulary     SubjectType = "vocabulary"
	SubjectKanaVocabulary SubjectType = "kana_vocabulary"
)

// String returns the wire form of the subject type.
func (s SubjectType) String() string { return string(s) }

// ObjectType returns the object discriminator for this subject kind.
func (s SubjectType) ObjectType() ObjectType { return ObjectType(s) }

// Subject is implemented by the four subject variants. All subjects share the
// SubjectCommon base; kind-specific fields live on the variant types.
type Subject interface {
	SubjectData() SubjectCommon
	SubjectType() SubjectType
}

// SubjectCommon holds the fields shared by every subject kind.
type SubjectCommon struct {
	// AuxiliaryMeanings are secondary meanings, accepted or rejected as
	// answers according to their type.
	AuxiliaryMeanings []AuxiliaryMeaning `json:"auxiliary_meanings"`

	CreatedAt time.Time `json:"created_at"`

	// DocumentURL links to the subject's page on wanikani.com.
	DocumentURL string `json:"document_url"`

	// HiddenAt is set when the subject was retired from the content base.
	// Assignments for hidden subjects no longer appear in lessons or reviews.
	HiddenAt *time.Time `json:"hidden_at"`

	// LessonPosition orders the subject within its level in lessons.
	LessonPosition int `json:"lesson_position"`

	Level int `json:"level"`

	MeaningMnemonic string    `json:"meaning_mnemonic"`
	Meanings        []Meaning `json:"meanings"`

	// Slug identifies the subject in document URLs.
	Slug string `json:"slug"`

	// SpacedRepetitionSystemID names the SRS governing this subject's stage
	// intervals.
	SpacedRepetitionSystemID int64 `json:"spaced_repetition_system_id"`
}

// SubjectData returns the shared subject fields.
func (c SubjectCommon) SubjectData() SubjectCommon { return c }

// Meaning is one accepted or primary meaning of a subject.
type Meaning struct {
	Meaning        string `json:"meaning"`
	Primary        bool   `json:"primary"`
	AcceptedAnswer bool   `json:"accepted_answer"`
}

// AuxiliaryMeaning is a whitelist or blacklist entry for answer checking.
type AuxiliaryMeaning struct {
	Meaning string `json:"meaning"`
	// Type is "whitelist" or "blacklist".
	Type string `json:"type"`
}

// CharacterImage is a rendering of a radical without a character glyph.
type CharacterImage struct {
	URL         string          `json:"url"`
	ContentType string          `json:"content_type"`
	Metadata    json.RawMessage `json:"metadata"`
}

// Radical is a subject used as a kanji component.
type Radical struct {
	SubjectCommon

	// AmalgamationSubjectIDs are the kanji that use this radical.
	AmalgamationSubjectIDs []int64 `json:"amalgamation_subject_ids"`

	// Characters is null for radicals rendered only by character images.
	Characters *string `json:"characters"`

	CharacterImages []CharacterImage `json:"character_images"`
}

// SubjectType returns SubjectRadical.
func (Radical) SubjectType() SubjectType { return SubjectRadical }

// KanjiReading is one reading of a kanji.
type KanjiReading struct {
	Reading        string `json:"reading"`
	Primary        bool   `json:"primary"`
	AcceptedAnswer bool   `json:"accepted_answer"`
	// Type is "onyomi", "kunyomi" or "nanori".
	Type string `json:"type"`
}

// Kanji is a subject composed of radicals and used in vocabulary.
type Kanji struct {
	SubjectCommon

	// AmalgamationSubjectIDs are the vocabulary that use this kanji.
	AmalgamationSubjectIDs []int64 `json:"amalgamation_subject_ids"`

	Characters string `json:"characters"`

	// ComponentSubjectIDs are the radicals making up this kanji.
	ComponentSubjectIDs []int64 `json:"component_subject_ids"`

	MeaningHint     *string        `json:"meaning_hint"`
	ReadingHint     *string        `json:"reading_hint"`
	ReadingMnemonic string         `json:"reading_mnemonic"`
	Readings        []KanjiReading `json:"readings"`

	VisuallySimilarSubjectIDs []int64 `json:"visually_similar_subject_ids"`
}

// SubjectType returns SubjectKanji.
func (Kanji) SubjectType() SubjectType { return SubjectKanji }

// ContextSentence pairs a Japanese sentence with its English translation.
type ContextSentence struct {
	En string `json:"en"`
	Ja string `json:"ja"`
}

// AudioMetadata describes a pronunciation recording.
type AudioMetadata struct {
	Gender           string `json:"gender"`
	SourceID         int64  `json:"source_id"`
	Pronunciation    string `json:"pronunciation"`
	VoiceActorID     int64  `json:"voice_actor_id"`
	VoiceActorName   string `json:"voice_actor_name"`
	VoiceDescription string `json:"voice_description"`
}

// PronunciationAudio is one audio rendition of a vocabulary reading.
type PronunciationAudio struct {
	URL         string        `json:"url"`
	ContentType string        `json:"content_type"`
	Metadata    AudioMetadata `json:"metadata"`
}

// VocabularyReading is one reading of a vocabulary word.
type VocabularyReading struct {
	AcceptedAnswer bool   `json:"accepted_answer"`
	Primary        bool   `json:"primary"`
	Reading        string `json:"reading"`
}

// Vocabulary is a subject containing kanji.
type Vocabulary struct {
	SubjectCommon

	Characters string `json:"characters"`

	// ComponentSubjectIDs are the kanji making up this word.
	ComponentSubjectIDs []int64 `json:"component_subject_ids"`

	ContextSentences    []ContextSentence    `json:"context_sentences"`
	PartsOfSpeech       []string             `json:"parts_of_speech"`
	PronunciationAudios []PronunciationAudio `json:"pronunciation_audios"`
	Readings            []VocabularyReading  `json:"readings"`
	ReadingMnemonic     string               `json:"reading_mnemonic"`
}

// SubjectType returns SubjectVocabulary.
func (Vocabulary) SubjectType() SubjectType { return SubjectVocabulary }

// KanaVocabulary is a subject written entirely in kana, with no reading step.
type KanaVocabulary struct {
	SubjectCommon

	Characters string `json:"characters"`

	ContextSentences    []ContextSentence    `json:"context_sentences"`
	PartsOfSpeech       []string             `json:"parts_of_speech"`
	PronunciationAudios []PronunciationAudio `json:"pronunciation_audios"`
}

// SubjectType returns SubjectKanaVocabulary.
func (KanaVocabulary) SubjectType() SubjectType { return SubjectKanaVocabulary }
