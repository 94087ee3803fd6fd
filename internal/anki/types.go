package anki

// Field is a single note field as returned by cardsInfo and notesInfo.
// Order is the field's position within the note type.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// CardInfo is the subset of the cardsInfo record the tools consume.
type CardInfo struct {
	CardID     int64            `json:"cardId"`
	DeckName   string           `json:"deckName"`
	ModelName  string           `json:"modelName"`
	FieldOrder int              `json:"fieldOrder"`
	Fields     map[string]Field `json:"fields"`
	Due        int64            `json:"due"`
	Interval   int              `json:"interval"`
}

// NoteInfo is the subset of the notesInfo record the tools consume.
type NoteInfo struct {
	NoteID    int64            `json:"noteId"`
	ModelName string           `json:"modelName"`
	Fields    map[string]Field `json:"fields"`
	Tags      []string         `json:"tags"`
}

// Answer is a single review outcome submitted through answerCards.
// Ease is 1-4 (again/hard/good/easy).
type Answer struct {
	CardID int64 `json:"cardId"`
	Ease   int   `json:"ease"`
}

// NoteOptions controls duplicate handling when adding a note.
type NoteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope,omitempty"`
}

// Note is the payload for addNote.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
	Options   *NoteOptions      `json:"options,omitempty"`
}
