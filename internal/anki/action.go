package anki

// Action names a remote AnkiConnect operation. The set of actions the client
// knows about is closed; AnkiConnect ignores unknown parameters but rejects
// unknown actions with an application error.
type Action string

const (
	ActionDeckNames       Action = "deckNames"
	ActionFindCards       Action = "findCards"
	ActionCardsInfo       Action = "cardsInfo"
	ActionAnswerCards     Action = "answerCards"
	ActionModelNames      Action = "modelNames"
	ActionModelFieldNames Action = "modelFieldNames"
	ActionAddNote         Action = "addNote"
	ActionFindNotes       Action = "findNotes"
	ActionNotesInfo       Action = "notesInfo"
)
