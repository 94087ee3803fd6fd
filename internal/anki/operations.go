package anki

import (
	"context"
	"encoding/json"
	"fmt"
)

// call invokes action and decodes the result payload into out. A nil out
// discards the result. Decode failures are unexpected: AnkiConnect result
// shapes are fixed per action.
func (c *Client) call(ctx context.Context, action Action, params map[string]any, out any) error {
	raw, err := c.Invoke(ctx, action, params)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &UnexpectedError{cause: fmt.Errorf("decoding %s result: %w", action, err)}
	}
	return nil
}

// DeckNames returns the names of all decks in the collection.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, ActionDeckNames, nil, &names); err != nil {
		return nil, fmt.Errorf("getting deck names: %w", err)
	}
	return names, nil
}

// FindCards returns the IDs of cards matching an Anki search query.
func (c *Client) FindCards(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.call(ctx, ActionFindCards, map[string]any{"query": query}, &ids); err != nil {
		return nil, fmt.Errorf("finding cards: %w", err)
	}
	return ids, nil
}

// CardsInfo fetches detail records for the given card IDs.
func (c *Client) CardsInfo(ctx context.Context, cardIDs []int64) ([]CardInfo, error) {
	var cards []CardInfo
	if err := c.call(ctx, ActionCardsInfo, map[string]any{"cards": cardIDs}, &cards); err != nil {
		return nil, fmt.Errorf("getting cards info: %w", err)
	}
	return cards, nil
}

// AnswerCards submits a batch of review outcomes. The returned slice holds
// one success flag per answer, but AnkiConnect does not guarantee it is the
// same length as the input; callers must treat missing entries as failures
// rather than index into it blindly.
func (c *Client) AnswerCards(ctx context.Context, answers []Answer) ([]bool, error) {
	var results []bool
	if err := c.call(ctx, ActionAnswerCards, map[string]any{"answers": answers}, &results); err != nil {
		return nil, fmt.Errorf("answering cards: %w", err)
	}
	return results, nil
}

// ModelNames returns the names of all note types.
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, ActionModelNames, nil, &names); err != nil {
		return nil, fmt.Errorf("getting model names: %w", err)
	}
	return names, nil
}

// ModelFieldNames returns the field names of a note type.
func (c *Client) ModelFieldNames(ctx context.Context, modelName string) ([]string, error) {
	var names []string
	if err := c.call(ctx, ActionModelFieldNames, map[string]any{"modelName": modelName}, &names); err != nil {
		return nil, fmt.Errorf("getting model field names: %w", err)
	}
	return names, nil
}

// AddNote creates a note and returns its ID. A zero ID with a nil error
// means AnkiConnect declined the note without reporting an application
// error (for example a duplicate with allowDuplicate=false on some
// versions); callers must check for it.
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	var id int64
	if err := c.call(ctx, ActionAddNote, map[string]any{"note": note}, &id); err != nil {
		return 0, fmt.Errorf("adding note: %w", err)
	}
	return id, nil
}

// FindNotes returns the IDs of notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.call(ctx, ActionFindNotes, map[string]any{"query": query}, &ids); err != nil {
		return nil, fmt.Errorf("finding notes: %w", err)
	}
	return ids, nil
}

// NotesInfo fetches detail records for the given note IDs.
func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]NoteInfo, error) {
	var notes []NoteInfo
	if err := c.call(ctx, ActionNotesInfo, map[string]any{"notes": noteIDs}, &notes); err != nil {
		return nil, fmt.Errorf("getting notes info: %w", err)
	}
	return notes, nil
}
