package anki

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDeckNames(t *testing.T) {
	client, requests := newFakeServer(t, `{"result": ["Default", "Test"], "error": null}`)

	decks, err := client.DeckNames(context.Background())
	if err != nil {
		t.Fatalf("DeckNames failed: %v", err)
	}
	if len(decks) != 2 || decks[0] != "Default" || decks[1] != "Test" {
		t.Errorf("decks = %v, want [Default Test]", decks)
	}
	if (*requests)[0].Action != "deckNames" {
		t.Errorf("action = %q, want deckNames", (*requests)[0].Action)
	}
}

func TestAddNote(t *testing.T) {
	client, requests := newFakeServer(t, `{"result": 12345, "error": null}`)

	id, err := client.AddNote(context.Background(), Note{
		DeckName:  "Default",
		ModelName: "Basic",
		Fields:    map[string]string{"Front": "q", "Back": "a"},
		Tags:      []string{"test"},
	})
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if id != 12345 {
		t.Errorf("id = %d, want 12345", id)
	}

	req := (*requests)[0]
	if req.Action != "addNote" {
		t.Errorf("action = %q, want addNote", req.Action)
	}
	note, ok := req.Params["note"].(map[string]any)
	if !ok {
		t.Fatalf("note param missing: %v", req.Params)
	}
	if note["deckName"] != "Default" {
		t.Errorf("deckName = %v, want Default", note["deckName"])
	}
}

func TestAddNoteNullResultMeansRefused(t *testing.T) {
	client, _ := newFakeServer(t, `{"result": null, "error": null}`)

	id, err := client.AddNote(context.Background(), Note{DeckName: "Default", ModelName: "Basic"})
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if id != 0 {
		t.Errorf("id = %d, want 0 to signal refusal", id)
	}
}

func TestAnswerCardsShortResult(t *testing.T) {
	client, _ := newFakeServer(t, `{"result": [true, false], "error": null}`)

	results, err := client.AnswerCards(context.Background(), []Answer{
		{CardID: 1, Ease: 3},
		{CardID: 2, Ease: 3},
		{CardID: 3, Ease: 3},
	})
	if err != nil {
		t.Fatalf("AnswerCards failed: %v", err)
	}
	// The client hands the mismatch through; tolerating it is the caller's
	// job and is covered by the tool layer tests.
	if len(results) != 2 {
		t.Errorf("results = %v, want the two flags the service sent", results)
	}
}

func TestOperationsWrapWithoutLosingKind(t *testing.T) {
	client, _ := newFakeServer(t, `{"result": null, "error": "model was not found: Bogus"}`)

	_, err := client.ModelFieldNames(context.Background(), "Bogus")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "getting model field names") {
		t.Errorf("error text %q missing operation context", err.Error())
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("operation wrapping lost the error kind: %T", err)
	}
	if apiErr.Message != "model was not found: Bogus" {
		t.Errorf("message = %q, want verbatim service message", apiErr.Message)
	}
}

func TestCardsInfoDecodesFields(t *testing.T) {
	client, requests := newFakeServer(t, `{"result": [{"cardId": 42, "deckName": "Default", "fieldOrder": 0, "fields": {"Front": {"value": "Q", "order": 0}, "Back": {"value": "A", "order": 1}}}], "error": null}`)

	cards, err := client.CardsInfo(context.Background(), []int64{42})
	if err != nil {
		t.Fatalf("CardsInfo failed: %v", err)
	}
	if len(cards) != 1 || cards[0].CardID != 42 {
		t.Fatalf("cards = %+v, want one card with ID 42", cards)
	}
	if cards[0].Fields["Back"].Order != 1 {
		t.Errorf("Back order = %d, want 1", cards[0].Fields["Back"].Order)
	}

	rawIDs, ok := (*requests)[0].Params["cards"].([]any)
	if !ok || len(rawIDs) != 1 {
		t.Errorf("cards param = %v, want [42]", (*requests)[0].Params["cards"])
	}
}
