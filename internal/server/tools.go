package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ankimcp/ankimcp/internal/anki"
	"github.com/ankimcp/ankimcp/internal/config"
	"github.com/ankimcp/ankimcp/internal/log"
	"github.com/ankimcp/ankimcp/internal/prompts"
	"github.com/ankimcp/ankimcp/internal/query"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("num_cards_due_today",
		mcp.WithDescription("Get the number of cards due exactly today, with an optional deck filter."),
		mcp.WithString("deck", mcp.Description("Filter by specific deck (use exact name).")),
	), s.handleNumCardsDueToday)

	s.mcp.AddTool(mcp.NewTool("list_decks_and_notes",
		mcp.WithDescription("Get all decks (excluding configured patterns) and note types with their fields."),
	), s.handleListDecksAndNotes)

	s.mcp.AddTool(mcp.NewTool("get_examples",
		mcp.WithDescription("Get example notes from Anki to guide your flashcard making. Limit the number of examples returned and provide a sampling technique: "+
			"random (randomly sampled), recent (added in the last week), most_reviewed (more than 10 reviews), "+
			"best_performance (less than 3 lapses), mature (interval of at least 21 days), young (interval of 7 days or less)."),
		mcp.WithString("deck", mcp.Description("Filter by specific deck (use exact name).")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of examples to return."), mcp.DefaultNumber(config.DefaultReviewLimit), mcp.Min(1)),
		mcp.WithString("sample",
			mcp.Description("Sampling technique."),
			mcp.DefaultString(string(query.SampleRandom)),
			mcp.Enum(sampleNames()...),
		),
	), s.handleGetExamples)

	s.mcp.AddTool(mcp.NewTool("fetch_due_cards_for_review",
		mcp.WithDescription("Fetch cards due for review, formatted for an LLM to present to the user."),
		mcp.WithString("deck", mcp.Description("Filter by specific deck name.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of cards to fetch."), mcp.DefaultNumber(config.DefaultReviewLimit), mcp.Min(1)),
		mcp.WithBoolean("today_only", mcp.Description("If true, only fetch cards due today; otherwise include cards due in the next few days."), mcp.DefaultBool(true)),
	), s.handleFetchDueCards)

	s.mcp.AddTool(mcp.NewTool("submit_reviews",
		mcp.WithDescription("Submit multiple card reviews to Anki using ratings ('wrong', 'hard', 'good', 'easy')."),
		mcp.WithArray("reviews",
			mcp.Required(),
			mcp.Description("List of reviews, each with card_id (int) and rating ('wrong', 'hard', 'good' or 'easy')."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"card_id": map[string]any{"type": "integer"},
					"rating":  map[string]any{"type": "string", "enum": config.ValidRatings()},
				},
				"required": []string{"card_id", "rating"},
			}),
		),
	), s.handleSubmitReviews)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a flashcard to Anki. Look at existing examples first and get the user's approval before adding. "+
			"Use <code> tags for code and <math> tags for MathJax equations."),
		mcp.WithString("deckName", mcp.Required(), mcp.Description("The target deck name.")),
		mcp.WithString("modelName", mcp.Required(), mcp.Description("The note type (model) name.")),
		mcp.WithObject("fields", mcp.Required(), mcp.Description("Field names mapped to their string content.")),
		mcp.WithArray("tags", mcp.Description("Optional list of tags."), mcp.Items(map[string]any{"type": "string"})),
	), s.handleAddNote)
}

func sampleNames() []string {
	samples := query.Samples()
	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = string(s)
	}
	return names
}

func (s *Server) handleNumCardsDueToday(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck := strArg(req, "deck", "")
	return s.withClient("num_cards_due_today", func(client *anki.Client) (string, error) {
		cardIDs, err := findDueCardIDs(ctx, client, deck, 0)
		if err != nil {
			return "", err
		}
		deckMsg := " across all decks"
		if deck != "" {
			deckMsg = fmt.Sprintf(" in deck '%s'", deck)
		}
		return fmt.Sprintf("There are %d cards due today%s.", len(cardIDs), deckMsg), nil
	})
}

func (s *Server) handleListDecksAndNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.withClient("list_decks_and_notes", func(client *anki.Client) (string, error) {
		allDecks, err := client.DeckNames(ctx)
		if err != nil {
			return "", err
		}
		var decks []string
		for _, d := range allDecks {
			if !s.cfg.Excluded(d) {
				decks = append(decks, d)
			}
		}

		modelNames, err := client.ModelNames(ctx)
		if err != nil {
			return "", err
		}
		var models []noteType
		for _, model := range modelNames {
			if s.cfg.Excluded(model) {
				continue
			}
			fields, err := client.ModelFieldNames(ctx, model)
			if err != nil {
				// A single broken model should not sink the whole listing.
				log.Warn("skipping note type, could not get fields", "model", model, "error", err.Error())
				continue
			}
			models = append(models, noteType{Name: model, Fields: fields})
		}

		return formatDecksAndNotes(decks, models), nil
	})
}

func (s *Server) handleGetExamples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck := strArg(req, "deck", "")
	limit := intArg(req, "limit", config.DefaultReviewLimit)
	if limit < 1 {
		limit = 1
	}
	sample := query.Sample(strArg(req, "sample", string(query.SampleRandom)))

	return s.withClient("get_examples", func(client *anki.Client) (string, error) {
		q, err := query.Examples(deck, sample, s.cfg.Exclude)
		if err != nil {
			return "", err
		}
		log.Debug("finding example notes", "query", q)

		noteIDs, err := client.FindNotes(ctx, q)
		if err != nil {
			return "", err
		}
		if len(noteIDs) == 0 {
			return fmt.Sprintf("No example notes found matching criteria (Sample: %s, Deck: %s).", sample, deckOrAny(deck)), nil
		}

		if sample == query.SampleRandom && len(noteIDs) > limit {
			rand.Shuffle(len(noteIDs), func(i, j int) {
				noteIDs[i], noteIDs[j] = noteIDs[j], noteIDs[i]
			})
			noteIDs = noteIDs[:limit]
		} else if len(noteIDs) > limit {
			// Sorted queries already put the most relevant notes first.
			noteIDs = noteIDs[:limit]
		}

		notes, err := client.NotesInfo(ctx, noteIDs)
		if err != nil {
			return "", err
		}

		examples := make([]exampleNote, 0, len(notes))
		for _, note := range notes {
			fields := make(map[string]string, len(note.Fields))
			for name, field := range note.Fields {
				fields[name] = simplifyCodeBlocks(field.Value)
			}
			tags := note.Tags
			if tags == nil {
				tags = []string{}
			}
			examples = append(examples, exampleNote{
				ModelName: note.ModelName,
				Fields:    fields,
				Tags:      tags,
			})
		}

		// Field values hold HTML the LLM should see as-is, so keep the
		// encoder from escaping it.
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(examples); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s\n\nHere are some examples based on your criteria:\n%s", prompts.FlashcardGuidelines, strings.TrimSpace(buf.String())), nil
	})
}

func (s *Server) handleFetchDueCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck := strArg(req, "deck", "")
	limit := intArg(req, "limit", s.cfg.ReviewLimit)
	if limit < 1 {
		limit = 1
	}
	todayOnly := boolArg(req, "today_only", true)

	return s.withClient("fetch_due_cards_for_review", func(client *anki.Client) (string, error) {
		maxDay := 0
		if !todayOnly {
			maxDay = s.cfg.MaxFutureDays
		}

		cardIDs, err := findDueCardIDs(ctx, client, deck, maxDay)
		if err != nil {
			return "", err
		}
		if len(cardIDs) > limit {
			cardIDs = cardIDs[:limit]
		}
		if len(cardIDs) == 0 {
			deckMsg := ""
			if deck != "" {
				deckMsg = fmt.Sprintf(" in deck '%s'", deck)
			}
			whenMsg := "today"
			if !todayOnly {
				whenMsg = fmt.Sprintf("within the next %d days", maxDay)
			}
			return fmt.Sprintf("No cards found due %s%s.", whenMsg, deckMsg), nil
		}

		cards, err := client.CardsInfo(ctx, cardIDs)
		if err != nil {
			return "", err
		}
		return prompts.WithFlashcards(formatCards(cards)), nil
	})
}

func (s *Server) handleSubmitReviews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawReviews, ok := req.GetArguments()["reviews"].([]any)
	if !ok || len(rawReviews) == 0 {
		return mcp.NewToolResultText("No reviews provided to submit."), nil
	}

	type review struct {
		cardID int64
		rating string
	}
	var (
		reviews          []review
		answers          []anki.Answer
		validationErrors []string
	)
	for _, raw := range rawReviews {
		entry, ok := raw.(map[string]any)
		if !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("Invalid review entry: %v.", raw))
			continue
		}
		id, ok := entry["card_id"].(float64)
		if !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("Invalid card_id '%v' in review: %v. Must be an integer.", entry["card_id"], raw))
			continue
		}
		rating := strings.ToLower(fmt.Sprintf("%v", entry["rating"]))
		ease, ok := config.RatingToEase[rating]
		if !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("Invalid rating '%s' for card_id %d. Must be one of: %s.", rating, int64(id), strings.Join(config.ValidRatings(), ", ")))
			continue
		}
		reviews = append(reviews, review{cardID: int64(id), rating: rating})
		answers = append(answers, anki.Answer{CardID: int64(id), Ease: ease})
	}

	if len(validationErrors) > 0 {
		return mcp.NewToolResultText("SYSTEM_ERROR: Could not submit reviews due to validation errors:\n" + strings.Join(validationErrors, "\n")), nil
	}
	if len(answers) == 0 {
		return mcp.NewToolResultText("No valid reviews found to submit after validation."), nil
	}

	return s.withClient("submit_reviews", func(client *anki.Client) (string, error) {
		log.Info("submitting reviews", "count", len(answers))
		results, err := client.AnswerCards(ctx, answers)
		if err != nil {
			return "", err
		}
		if len(results) != len(answers) {
			log.Warn("answerCards result length mismatch", "expected", len(answers), "got", len(results))
		}

		var (
			messages     []string
			successCount int
			failCount    int
		)
		for i, r := range reviews {
			// AnkiConnect may return fewer results than answers; anything
			// past the end counts as a failure.
			success := i < len(results) && results[i]
			if success {
				messages = append(messages, fmt.Sprintf("Card %d: Marked as '%s' successfully.", r.cardID, r.rating))
				successCount++
			} else {
				messages = append(messages, fmt.Sprintf("Card %d: Failed to mark as '%s'.", r.cardID, r.rating))
				failCount++
			}
		}

		summary := fmt.Sprintf("Review submission summary: %d successful, %d failed.", successCount, failCount)
		return summary + "\n" + strings.Join(messages, "\n"), nil
	})
}

func (s *Server) handleAddNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckName := strArg(req, "deckName", "")
	modelName := strArg(req, "modelName", "")
	rawFields, _ := req.GetArguments()["fields"].(map[string]any)
	if deckName == "" || modelName == "" || len(rawFields) == 0 {
		return mcp.NewToolResultText("SYSTEM_ERROR: deckName, modelName and fields are all required to add a note."), nil
	}

	fields := make(map[string]string, len(rawFields))
	for name, value := range rawFields {
		str, ok := value.(string)
		if !ok {
			log.Warn("non-string field value, passing through", "field", name)
			str = fmt.Sprintf("%v", value)
		}
		fields[name] = renderFieldValue(str)
	}

	var tags []string
	if rawTags, ok := req.GetArguments()["tags"].([]any); ok {
		for _, t := range rawTags {
			if str, ok := t.(string); ok {
				tags = append(tags, str)
			}
		}
	}
	if tags == nil {
		tags = []string{}
	}

	note := anki.Note{
		DeckName:  deckName,
		ModelName: modelName,
		Fields:    fields,
		Tags:      tags,
		Options: &anki.NoteOptions{
			AllowDuplicate: false,
			DuplicateScope: "deck",
		},
	}

	return s.withClient("add_note", func(client *anki.Client) (string, error) {
		log.Info("adding note", "deck", deckName, "model", modelName)
		noteID, err := client.AddNote(ctx, note)
		if err != nil {
			return "", err
		}
		if noteID == 0 {
			// AnkiConnect signalled failure without an application error.
			return fmt.Sprintf("SYSTEM_ERROR: Failed to add note to deck '%s'. AnkiConnect did not return a note ID or indicated failure.", deckName), nil
		}
		return fmt.Sprintf("Successfully created note with ID: %d in deck '%s'.", noteID, deckName), nil
	})
}

func deckOrAny(deck string) string {
	if deck == "" {
		return "Any"
	}
	return deck
}
