// Package feedback turns submitted answers into stored responses and groups
// stored responses per room for review.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"converge-backend/internal/apperr"
	"converge-backend/internal/models"
	"converge-backend/internal/store"
)

// StartDateLayout formats question start dates in user facing messages
const StartDateLayout = "2006/01/02 15:04:05"

type QuestionCatalog interface {
	GetQuestion(ctx context.Context, id uint) (*models.Question, error)
}

type ResourceCatalog interface {
	GetResource(ctx context.Context, id uint) (*models.Resource, error)
	MissingResourceNames(ctx context.Context, responseIDs []uint) (map[uint][]string, error)
}

// Item is one answer of a submission
type Item struct {
	QuestionID   uint    `json:"question_id" validate:"required"`
	Rate         *int    `json:"rate"`
	Check        *bool   `json:"check"`
	TextArea     *string `json:"text_area"`
	MissingItems []uint  `json:"missing_items"`
}

// Builder checks answers against their questions and produces unsaved
// response records.
type Builder struct {
	questions QuestionCatalog
	resources ResourceCatalog
	now       func() time.Time
}

func NewBuilder(questions QuestionCatalog, resources ResourceCatalog) *Builder {
	return &Builder{questions: questions, resources: resources, now: time.Now}
}

// Build evaluates items in order. Items with problems are skipped and their
// messages returned in input order; the error is only set when a catalog
// lookup itself fails.
func (b *Builder) Build(ctx context.Context, userID *uint, roomID uint, items []Item) ([]*models.Response, []string, error) {
	var records []*models.Response
	var problems []string
	now := b.now()

	for _, item := range items {
		question, err := b.questions.GetQuestion(ctx, item.QuestionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				problems = append(problems, fmt.Sprintf("Response to question %d was not saved because it does not exist", item.QuestionID))
				continue
			}
			return nil, nil, apperr.Store("get question", err)
		}

		if !question.HasStarted(now) {
			problems = append(problems, fmt.Sprintf("The start date for the response to this question is yet to commence. Try on %s", question.StartDate.Format(StartDateLayout)))
			continue
		}

		record := &models.Response{
			UserID:     userID,
			RoomID:     roomID,
			QuestionID: question.ID,
		}

		switch question.QuestionType {
		case models.QuestionTypeRate:
			if item.Rate == nil || *item.Rate < 1 || *item.Rate > 5 {
				problems = append(problems, fmt.Sprintf("Response to question %d must be a rating between 1 and 5", question.ID))
				continue
			}
			rate := *item.Rate
			record.Rate = &rate

		case models.QuestionTypeCheck:
			check := item.Check != nil && *item.Check
			record.Check = &check

		case models.QuestionTypeInput:
			if item.TextArea == nil || strings.TrimSpace(*item.TextArea) == "" {
				problems = append(problems, fmt.Sprintf("Response to question %d requires a text response", question.ID))
				continue
			}
			text := *item.TextArea
			record.TextArea = &text

			missing, unknown, err := b.missingResources(ctx, question.ID, item.MissingItems)
			if err != nil {
				return nil, nil, err
			}
			if len(unknown) > 0 {
				problems = append(problems, unknown...)
				continue
			}
			record.MissingResources = missing

		default:
			problems = append(problems, fmt.Sprintf("Question %d has an unsupported type %s", question.ID, question.QuestionType))
			continue
		}

		records = append(records, record)
	}

	return records, problems, nil
}

func (b *Builder) missingResources(ctx context.Context, questionID uint, ids []uint) ([]models.Resource, []string, error) {
	var found []models.Resource
	var unknown []string
	for _, id := range ids {
		resource, err := b.resources.GetResource(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				unknown = append(unknown, fmt.Sprintf("Missing item %d for question %d does not exist", id, questionID))
				continue
			}
			return nil, nil, apperr.Store("get resource", err)
		}
		found = append(found, *resource)
	}
	return found, unknown, nil
}
