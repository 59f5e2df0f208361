package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
)

// contextRetrievalLimit is how many recent answer summaries bias a generated
// question. Retrieval is most-recent-N by creation time; the embedding field
// on contexts is reserved for similarity search later.
const contextRetrievalLimit = 5

// Resolver turns a due reservation into the question text to deliver.
type Resolver struct {
	questions QuestionStore
	metas     MetaQuestionStore
	contexts  ContextStore
	generator TextGenerator
}

// NewResolver creates a new Resolver.
func NewResolver(questions QuestionStore, metas MetaQuestionStore, contexts ContextStore, generator TextGenerator) *Resolver {
	return &Resolver{
		questions: questions,
		metas:     metas,
		contexts:  contexts,
		generator: generator,
	}
}

// ResolveText returns the text to deliver for a reservation, or "" when the
// reservation's target cannot be resolved. An empty result means "skip this
// firing and retry next tick"; it is never an error. Generation failures for
// meta-questions fall back to the raw base prompt so delivery is never
// blocked by the generation service.
func (r *Resolver) ResolveText(ctx context.Context, res *models.QuestionReservation) string {
	if res.QuestionID != nil && !res.QuestionID.IsZero() {
		question, err := r.questions.GetQuestionByID(ctx, *res.QuestionID)
		if err != nil {
			logger.Log.WithError(err).WithField("reservation_id", res.ID.Hex()).Warn("Reservation question not found")
			return ""
		}
		return question.Content
	}

	if res.MetaQuestionID != nil && !res.MetaQuestionID.IsZero() {
		meta, err := r.metas.GetMetaQuestionByID(ctx, *res.MetaQuestionID)
		if err != nil {
			logger.Log.WithError(err).WithField("reservation_id", res.ID.Hex()).Warn("Reservation meta question not found")
			return ""
		}
		return r.generateFromMeta(ctx, res, meta)
	}

	logger.Log.WithField("reservation_id", res.ID.Hex()).Warn("Reservation has no question target")
	return ""
}

func (r *Resolver) generateFromMeta(ctx context.Context, res *models.QuestionReservation, meta *models.MetaQuestion) string {
	contextText := "- No recent context available."
	contexts, err := r.contexts.GetRecentContexts(ctx, res.UserID, contextRetrievalLimit)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", res.UserID.Hex()).Warn("Failed to retrieve question contexts")
	} else if len(contexts) > 0 {
		summaries := make([]string, 0, len(contexts))
		for _, qc := range contexts {
			summaries = append(summaries, qc.Summary)
		}
		contextText = strings.Join(summaries, "\n")
	}

	prompt := fmt.Sprintf(`You are generating a single personalized question for a user.
Base prompt: %s
Recent context summaries:
%s

Return ONE question sentence only, no extra text.`, meta.BasePrompt, contextText)

	if r.generator == nil {
		return meta.BasePrompt
	}

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil || text == "" {
		logger.Log.WithError(err).WithField("meta_question_id", meta.ID.Hex()).Warn("Question generation failed, using base prompt")
		return meta.BasePrompt
	}
	return text
}
