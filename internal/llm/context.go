package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	quizIDKey  contextKey = "llm_quiz_id"
)

// WithPurpose attaches a purpose label such as "wordle/content" to the
// context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithQuizID ties every call made with ctx to one quiz generation.
func WithQuizID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, quizIDKey, id)
}

// QuizIDFrom returns the quiz ID on ctx, or "".
func QuizIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(quizIDKey).(string)
	return v
}
