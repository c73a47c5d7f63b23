package agent

import (
	"context"
	"log"

	"github.com/careerforge/careerforge/internal/content"
	"github.com/careerforge/careerforge/internal/intent"
	"github.com/careerforge/careerforge/internal/llm"
	"github.com/careerforge/careerforge/internal/memory"
	"github.com/careerforge/careerforge/internal/profile"
	"github.com/careerforge/careerforge/internal/scrape"
)

// apologyReply is the single generic reply for unexpected handler failures.
const apologyReply = "I apologize, but I encountered an error processing your message. Please try again."

// Router turns one inbound chat message into one reply. It owns the
// handle sequence: persist the user turn, classify, dispatch to the intent
// handler, persist the assistant turn. A handler error yields the generic
// apology and leaves no assistant turn in memory.
type Router struct {
	store     *memory.Store
	scraper   scrape.Scraper
	completer llm.Completer
	generator *content.Generator
	analyzer  *profile.Analyzer

	onIntent       func(tag intent.Tag)
	onHandlerError func(tag intent.Tag)
}

func NewRouter(store *memory.Store, scraper scrape.Scraper, completer llm.Completer) *Router {
	return &Router{
		store:     store,
		scraper:   scraper,
		completer: completer,
		generator: content.NewGenerator(completer),
		analyzer:  profile.NewAnalyzer(),
	}
}

// SetIntentHook installs an observer for classified intents (metrics).
// Must be called before concurrent use.
func (r *Router) SetIntentHook(hook func(tag intent.Tag)) {
	r.onIntent = hook
}

// SetHandlerErrorHook installs an observer for handler failures (metrics).
// Must be called before concurrent use.
func (r *Router) SetHandlerErrorHook(hook func(tag intent.Tag)) {
	r.onHandlerError = hook
}

// Process never fails: every message gets a reply.
func (r *Router) Process(ctx context.Context, userID, message string) string {
	r.store.RecordMessage(ctx, userID, message, memory.SenderUser)

	tag := intent.Classify(message)
	if r.onIntent != nil {
		r.onIntent(tag)
	}

	reply, err := r.dispatch(ctx, userID, message, tag)
	if err != nil {
		log.Printf("agent: %s handler failed for user %s: %v", tag, userID, err)
		if r.onHandlerError != nil {
			r.onHandlerError(tag)
		}
		return apologyReply
	}

	r.store.RecordMessage(ctx, userID, reply, memory.SenderAssistant)
	return reply
}

func (r *Router) dispatch(ctx context.Context, userID, message string, tag intent.Tag) (string, error) {
	switch tag {
	case intent.ProfileAnalysis:
		return r.handleProfileAnalysis(ctx, userID, message)
	case intent.JobAnalysis:
		return r.handleJobAnalysis(ctx, userID, message)
	case intent.ContentGeneration:
		return r.handleContentGeneration(ctx, userID, message)
	case intent.CareerGuidance:
		return r.handleCareerGuidance(ctx, userID, message)
	case intent.Help:
		return helpReply, nil
	default:
		return r.handleGeneralConversation(ctx, userID, message)
	}
}
