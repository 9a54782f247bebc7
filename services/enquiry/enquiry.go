package enquiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	enquiryRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/enquiry"
	ruleRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/rule"
	treeRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/tree"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/services/engine"
	"github.com/jabezgenics-alt/ezzo-sales/services/quote"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an enquiry id matches nothing.
var ErrNotFound = errors.New("enquiry not found")

// ErrNotComplete is returned when a quote is requested before all questions
// are answered.
var ErrNotComplete = errors.New("enquiry still has unanswered questions")

const clarifyMessage = "Could you tell me a bit more about the service you need? For example the type of work (fencing, decking, painting...)."

// DefaultEnquiryService is the canonical EnquiryService implementation.
type DefaultEnquiryService struct {
	EnquiryRepo enquiryRepo.EnquiryRepository
	TreeRepo    treeRepo.TreeRepository
	RuleRepo    ruleRepo.RuleRepository
	Classifier  engine.ServiceClassifier
	Interpreter engine.AnswerInterpreter
	Evaluator   *engine.Evaluator
	Composer    *engine.Composer
	Quotes      quote.QuoteService
	// Region scopes tax rule lookup, e.g. "SG".
	Region string
}

// Create opens an enquiry from a customer's first message. When the
// classifier finds a service tree, values already present in the message are
// seeded as prefilled answers awaiting confirmation and the reply carries
// the first question; otherwise it asks the customer to clarify.
func (s *DefaultEnquiryService) Create(ctx context.Context, customerID, message string) (*models.EnquiryReply, error) {
	now := time.Now()
	enq := &models.Enquiry{
		ID:             uuid.New().String(),
		CustomerID:     customerID,
		InitialMessage: message,
		Status:         models.EnquiryStatusCollectingInfo,
		Answers:        models.CollectedAnswers{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tree, err := s.classify(ctx, message)
	if err != nil {
		return nil, err
	}
	if tree != nil {
		enq.ServiceTreeID = tree.ID
		enq.Answers = engine.SeedAnswers(message, tree)
	}

	if err := s.EnquiryRepo.Create(ctx, enq); err != nil {
		return nil, fmt.Errorf("failed to create enquiry: %w", err)
	}
	s.record(ctx, enq.ID, "customer", message)

	if tree == nil {
		s.record(ctx, enq.ID, "assistant", clarifyMessage)
		return &models.EnquiryReply{EnquiryID: enq.ID, Message: clarifyMessage}, nil
	}

	utils.GetLogger().Info("enquiry opened",
		zap.String("enquiryId", enq.ID),
		zap.String("service", tree.ServiceName))
	return s.ask(ctx, enq, tree)
}

// SubmitAnswer processes one customer reply. An unparseable reply re-asks
// the same question; a parsed one advances the tree. When the last question
// is answered the reply carries the draft quote.
func (s *DefaultEnquiryService) SubmitAnswer(ctx context.Context, enquiryID, message string) (*models.EnquiryReply, error) {
	enq, err := s.Get(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, enq.ID, "customer", message)

	// Still unclassified: treat the reply as another attempt to name the
	// service.
	if enq.ServiceTreeID == "" {
		tree, err := s.classify(ctx, message)
		if err != nil {
			return nil, err
		}
		if tree == nil {
			s.record(ctx, enq.ID, "assistant", clarifyMessage)
			return &models.EnquiryReply{EnquiryID: enq.ID, Message: clarifyMessage}, nil
		}
		enq.ServiceTreeID = tree.ID
		enq.Answers = engine.SeedAnswers(message, tree)
		enq.UpdatedAt = time.Now()
		if err := s.EnquiryRepo.Update(ctx, enq); err != nil {
			return nil, fmt.Errorf("failed to attach service tree: %w", err)
		}
		return s.ask(ctx, enq, tree)
	}

	tree, err := s.tree(ctx, enq)
	if err != nil {
		return nil, err
	}
	current, err := engine.NextQuestion(tree, enq.Answers)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return s.finish(ctx, enq, tree)
	}

	// A prefilled answer awaiting confirmation: "yes" confirms it, any
	// other reply replaces it.
	if prior, ok := enq.Answers.Get(current.ID); ok && prior.Prefilled && !prior.Confirmed {
		confirm, err := s.Interpreter.Parse(ctx, message, models.QuestionBoolean, nil)
		if err != nil {
			return nil, err
		}
		if confirm.Valid {
			if yes, _ := confirm.Value.(bool); yes {
				prior.Confirmed = true
				return s.store(ctx, enq, tree, current.ID, prior)
			}
		}
	}

	parsed, err := s.Interpreter.Parse(ctx, message, current.Type, current.Choices)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		reply := "Sorry, I didn't catch that. " + current.Prompt
		s.record(ctx, enq.ID, "assistant", reply)
		return &models.EnquiryReply{EnquiryID: enq.ID, Message: reply, Question: current}, nil
	}

	return s.store(ctx, enq, tree, current.ID, models.Answer{Value: parsed.Value, Source: "customer"})
}

// PreviewDraft composes the draft quote for a complete answer set.
func (s *DefaultEnquiryService) PreviewDraft(ctx context.Context, enquiryID string) (*models.DraftQuote, error) {
	enq, err := s.Get(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	tree, err := s.tree(ctx, enq)
	if err != nil {
		return nil, err
	}
	complete, err := engine.IsComplete(tree, enq.Answers)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, ErrNotComplete
	}
	return s.compose(ctx, enq, tree)
}

// SubmitQuote turns a complete enquiry's draft into a persisted quote
// awaiting admin review.
func (s *DefaultEnquiryService) SubmitQuote(ctx context.Context, enquiryID, actor string) (*models.Quote, error) {
	draft, err := s.PreviewDraft(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	return s.Quotes.CreateFromDraft(ctx, enquiryID, actor, draft)
}

func (s *DefaultEnquiryService) Get(ctx context.Context, enquiryID string) (*models.Enquiry, error) {
	enq, err := s.EnquiryRepo.GetByID(ctx, enquiryID)
	if errors.Is(err, enquiryRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return enq, err
}

func (s *DefaultEnquiryService) ListByCustomer(ctx context.Context, customerID string) ([]models.Enquiry, error) {
	return s.EnquiryRepo.ListByCustomer(ctx, customerID)
}

// Messages returns the conversation transcript, oldest first.
func (s *DefaultEnquiryService) Messages(ctx context.Context, enquiryID string) ([]models.EnquiryMessage, error) {
	if _, err := s.Get(ctx, enquiryID); err != nil {
		return nil, err
	}
	return s.EnquiryRepo.Messages(ctx, enquiryID)
}

func (s *DefaultEnquiryService) classify(ctx context.Context, message string) (*models.DecisionTree, error) {
	trees, err := s.TreeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list service trees: %w", err)
	}
	return s.Classifier.Match(ctx, message, trees)
}

func (s *DefaultEnquiryService) tree(ctx context.Context, enq *models.Enquiry) (*models.DecisionTree, error) {
	tree, err := s.TreeRepo.GetByID(ctx, enq.ServiceTreeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service tree %s: %w", enq.ServiceTreeID, err)
	}
	return tree, nil
}

// store writes an answer snapshot and asks whatever comes next.
func (s *DefaultEnquiryService) store(ctx context.Context, enq *models.Enquiry, tree *models.DecisionTree, questionID string, answer models.Answer) (*models.EnquiryReply, error) {
	enq.Answers = enq.Answers.With(questionID, answer)
	enq.UpdatedAt = time.Now()
	if err := s.EnquiryRepo.Update(ctx, enq); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}
	return s.ask(ctx, enq, tree)
}

// ask replies with the next unanswered question, or finishes the enquiry
// when there is none.
func (s *DefaultEnquiryService) ask(ctx context.Context, enq *models.Enquiry, tree *models.DecisionTree) (*models.EnquiryReply, error) {
	next, err := engine.NextQuestion(tree, enq.Answers)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return s.finish(ctx, enq, tree)
	}

	prompt := next.Prompt
	if prior, ok := enq.Answers.Get(next.ID); ok && prior.Prefilled && !prior.Confirmed {
		prompt = fmt.Sprintf("You mentioned %v earlier. Is that right? (%s)", prior.Value, next.Prompt)
	}
	s.record(ctx, enq.ID, "assistant", prompt)
	return &models.EnquiryReply{EnquiryID: enq.ID, Message: prompt, Question: next}, nil
}

// finish marks the enquiry draft-ready and returns the composed draft.
func (s *DefaultEnquiryService) finish(ctx context.Context, enq *models.Enquiry, tree *models.DecisionTree) (*models.EnquiryReply, error) {
	draft, err := s.compose(ctx, enq, tree)
	if err != nil {
		return nil, err
	}

	if enq.Status == models.EnquiryStatusCollectingInfo {
		enq.Status = models.EnquiryStatusDraftReady
		enq.UpdatedAt = time.Now()
		if err := s.EnquiryRepo.Update(ctx, enq); err != nil {
			return nil, fmt.Errorf("failed to mark enquiry draft-ready: %w", err)
		}
	}

	msg := "Thanks, that's everything I need. Here is your draft quote."
	if !draft.CanSubmit {
		msg = "Thanks. I've prepared a draft, but some details still need attention before it can be submitted."
	}
	s.record(ctx, enq.ID, "assistant", msg)
	return &models.EnquiryReply{EnquiryID: enq.ID, Message: msg, Draft: draft, Complete: true}, nil
}

func (s *DefaultEnquiryService) compose(ctx context.Context, enq *models.Enquiry, tree *models.DecisionTree) (*models.DraftQuote, error) {
	rules, err := s.RuleRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list business rules: %w", err)
	}
	eval, err := s.Evaluator.Evaluate(rules, tree.ServiceName, enq.Answers)
	if err != nil {
		return nil, err
	}
	draft := s.Composer.Compose(ctx, engine.ComposeInput{
		Tree:       tree,
		Answers:    enq.Answers,
		Evaluation: eval,
		Rules:      rules,
		Region:     s.Region,
	})
	return &draft, nil
}

// record appends a conversation message; persistence failures are logged,
// the conversation itself is not blocked on the transcript.
func (s *DefaultEnquiryService) record(ctx context.Context, enquiryID, role, content string) {
	msg := &models.EnquiryMessage{
		ID:        uuid.New().String(),
		EnquiryID: enquiryID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.EnquiryRepo.AppendMessage(ctx, msg); err != nil {
		utils.GetLogger().Warn("failed to record enquiry message",
			zap.String("enquiryId", enquiryID), zap.Error(err))
	}
}
