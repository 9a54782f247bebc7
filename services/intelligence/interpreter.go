package intelligence

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/services/engine"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"go.uber.org/zap"
)

// ReplyInterpreter converts raw customer replies into typed answer values.
// Deterministic parsing runs first; the Gemini generator is consulted only
// for replies the rules cannot handle, and only when configured. An
// unparseable reply is ParsedValue{Valid: false}, never an error: the caller
// re-asks the question.
type ReplyInterpreter struct {
	Generator TextGenerator
}

var leadingNumber = regexp.MustCompile(`(-?\d+(?:\.\d+)?)`)

func (in *ReplyInterpreter) Parse(ctx context.Context, raw string, qtype models.QuestionType, choices []string) (engine.ParsedValue, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return engine.ParsedValue{}, nil
	}

	switch qtype {
	case models.QuestionNumber:
		return in.parseNumber(ctx, trimmed), nil
	case models.QuestionBoolean:
		return parseBoolean(trimmed), nil
	case models.QuestionChoice:
		return in.parseChoice(ctx, trimmed, choices), nil
	default:
		return engine.ParsedValue{Value: trimmed, Valid: true}, nil
	}
}

func (in *ReplyInterpreter) parseNumber(ctx context.Context, raw string) engine.ParsedValue {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return engine.ParsedValue{Value: f, Valid: true}
	}
	// Accept unit-suffixed replies like "3.5m" or "about 20 metres".
	if m := leadingNumber.FindString(raw); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			return engine.ParsedValue{Value: f, Valid: true}
		}
	}
	if in.Generator != nil {
		reply, err := in.Generator.GenerateContent(ctx,
			"Extract the single numeric quantity from this reply as a plain number, or reply NONE: "+raw)
		if err != nil {
			utils.GetLogger().Warn("interpreter model call failed", zap.Error(err))
			return engine.ParsedValue{}
		}
		reply = strings.TrimSpace(reply)
		if f, err := strconv.ParseFloat(reply, 64); err == nil {
			return engine.ParsedValue{Value: f, Valid: true}
		}
	}
	return engine.ParsedValue{}
}

// parseBoolean keeps false distinct from unparseable: "no" is a valid false.
func parseBoolean(raw string) engine.ParsedValue {
	switch strings.ToLower(raw) {
	case "yes", "y", "true", "yeah", "yep", "sure", "ok", "correct":
		return engine.ParsedValue{Value: true, Valid: true}
	case "no", "n", "false", "nope", "nah":
		return engine.ParsedValue{Value: false, Valid: true}
	}
	return engine.ParsedValue{}
}

func (in *ReplyInterpreter) parseChoice(ctx context.Context, raw string, choices []string) engine.ParsedValue {
	lowered := strings.ToLower(raw)
	for _, choice := range choices {
		if strings.EqualFold(raw, choice) {
			return engine.ParsedValue{Value: choice, Valid: true}
		}
	}
	for _, choice := range choices {
		c := strings.ToLower(choice)
		if strings.Contains(lowered, c) || strings.Contains(c, lowered) {
			return engine.ParsedValue{Value: choice, Valid: true}
		}
	}
	if in.Generator != nil && len(choices) > 0 {
		reply, err := in.Generator.GenerateContent(ctx,
			"Pick the option the reply refers to, answering with the exact option text or NONE.\nOptions: "+
				strings.Join(choices, ", ")+"\nReply: "+raw)
		if err != nil {
			utils.GetLogger().Warn("interpreter model call failed", zap.Error(err))
			return engine.ParsedValue{}
		}
		reply = strings.TrimSpace(reply)
		for _, choice := range choices {
			if strings.EqualFold(reply, choice) {
				return engine.ParsedValue{Value: choice, Valid: true}
			}
		}
	}
	return engine.ParsedValue{}
}
