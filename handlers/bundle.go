package handlers

import (
	chunkRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/chunk"
	ruleRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/rule"
	treeRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/tree"
	userRepoPkg "github.com/jabezgenics-alt/ezzo-sales/database/repository/user"
	"github.com/jabezgenics-alt/ezzo-sales/services/engine"
	"github.com/jabezgenics-alt/ezzo-sales/services/enquiry"
	"github.com/jabezgenics-alt/ezzo-sales/services/quote"
)

// HandlerBundle groups all endpoint handlers and the services they depend
// on.
type HandlerBundle struct {
	UserRepo  userRepoPkg.UserRepository
	TreeRepo  treeRepoPkg.TreeRepository
	RuleRepo  ruleRepoPkg.RuleRepository
	ChunkRepo chunkRepoPkg.ChunkRepository

	Enquiries enquiry.EnquiryService
	Quotes    quote.QuoteService
	Evaluator *engine.Evaluator
}
