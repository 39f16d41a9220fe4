package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeRenderQuote = "quote:render"

type QuotePayload struct {
	QuoteID string `json:"quote_id"`
}

func NewRenderQuoteTask(quoteID string) (*asynq.Task, error) {
	payload, err := json.Marshal(QuotePayload{QuoteID: quoteID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRenderQuote, payload), nil
}
