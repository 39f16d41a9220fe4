package jobs

import (
	"Backend-VentSurvey/src/services/quotes"
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleRenderQuoteTask render PDF ของใบเสนอราคาใน background
func HandleRenderQuoteTask(ctx context.Context, t *asynq.Task) error {
	log.Println("🎯 Start render quote task")

	var payload QuotePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ Payload decode error:", err)
		return err
	}

	quoteID, err := primitive.ObjectIDFromHex(payload.QuoteID)
	if err != nil {
		log.Println("❌ Invalid quote id in payload:", payload.QuoteID)
		return err
	}

	quote, err := quotes.Default().Render(ctx, quoteID)
	if err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			// ✅ quote โดนลบไปแล้ว — ข้าม ไม่ถือว่า error
			log.Println("⚠️ Quote not found. Possibly deleted. Skipping task:", payload.QuoteID)
			return nil
		}
		log.Println("❌ Failed to render quote:", err)
		return err
	}

	log.Println("✅ Quote rendered:", quote.ID.Hex(), quote.PDFURL)
	return nil
}
