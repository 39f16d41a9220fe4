package jobs

import (
	"Backend-VentSurvey/src/database"
	"log"

	"github.com/hibiken/asynq"
)

// StartWorker รัน asynq worker สำหรับงาน background (render PDF)
// ถ้าไม่มี Redis จะไม่รัน — endpoint render จะ fallback ไปทำ inline แทน
func StartWorker() {
	if database.RedisURI == "" {
		log.Println("⚠️ Redis not available. Background worker will not start.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRenderQuote, HandleRenderQuoteTask)

	log.Println("✅ Background worker started")
	if err := srv.Run(mux); err != nil {
		log.Println("❌ Worker stopped:", err)
	}
}
