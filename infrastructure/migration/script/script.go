package main

import (
	"context"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/vfg2006/attribution-api/infrastructure/database/postgres"
	"github.com/vfg2006/attribution-api/infrastructure/repository"
	"github.com/vfg2006/attribution-api/internal/config"
	"github.com/vfg2006/attribution-api/internal/domain"
	"github.com/vfg2006/attribution-api/internal/usecases/authenticating"
	"github.com/vfg2006/attribution-api/pkg/middleware"
	"github.com/vfg2006/attribution-api/pkg/utils"
)

const (
	demoUserID       = "demo-user"
	demoJourneyCount = 250
	seedBatchSize    = 50
)

var demoChannels = []string{"google", "meta", "tiktok", "email", "organic", ""}

var statements = []struct {
	name  string
	query string
}{
	{
		name: "tabela journeys",
		query: `CREATE TABLE IF NOT EXISTS journeys (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT NOT NULL,
			customer_id         TEXT NOT NULL,
			order_id            TEXT NOT NULL,
			order_value         DOUBLE PRECISION NOT NULL DEFAULT 0,
			touchpoints         JSONB NOT NULL DEFAULT '[]'::jsonb,
			first_touch_channel TEXT,
			last_touch_channel  TEXT,
			purchase_timestamp  TIMESTAMPTZ NOT NULL,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT journeys_user_order_key UNIQUE (user_id, order_id)
		)`,
	},
	{
		name:  "índice journeys(user_id, purchase_timestamp)",
		query: `CREATE INDEX IF NOT EXISTS journeys_user_purchase_idx ON journeys (user_id, purchase_timestamp)`,
	},
	{
		name: "tabela attribution_results",
		query: `CREATE TABLE IF NOT EXISTS attribution_results (
			id              BIGSERIAL PRIMARY KEY,
			user_id         TEXT NOT NULL,
			model_type      TEXT NOT NULL,
			time_range      TEXT NOT NULL,
			total_revenue   DOUBLE PRECISION NOT NULL,
			channel_results JSONB NOT NULL DEFAULT '[]'::jsonb,
			calculated_at   TIMESTAMPTZ NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT attribution_results_key UNIQUE (user_id, model_type, time_range)
		)`,
	},
}

func setupLogger() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de migração...")
}

func createTables(ctx context.Context, conn *postgres.Connection) {
	for _, stmt := range statements {
		startTime := time.Now()
		if _, err := conn.Exec(ctx, stmt.query); err != nil {
			log.Fatalf("ERRO ao criar %s: %v", stmt.name, err)
		}
		log.Printf("%s pronta em %v", stmt.name, time.Since(startTime))
	}
}

// demoJourneys gera jornadas espalhadas pelos últimos 90 dias, incluindo jornadas sem touchpoints
// e touchpoints sem canal
func demoJourneys(now time.Time) ([]*domain.Journey, error) {
	journeys := make([]*domain.Journey, 0, demoJourneyCount)

	for i := 0; i < demoJourneyCount; i++ {
		purchase := now.Add(-time.Duration(rand.IntN(90*24)) * time.Hour)

		touchpointCount := rand.IntN(5)
		touchpoints := make([]domain.Touchpoint, 0, touchpointCount)
		for j := 0; j < touchpointCount; j++ {
			touchpoints = append(touchpoints, domain.Touchpoint{
				Channel:   demoChannels[rand.IntN(len(demoChannels))],
				Timestamp: purchase.Add(-time.Duration(touchpointCount-j) * 6 * time.Hour),
			})
		}

		id, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}

		journey := &domain.Journey{
			ID:                id,
			UserID:            demoUserID,
			CustomerID:        "customer-" + strconv.Itoa(rand.IntN(80)),
			OrderID:           "order-" + strconv.Itoa(i),
			OrderValue:        float64(20+rand.IntN(480)) + float64(rand.IntN(100))/100,
			Touchpoints:       touchpoints,
			PurchaseTimestamp: purchase,
		}

		if touchpointCount > 0 {
			first, last := journey.FirstChannel(), journey.LastChannel()
			journey.FirstTouchChannel = &first
			journey.LastTouchChannel = &last
		}

		journeys = append(journeys, journey)
	}

	return journeys, nil
}

func seedDemo(ctx context.Context, cfg *config.Config, conn *postgres.Connection) {
	log.Printf("Iniciando seed de %d jornadas para %s...", demoJourneyCount, demoUserID)
	startTime := time.Now()

	journeyRepo := repository.NewJourneyRepository(conn)
	journeys, err := demoJourneys(time.Now())
	if err != nil {
		log.Printf("ERRO ao gerar jornadas de demonstração: %v", err)
		return
	}

	successCount := 0
	errorCount := 0
	for start := 0; start < len(journeys); start += seedBatchSize {
		end := min(start+seedBatchSize, len(journeys))
		if err := journeyRepo.SaveJourneys(ctx, journeys[start:end]); err != nil {
			log.Printf("ERRO ao inserir lote [%d:%d]: %v", start, end, err)
			errorCount += end - start
			continue
		}
		successCount += end - start
	}

	log.Printf("Seed concluído em %v. Sucesso: %d, Erros: %d", time.Since(startTime), successCount, errorCount)

	token, err := authenticating.NewService(cfg).GenerateToken(demoUserID, middleware.RoleAdmin, 24*time.Hour)
	if err != nil {
		log.Printf("AVISO: não foi possível gerar token de demonstração: %v", err)
		return
	}
	log.Printf("Token de demonstração (24h, admin): %s", token)
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("ERRO ao conectar ao banco: %v", err)
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		log.Fatalf("ERRO ao testar conexão: %v", err)
	}

	createTables(ctx, conn)

	if os.Getenv("SEED_DEMO") == "true" {
		seedDemo(ctx, cfg, conn)
	}

	log.Println("Migração concluída")
}
