package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/adapters/events"
	"github.com/vtorprice/exchange-api/internal/adapters/httpapi"
	sqliteadapter "github.com/vtorprice/exchange-api/internal/adapters/sqlite"
	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/usecase"
	"github.com/vtorprice/exchange-api/migrations"
)

type Config struct {
	Addr          string
	DBPath        string
	JWTSecret     string
	WebhookURL    string
	WebhookSecret string
}

// NewServer wires the full stack: sqlite storage, the event bus with its
// audit recorder, and the HTTP surface. The returned closer owns the
// database handles.
func NewServer(ctx context.Context, cfg Config, log zerolog.Logger) (*http.Server, io.Closer, error) {
	if cfg.JWTSecret == "" {
		return nil, nil, fmt.Errorf("jwt secret is required")
	}

	db, err := gormdb.Open(cfg.DBPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	companies := sqliteadapter.NewCompanyRepository(db)
	verifications := sqliteadapter.NewVerificationRepository(db)
	applications := sqliteadapter.NewApplicationRepository(db)
	materials := sqliteadapter.NewRecyclablesRepository(db)
	profile := sqliteadapter.NewCompanyRecyclablesRepository(db)
	prices := sqliteadapter.NewPriceMarkRepository(db)
	deals := sqliteadapter.NewDealRepository(db)
	users := sqliteadapter.NewUserRepository(db)
	actions := sqliteadapter.NewActionRecordRepository(db)
	cities := sqliteadapter.NewCityRepository(db)

	sinks := []usecase.Handler{
		usecase.NewRecorder(actions),
		events.NewLogSink(log),
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, events.NewWebhookSink(cfg.WebhookURL, cfg.WebhookSecret, 0))
	}
	bus := usecase.NewBus(log, sinks...)
	diff := usecase.NewDiff(log)

	handler := httpapi.NewHandler(
		usecase.NewAuthService(users, bus, []byte(cfg.JWTSecret), log),
		usecase.NewCompanyService(companies, verifications, bus, diff, log),
		usecase.NewApplicationService(companies, applications, materials, bus, diff, log),
		usecase.NewDealService(deals, applications, companies, bus, diff, log),
		usecase.NewCompanyRecyclablesService(companies, applications, materials, profile, prices, bus, diff, log),
		usecase.NewCatalogService(materials, cities),
		usecase.NewAuditService(actions),
		log,
	)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, db, nil
}
