package app

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/zhilovhub/EasyShop/internal/adapters/botapi"
	"github.com/zhilovhub/EasyShop/internal/adapters/httpserver"
	"github.com/zhilovhub/EasyShop/internal/adapters/repo/postgres"
	"github.com/zhilovhub/EasyShop/internal/adapters/session"
	"github.com/zhilovhub/EasyShop/internal/domain"
	"github.com/zhilovhub/EasyShop/internal/usecase"
)

type App struct {
	DB       *gorm.DB
	CartUC   *usecase.CartUC
	OrderUC  *usecase.OrderUC
	Catalog  domain.CatalogService
	Sessions *session.Store
	client   *botapi.Client
}

func NewApp(db *gorm.DB) (*App, error) {
	baseURL := os.Getenv("BOT_API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	botID := int64(0)
	if raw := os.Getenv("BOT_ID"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			botID = v
		}
	}
	authData := os.Getenv("BOT_API_AUTH_DATA")
	if authData == "" {
		authData = "DEBUG"
	}
	ttl := 30 * time.Minute
	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			ttl = time.Duration(v) * time.Minute
		}
	}

	client := botapi.New(baseURL, botID, authData)
	sessions := session.New(ttl)
	orderRepo := postgres.NewOrderRepo(db)

	app := &App{
		DB:       db,
		Catalog:  client,
		Sessions: sessions,
		client:   client,
	}
	app.CartUC = &usecase.CartUC{Catalog: client, Sessions: sessions}
	app.OrderUC = &usecase.OrderUC{Sessions: sessions, Gateway: client, Orders: orderRepo, BotID: botID}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CartUC, a.OrderUC, a.Catalog, a.client)
}

func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(&domain.Order{}, &domain.OrderItem{}); err != nil {
		return err
	}

	_ = a.DB.Exec("ALTER TABLE orders ADD COLUMN IF NOT EXISTS invoice_url VARCHAR(255)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_bot_id ON orders(bot_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_from_user ON orders(from_user)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)").Error

	return nil
}

// SweepSessions drops expired cart sessions on a fixed interval until the
// stop channel closes.
func (a *App) SweepSessions(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			a.Sessions.Sweep()
		case <-stop:
			return
		}
	}
}
