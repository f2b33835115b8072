// cmd/demo wires the client core together and runs a small scenario against
// the configured backend: restore, login, list the catalog with remaining
// seats, and show how guards and notifications behave. It doubles as the
// reference for how a host application should construct the core.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/eventsphere/client-core/internal/api"
	"github.com/eventsphere/client-core/internal/auth"
	"github.com/eventsphere/client-core/internal/config"
	"github.com/eventsphere/client-core/internal/events"
	"github.com/eventsphere/client-core/internal/model"
	"github.com/eventsphere/client-core/internal/notify"
	"github.com/eventsphere/client-core/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	// Session storage: SQLite file when configured, memory otherwise.
	var store storage.KeyValueStore
	if cfg.SessionDBPath != "" {
		db, err := storage.OpenSQLite(cfg.SessionDBPath)
		if err != nil {
			logger.Error("open session db", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	} else {
		store = storage.NewMemory()
	}

	// One explicitly constructed instance per component, passed by reference.
	tokens := auth.NewTokenFromStore(store)
	resource := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, tokens)
	sessions := auth.NewSessionStore(store, resource, logger)
	notifications := notify.NewCenter()
	defer notifications.Close()
	catalog := events.NewCatalog(resource)
	accessGuard := auth.NewAccessGuard(sessions)

	cancelNotify := notifications.Subscribe(func(n *model.Notification) {
		if n != nil {
			logger.Info("notification", "type", n.Type, "message", n.Message)
		}
	})
	defer cancelNotify()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if userID, ok := sessions.CurrentUserID(); ok {
		logger.Info("session restored", "userId", userID)
	} else {
		user, err := sessions.Login(ctx, "user@example.com", "user123")
		if err != nil {
			notifications.ShowError("Could not reach the backend.")
			logger.Error("login", "error", err)
			os.Exit(1)
		}
		if user == nil {
			notifications.ShowError("Invalid credentials.")
			os.Exit(1)
		}
		notifications.ShowSuccess("Welcome back, " + user.FirstName + "!")
	}

	if d := accessGuard.CanActivate(); !d.Allowed {
		logger.Error("catalog route denied", "redirect", d.Redirect)
		os.Exit(1)
	}

	evs, err := catalog.All(ctx)
	if err != nil {
		notifications.ShowError("Could not load events.")
		logger.Error("list events", "error", err)
		os.Exit(1)
	}

	seats, err := catalog.RemainingSeatsByEvent(ctx, evs)
	if err != nil {
		notifications.ShowError("Could not load registrations.")
		logger.Error("aggregate seats", "error", err)
		os.Exit(1)
	}

	for _, ev := range evs {
		logger.Info("event",
			"id", ev.ID,
			"title", ev.Title,
			"capacity", ev.Capacity,
			"remaining", seats[ev.ID],
		)
	}
}
