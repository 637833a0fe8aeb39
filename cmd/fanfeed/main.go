// Command fanfeed is a terminal client for the FanFeed content API: it
// restores the persisted session, loads the first page of the selected
// feed, and prints it. An optional URL argument is resolved as a deep
// link before printing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fanfeed/internal/api"
	"fanfeed/internal/config"
	"fanfeed/internal/feed"
	"fanfeed/internal/format"
	"fanfeed/internal/models"
	"fanfeed/internal/observability"
	"fanfeed/internal/session"
	"fanfeed/internal/storage"
)

func main() {
	pagesFlag := flag.Int("pages", 1, "number of feed pages to load")
	flag.Parse()

	// Load .env if present; real env vars still win.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.SetLevel(cfg.LogLevel)
	logger := observability.Component("main")

	store := storage.New(cfg.RedisURL)
	sess := session.New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sess.Restore(ctx); err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			log.Fatalf("Failed to restore session: %v", err)
		}
		if cfg.AuthToken == "" {
			log.Fatal("No persisted session and AUTH_TOKEN is not set")
		}
		if err := sess.SetToken(ctx, cfg.AuthToken); err != nil {
			log.Fatalf("Failed to store auth token: %v", err)
		}
	}
	logger.Info("session ready", "user_id", sess.User().ID, "subscribed", sess.Subscribed())

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout(), sess.Token)

	// Refresh the cached profiles; token claims alone are thin.
	if user, err := client.GetProfile(ctx); err != nil {
		logger.Warn("profile refresh failed", "error", err)
	} else if err := sess.SaveProfile(ctx, user); err != nil {
		logger.Warn("profile cache write failed", "error", err)
	}
	if creator, err := client.GetCreatorProfile(ctx); err != nil {
		logger.Debug("creator profile unavailable", "error", err)
	} else if err := sess.SaveCreatorProfile(ctx, creator); err != nil {
		logger.Warn("creator profile cache write failed", "error", err)
	}

	state := feed.NewState(feed.Options{
		API:               client,
		Viewer:            sess,
		Variant:           models.FeedVariant(cfg.FeedVariant),
		PageSize:          cfg.PageSize,
		DeepLinkFetchSize: cfg.DeepLinkFetchSize,
		SettleDelay:       cfg.DrawerSettleDelay(),
		OnAuthError: func() {
			logger.Warn("authentication rejected, clearing session")
			if err := sess.Logout(context.Background()); err != nil {
				logger.Error("logout failed", "error", err)
			}
		},
	})
	sess.OnTeardown(state.Teardown)

	// Graceful shutdown on Ctrl-C: release players and observers.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutting down")
		state.Teardown()
		cancel()
		os.Exit(0)
	}()

	if raw := flag.Arg(0); raw != "" {
		if err := state.ResolveDeepLink(ctx, raw); err != nil {
			logger.Error("deep link resolution failed", "url", raw, "error", err)
		}
	}

	for i := 0; i < *pagesFlag && state.HasMore(); i++ {
		if err := state.LoadNextPage(ctx); err != nil {
			log.Fatalf("Failed to load feed: %v", err)
		}
	}

	printFeed(state.Posts())
	state.Teardown()
}

func printFeed(posts []*models.Post) {
	if len(posts) == 0 {
		fmt.Println("Feed is empty.")
		return
	}
	for _, p := range posts {
		marker := " "
		if p.Pinned {
			marker = "*"
		}
		fmt.Printf("%s #%-6d %-5s  %s likes  %s comments  %s  %s\n",
			marker, p.ID, p.Type,
			format.CompactCount(p.LikesCount),
			format.CommentCountDisplay(p.CommentsCount),
			p.TimeAgo, p.Description)
	}
}
