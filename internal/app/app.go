package app

import (
	"log"

	"github.com/PraiseKol/crossroads/internal/config"
	http_feed "github.com/PraiseKol/crossroads/internal/delivery/http/feed"
	http_init "github.com/PraiseKol/crossroads/internal/delivery/http/init"
	http_session "github.com/PraiseKol/crossroads/internal/delivery/http/session"
	http_vote "github.com/PraiseKol/crossroads/internal/delivery/http/vote"
	"github.com/PraiseKol/crossroads/internal/identity"
	infra_localstore "github.com/PraiseKol/crossroads/internal/infra/localstore"
	infra_platform_auth "github.com/PraiseKol/crossroads/internal/infra/platform/auth"
	infra_platform_realtime "github.com/PraiseKol/crossroads/internal/infra/platform/realtime"
	infra_platform_rest "github.com/PraiseKol/crossroads/internal/infra/platform/rest"
	storage_pairs "github.com/PraiseKol/crossroads/internal/storage/pairs"
	usecase_feed "github.com/PraiseKol/crossroads/internal/usecase/feed"
	usecase_reconcile "github.com/PraiseKol/crossroads/internal/usecase/reconcile"
	usecase_vote "github.com/PraiseKol/crossroads/internal/usecase/vote"
)

func Go(cfg *config.Config) {
	localStore, err := infra_localstore.New(cfg.LocalStore.Path)
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}

	authClient := infra_platform_auth.New(cfg.Platform.BaseURL, cfg.Platform.AnonKey, localStore)
	restClient := infra_platform_rest.New(cfg.Platform.BaseURL, cfg.Platform.AnonKey,
		infra_platform_rest.WithTokenSource(authClient))
	subscriber := infra_platform_realtime.New(cfg.Platform.RealtimeURL, cfg.Platform.AnonKey)

	pairStore := storage_pairs.New()
	resolver := identity.New(localStore, authClient)

	feedUC := usecase_feed.New(pairStore, restClient,
		usecase_feed.WithPageSize(cfg.Feed.PageSize))
	voteUC := usecase_vote.New(pairStore, restClient, resolver)
	reconciler := usecase_reconcile.New(pairStore, subscriber)
	defer reconciler.Stop()

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_feed.New(feedUC, voteUC, reconciler))
	controllerPool.Add(http_vote.New(voteUC, feedUC))
	controllerPool.Add(http_session.New(authClient))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
