//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faq-intents/internal/bootstrap"
	"github.com/yanqian/faq-intents/internal/domain/intent"
	"github.com/yanqian/faq-intents/internal/domain/lexicon"
	"github.com/yanqian/faq-intents/internal/infra/config"
	"github.com/yanqian/faq-intents/internal/infra/rasa"
	httpiface "github.com/yanqian/faq-intents/internal/interface/http"
	"github.com/yanqian/faq-intents/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideIntentConfig,
		provideLexicon,
		provideRasaExporter,
		provideRepository,
		provideStore,
		provideArtifactStorage,
		intent.NewEngine,
		intent.NewService,
		wire.Bind(new(intent.Vocabulary), new(*lexicon.Lexicon)),
		wire.Bind(new(intent.BundleBuilder), new(*rasa.Exporter)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
