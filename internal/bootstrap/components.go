package bootstrap

import (
	"github.com/yanqian/faq-intents/internal/domain/intent"
	"github.com/yanqian/faq-intents/internal/domain/lexicon"
	"github.com/yanqian/faq-intents/internal/infra/config"
	"github.com/yanqian/faq-intents/internal/infra/rasa"
)

// IntentConfig translates the intent section into engine knobs.
func IntentConfig(cfg *config.Config) (intent.Config, error) {
	mode, err := intent.ParseMode(cfg.Intent.Mode)
	if err != nil {
		return intent.Config{}, err
	}
	return intent.Config{
		Bounds: intent.Bounds{
			MinN:        cfg.Intent.MinN,
			InitialMaxN: cfg.Intent.InitialMaxN,
			WideMaxN:    cfg.Intent.WideMaxN,
		},
		Mode:      mode,
		MaxPasses: cfg.Intent.MaxPasses,
		CacheSize: cfg.Intent.CacheSize,
		RunTTL:    cfg.Intent.RunTTL,
	}, nil
}

// Lexicon builds the configured language resources.
func Lexicon(cfg *config.Config) (*lexicon.Lexicon, error) {
	return lexicon.Build(lexicon.Options{
		Language:    cfg.Lexicon.Language,
		Lemmatizer:  cfg.Lexicon.Lemmatizer,
		ExtraFiller: cfg.Lexicon.ExtraFiller,
		KeepWords:   cfg.Lexicon.KeepWords,
	})
}

// Engine assembles the derivation engine from configuration.
func Engine(cfg *config.Config) (*intent.Engine, intent.Config, error) {
	intentCfg, err := IntentConfig(cfg)
	if err != nil {
		return nil, intent.Config{}, err
	}
	lex, err := Lexicon(cfg)
	if err != nil {
		return nil, intent.Config{}, err
	}
	engine, err := intent.NewEngine(lex, intentCfg)
	if err != nil {
		return nil, intent.Config{}, err
	}
	return engine, intentCfg, nil
}

// RasaExporter builds the chatbot configuration exporter.
func RasaExporter(cfg *config.Config) *rasa.Exporter {
	return rasa.NewExporter(rasa.Config{
		Version:                  cfg.Rasa.Version,
		SessionExpirationMinutes: cfg.Rasa.SessionExpirationMinutes,
		CarryOverSlots:           cfg.Rasa.CarryOverSlots,
	})
}
