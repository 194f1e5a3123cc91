//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"portfolio-data/internal/app"
	"portfolio-data/internal/provider"
	"portfolio-data/internal/provider/yahoo"
)

// InitializeApp builds App (Config + provider + store + saver) via Wire.
// Caller must close a.DP and a.Store when done.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideQuoteProvider,
		app.ProvideStore,
		app.ProvideRowSaver,
		wire.Bind(new(provider.QuoteProvider), new(*yahoo.Client)),
		wire.Struct(new(App), "Config", "DP", "Store", "Saver"),
	)
	return nil, nil
}
