// Package credentials keeps provider API keys in the database so operators
// can rotate them without redeploying. Environment variables still win.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"samakicash/internal/infra"
	"samakicash/internal/sqlinline"
)

const (
	ProviderPricing = "mistral"
	ProviderMarket  = "aiml"
	ProviderVision  = "nebius"
	ProviderSpeech  = "elevenlabs"
)

// Providers lists every provider name the store accepts.
var Providers = []string{ProviderPricing, ProviderMarket, ProviderVision, ProviderSpeech}

type Store struct {
	sql *infra.SQLRunner
}

func NewStore(sql *infra.SQLRunner) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QSelectProviderCredential, provider)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", rows.Err()
	}
	var token string
	if err := rows.Scan(&token); err != nil {
		return "", err
	}
	return strings.TrimSpace(token), rows.Err()
}

// Set stores key for provider, replacing any previous key.
func (s *Store) Set(ctx context.Context, provider, key string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	key = strings.TrimSpace(key)
	if !known(provider) {
		return fmt.Errorf("unknown provider %q (want one of %s)", provider, strings.Join(Providers, ", "))
	}
	if key == "" {
		return errors.New("api key is required")
	}
	_, err := s.sql.Exec(ctx, sqlinline.QUpsertProviderCredential, provider, key)
	return err
}

// Fill copies stored keys into cfg for providers whose key is empty.
// Lookup failures are logged and leave the key empty.
func (s *Store) Fill(ctx context.Context, cfg *infra.Config, logger *infra.Logger) {
	targets := map[string]*infra.ProviderConfig{
		ProviderPricing: &cfg.Pricing,
		ProviderMarket:  &cfg.Market,
		ProviderVision:  &cfg.Vision,
		ProviderSpeech:  &cfg.Speech,
	}
	for _, provider := range Providers {
		pc := targets[provider]
		if strings.TrimSpace(pc.APIKey) != "" {
			continue
		}
		key, err := s.Token(ctx, provider)
		if err != nil {
			logger.Warn().Err(err).Str("provider", provider).Msg("failed to load api key from store")
			continue
		}
		if key != "" {
			pc.APIKey = key
			logger.Info().Str("provider", provider).Msg("api key loaded from store")
		}
	}
}

func known(provider string) bool {
	for _, p := range Providers {
		if p == provider {
			return true
		}
	}
	return false
}
