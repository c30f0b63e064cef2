package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/creditline/internal/adapter/messaging/kafka"
	"github.com/iho/creditline/internal/infrastructure/auth"
	"github.com/iho/creditline/internal/infrastructure/config"
	"github.com/iho/creditline/internal/infrastructure/eventpublisher"
)

func TestEngineConfig(t *testing.T) {
	cfg := &config.Config{
		DailyInterestRate:   decimal.RequireFromString("0.0005"),
		SettleExactInterest: false,
	}

	got := engineConfig(cfg)
	if !got.DailyRate.Equal(decimal.RequireFromString("0.0005")) || got.SettleExactInterest {
		t.Fatalf("unexpected engine config %+v", got)
	}
}

func TestNewPublisher(t *testing.T) {
	pub, err := newPublisher(&config.Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pub.(*eventpublisher.LogPublisher); !ok {
		t.Fatalf("expected log publisher without brokers, got %T", pub)
	}

	pub, err = newPublisher(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "creditline.events"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer pub.Close()
	if _, ok := pub.(*kafka.Publisher); !ok {
		t.Fatalf("expected kafka publisher with brokers, got %T", pub)
	}

	if _, err := newPublisher(&config.Config{KafkaBrokers: []string{"localhost:9092"}}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing topic")
	}
}

func TestNewTokenVerifier(t *testing.T) {
	verifier, err := newTokenVerifier(&config.Config{})
	if err != nil || verifier != nil {
		t.Fatalf("expected auth disabled, got %v, %v", verifier, err)
	}

	if _, err := newTokenVerifier(&config.Config{AuthEnabled: true}); err == nil {
		t.Fatal("expected error without secret")
	}

	verifier, err = newTokenVerifier(&config.Config{AuthEnabled: true, JWTSecret: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := verifier.(*auth.JWTManager); !ok {
		t.Fatalf("expected JWT manager, got %T", verifier)
	}
}
