package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/creditline/internal/adapter/http/dto"
	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/infrastructure/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}

			manager := auth.NewJWTManager(secret, ttl)
			token, err := manager.Generate(domain.Principal{Subject: subject, Role: domain.Role(role)})
			if err != nil {
				return err
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(dto.TokenResponse{
				Token:     token,
				ExpiresAt: time.Now().Add(ttl).UTC().Truncate(time.Second),
			})
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&subject, "subject", "", "Who the token is issued to")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleOperator), "Role (operator, viewer)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
