package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	inboundUsecase "github.com/allisson/webhooks/internal/inbound/usecase"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// RunCreateInboundWebhook registers an inbound webhook on behalf of a user and prints
// its endpoint and API key. The key is shown only once.
//
// Requirements: Database must be migrated and accessible.
func RunCreateInboundWebhook(
	ctx context.Context,
	registrationUseCase inboundUsecase.RegistrationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	principal tenantDomain.Principal,
	capability string,
	description string,
	format string,
) error {
	logger.Info("creating inbound webhook",
		slog.String("user_id", principal.UserID),
		slog.String("capability", capability),
	)

	created, err := registrationUseCase.Create(ctx, principal, &inboundDomain.CreateRegistrationInput{
		Capability:  capability,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to create inbound webhook: %w", err)
	}

	registration := created.Registration
	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"id":         registration.ID.String(),
			"url":        registration.URL(),
			"capability": registration.Capability,
			"api_key":    created.APIKey,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "Inbound webhook created successfully!")
		_, _ = fmt.Fprintf(writer, "ID:         %s\n", registration.ID)
		_, _ = fmt.Fprintf(writer, "URL:        %s\n", registration.URL())
		_, _ = fmt.Fprintf(writer, "Capability: %s\n", registration.Capability)
		_, _ = fmt.Fprintf(writer, "API key:    %s\n", created.APIKey)
		_, _ = fmt.Fprintln(writer, "\nWARNING: Save the API key securely. It will not be shown again.")
	}

	logger.Info("inbound webhook created", slog.String("inbound_webhook_id", registration.ID.String()))
	return nil
}
