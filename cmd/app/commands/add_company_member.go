package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tenantUsecase "github.com/allisson/webhooks/internal/tenant/usecase"
)

// RunAddCompanyMember records that a user belongs to a company, so events the user emits
// reach the company's subscriptions.
func RunAddCompanyMember(
	ctx context.Context,
	membershipUseCase tenantUsecase.MembershipUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userID string,
	companyID string,
	format string,
) error {
	membership, err := membershipUseCase.AddMember(ctx, userID, companyID)
	if err != nil {
		return fmt.Errorf("failed to add company member: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"user_id":    membership.UserID,
			"company_id": membership.CompanyID,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "User %s added to company %s\n", membership.UserID, membership.CompanyID)
	}

	logger.Info("company member added",
		slog.String("user_id", membership.UserID),
		slog.String("company_id", membership.CompanyID),
	)
	return nil
}
