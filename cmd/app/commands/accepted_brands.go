package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/allisson/cardtoken/internal/card/http/dto"
	"github.com/allisson/cardtoken/internal/card/usecase"
)

// RunAcceptedBrands prints the card brands the account, or tenantID, accepts.
func RunAcceptedBrands(
	ctx context.Context,
	tokenizationUseCase usecase.TokenizationUseCase,
	tenantID string,
	format string,
	writer io.Writer,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	brands, err := tokenizationUseCase.AcceptedBrands(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to get accepted brands: %w", err)
	}

	response := dto.MapBrandsToResponse(brands)
	if format == "json" {
		return writeJSON(writer, response)
	}
	if len(response.Brands) == 0 {
		_, _ = fmt.Fprintln(writer, "No accepted brands")
		return nil
	}
	_, _ = fmt.Fprintf(writer, "Accepted brands: %s\n", strings.Join(response.Brands, ", "))
	return nil
}
