package commands

import (
	"fmt"
	"io"

	"github.com/allisson/cardtoken/internal/card/http/dto"
	"github.com/allisson/cardtoken/internal/threeds"
)

// RunTDSURL prints the challenge start and finish URLs of a 3-D Secure token.
func RunTDSURL(tdsTokenID string, cfg threeds.URLConfig, format string, writer io.Writer) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if tdsTokenID == "" {
		return fmt.Errorf("3-D Secure token id is required")
	}

	token := threeds.Token{ID: tdsTokenID}
	startURL, err := token.StartURL(cfg)
	if err != nil {
		return fmt.Errorf("failed to build start url: %w", err)
	}
	finishURL, err := token.FinishURL(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to build finish url: %w", err)
	}

	response := dto.ThreeDSecureResponse{
		ThreeDSecureToken: tdsTokenID,
		StartURL:          startURL,
		FinishURL:         finishURL,
	}
	if format == "json" {
		return writeJSON(writer, response)
	}
	_, _ = fmt.Fprintf(writer, "Start URL: %s\n", startURL)
	_, _ = fmt.Fprintf(writer, "Finish URL: %s\n", finishURL)
	return nil
}
