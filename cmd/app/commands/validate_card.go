package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/allisson/cardtoken/internal/card/http/dto"
	"github.com/allisson/cardtoken/internal/card/service"
	"github.com/allisson/cardtoken/internal/card/usecase"
)

// RunValidateCard validates a card form locally and prints the per-field result.
// It never contacts the gateway, so accepted brands are not enforced.
func RunValidateCard(
	input usecase.FormInput,
	vc usecase.ValidationContext,
	normalizer service.PhoneNumberNormalizer,
	format string,
	writer io.Writer,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	state := usecase.ValidateForm(input, vc, normalizer)
	response := dto.MapFormStateToResponse(state)

	if format == "json" {
		return writeJSON(writer, response)
	}
	outputFormStateText(response, writer)
	return nil
}

// outputFormStateText outputs the validation result in human-readable text format.
func outputFormStateText(response dto.FormStateResponse, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Brand: %s\n", response.Brand)
	if response.FormattedNumber != "" {
		_, _ = fmt.Fprintf(writer, "Number: %s\n", response.FormattedNumber)
	}
	if response.Submittable {
		_, _ = fmt.Fprintln(writer, "Card is valid and ready to tokenize")
		return
	}

	_, _ = fmt.Fprintln(writer, "Card is not valid:")
	fields := make([]string, 0, len(response.Errors))
	for field := range response.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fieldErr := response.Errors[field]
		hint := "incomplete"
		if fieldErr.Actionable {
			hint = "invalid"
		}
		_, _ = fmt.Fprintf(writer, "  %s: %s (%s)\n", field, fieldErr.Kind, hint)
	}
}
