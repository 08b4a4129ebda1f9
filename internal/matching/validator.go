package matching

import (
	"context"
	"fmt"
	"strings"
)

// Validator audits the bidirectional-match invariant for one prompt. Pure
// reporting: it performs no writes and never fails a record set, it only
// describes what is wrong with it.
type Validator struct {
	repo Repository
}

func NewValidator(repo Repository) *Validator {
	return &Validator{repo: repo}
}

// Validate loads every record for the prompt and flags malformed match
// entries and one-sided pairings. An empty record set is valid.
func (v *Validator) Validate(ctx context.Context, promptID string) (*ValidationReport, error) {
	records, err := v.repo.GetMatchesForPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}

	byNetid := make(map[string]*MatchRecord, len(records))
	for _, record := range records {
		byNetid[record.Netid] = record
	}

	report := &ValidationReport{PromptID: promptID, Errors: []string{}}
	for _, record := range records {
		for i, partner := range record.Matches {
			if strings.TrimSpace(partner) == "" {
				report.Errors = append(report.Errors,
					fmt.Sprintf("%s: match entry %d is empty", record.Netid, i))
				continue
			}

			reverse, ok := byNetid[partner]
			if !ok || reverse.IndexOf(record.Netid) < 0 {
				report.Errors = append(report.Errors,
					fmt.Sprintf("NON-MUTUAL: %s lists %s but %s does not list %s back", record.Netid, partner, partner, record.Netid))
			}
		}
	}

	report.IsValid = len(report.Errors) == 0
	RecordValidationErrors(len(report.Errors))
	return report, nil
}
