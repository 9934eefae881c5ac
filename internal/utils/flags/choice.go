package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix        = "<"
	choicePlaceholderSuffix        = ">"
	choiceSeparatorLiteral         = "|"
	choiceUsageEmptyTemplate       = "`%s`"
	choiceUsageFullTemplate        = "`%s` %s"
	unsupportedChoiceErrorTemplate = "unsupported %s %q (expected one of %s)"
)

// FormatChoiceUsage renders "`<DEFAULT|other>` description" with the default option upper-cased.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// NormalizeChoice trims and lower-cases the value, returning an error when it is not one of the allowed choices.
func NormalizeChoice(settingName string, value string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range choices {
		if strings.ToLower(strings.TrimSpace(choice)) == normalizedValue {
			return normalizedValue, nil
		}
	}
	return "", fmt.Errorf(unsupportedChoiceErrorTemplate, settingName, value, strings.Join(uniqueChoices(choices), ", "))
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := uniqueChoices(choices)
	for choiceIndex, choice := range highlighted {
		if strings.ToLower(choice) == normalizedDefault {
			highlighted[choiceIndex] = strings.ToUpper(choice)
		}
	}
	return highlighted
}

func uniqueChoices(choices []string) []string {
	unique := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		unique = append(unique, trimmedChoice)
	}
	return unique
}
