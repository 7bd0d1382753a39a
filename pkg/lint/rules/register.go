package rules

import "github.com/yaklabco/goyamllint/pkg/lint"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Line rules
	registry.Register(NewTrailingSpacesRule())
	registry.Register(NewLineLengthRule())
	registry.Register(NewNewLinesRule())
	registry.Register(NewNewLineAtEndOfFileRule())
	registry.Register(NewEmptyLinesRule())

	// Token rules
	registry.Register(NewHyphensRule())
	registry.Register(NewColonsRule())
	registry.Register(NewCommasRule())
	registry.Register(NewBracketsRule())
	registry.Register(NewBracesRule())
	registry.Register(NewDocumentStartRule())
	registry.Register(NewDocumentEndRule())
	registry.Register(NewKeyDuplicatesRule())
	registry.Register(NewTruthyRule())
	registry.Register(NewAnchorsRule())

	// Comment rules
	registry.Register(NewCommentsRule())
	registry.Register(NewCommentsIndentationRule())
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
}
