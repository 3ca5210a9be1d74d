package question

// AdvisoryKind classifies non-fatal mapping findings.
type AdvisoryKind string

const (
	AdvisoryInvalidRegex       AdvisoryKind = "invalid_regex_answer"
	AdvisoryDifficultyFallback AdvisoryKind = "difficulty_fallback"
	AdvisoryCourseSingleton    AdvisoryKind = "course_singleton_fallback"
	AdvisoryUnknownVariant     AdvisoryKind = "unknown_variant_placeholder"
)

// Advisory is a non-fatal finding recorded while mapping a row. Advisories
// travel beside the row result instead of being folded into log output so
// the orchestrator can report them per row.
type Advisory struct {
	Kind    AdvisoryKind
	Message string
}
