package flow

import "regexp"

var (
	lastRunLine = regexp.MustCompile(`(?m)^\s*lastRun:.*$`)
	stepsLine   = regexp.MustCompile(`(?m)^\s*steps:\s*$`)
)

// SetLastRun rewrites the lastRun marker inside flow text to date,
// replacing an existing lastRun line or inserting one immediately
// before the steps line when absent. It reports whether the text
// changed. Text without a steps line comes back untouched.
func SetLastRun(text, date string) (string, bool) {
	marker := "lastRun: " + date

	if loc := lastRunLine.FindStringIndex(text); loc != nil {
		updated := text[:loc[0]] + marker + text[loc[1]:]
		return updated, updated != text
	}
	if loc := stepsLine.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + marker + "\n" + text[loc[0]:], true
	}
	return text, false
}
