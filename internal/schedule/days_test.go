package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schedcal/internal/model"
)

func TestParseDays_DedupPreservesFirstSeenOrder(t *testing.T) {
	got := ParseDays("Mon, Wed, Mon")
	assert.Equal(t, []model.DayCode{model.Monday, model.Wednesday}, got)
}

func TestParseDays_SingleLetterConvention(t *testing.T) {
	// Registrar single-letter convention: R is Thursday, S Saturday, U Sunday.
	got := ParseDays("M T W R F")
	assert.Equal(t, []model.DayCode{
		model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday,
	}, got)

	assert.Equal(t, []model.DayCode{model.Saturday, model.Sunday}, ParseDays("S U"))
}

func TestParseDays_LongerAliasWinsOverSingleLetter(t *testing.T) {
	// "Su" must resolve to Sunday, not Saturday's "S".
	assert.Equal(t, []model.DayCode{model.Sunday}, ParseDays("Su"))
	// "Th" must resolve to Thursday, not Tuesday's "T".
	assert.Equal(t, []model.DayCode{model.Thursday}, ParseDays("Th"))
}

func TestParseDays_SeparatorsAndCase(t *testing.T) {
	got := ParseDays("MON.|wed,FRI")
	assert.Equal(t, []model.DayCode{model.Monday, model.Wednesday, model.Friday}, got)
}

func TestParseDays_UnmatchedTokensSilentlySkipped(t *testing.T) {
	got := ParseDays("Mon bogus Wed 10:00")
	assert.Equal(t, []model.DayCode{model.Monday, model.Wednesday}, got)

	assert.Empty(t, ParseDays("no days here"))
	assert.Empty(t, ParseDays(""))
}
