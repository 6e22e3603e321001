package message

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/microrent/rentflow/internal/model"
)

func testTarget() *model.ReminderTarget {
	return &model.ReminderTarget{
		TenantID:   "t-1",
		TenantName: "Alice Kim",
		RoomNumber: "204",
		Year:       2026,
		Month:      3,
		Amount:     decimal.RequireFromString("850.50"),
		DueDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderCommonFields(t *testing.T) {
	target := testTarget()
	asOf := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	for _, stage := range []model.Stage{
		model.StageFirst, model.StageSecond, model.StageThird, model.StageFinal,
	} {
		text := Render(stage, target, asOf)
		assert.Contains(t, text, "Alice Kim", "stage %s", stage)
		assert.Contains(t, text, "204", "stage %s", stage)
		assert.Contains(t, text, "2026/3", "stage %s", stage)
		// Whole-dollar rendering.
		assert.Contains(t, text, "$851", "stage %s", stage)
		assert.NotContains(t, text, "850.50", "stage %s", stage)
	}
}

func TestRenderEscalatingTone(t *testing.T) {
	target := testTarget()
	asOf := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)

	first := Render(model.StageFirst, target, asOf)
	second := Render(model.StageSecond, target, asOf)
	third := Render(model.StageThird, target, asOf)
	final := Render(model.StageFinal, target, asOf)

	assert.True(t, strings.HasPrefix(first, "Rent payment reminder"))
	assert.True(t, strings.HasPrefix(second, "Rent payment notice"))
	assert.True(t, strings.HasPrefix(third, "Overdue rent warning"))
	assert.True(t, strings.HasPrefix(final, "Final notice"))

	// Overdue stages report how late the payment is.
	assert.Contains(t, second, "8 days past due")
	assert.Contains(t, third, "Days overdue: 8")
	assert.Contains(t, final, "Days overdue: 8")
}

func TestRenderUnknownStageFallsBack(t *testing.T) {
	target := testTarget()
	asOf := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	text := Render(model.Stage("bogus"), target, asOf)
	assert.Equal(t, Render(model.StageFirst, target, asOf), text)
}

func TestTitle(t *testing.T) {
	title := Title(model.StageSecond, testTarget())
	assert.Equal(t, "2026/3 rent reminder (second)", title)
}
