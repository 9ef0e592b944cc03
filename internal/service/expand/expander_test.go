package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/kpigpt/internal/core"
)

func strptr(s string) *string { return &s }

func TestExpand_LiteralAlwaysFirst(t *testing.T) {
	e := NewExpander(4)
	cls := core.Classification{
		Intent:       core.IntentUnknown,
		NaturalQuery: "something unclassifiable",
	}

	queries := e.Expand(cls)
	require.NotEmpty(t, queries)
	assert.Equal(t, core.StrategyLiteral, queries[0].Strategy)
	assert.Equal(t, "something unclassifiable", queries[0].Text)
	assert.Len(t, queries, 1)
}

func TestExpand_PersonWithDepartment(t *testing.T) {
	e := NewExpander(4)
	cls := core.Classification{
		Intent:       core.IntentPersonInfo,
		Entities:     core.EntitySet{PersonName: strptr("Abdul Karim"), Department: strptr("Civil")},
		NaturalQuery: "Abdul Karim information",
	}

	queries := e.Expand(cls)
	require.Len(t, queries, 3)
	assert.Equal(t, core.StrategyLiteral, queries[0].Strategy)
	assert.Equal(t, core.StrategyEntity, queries[1].Strategy)
	assert.Equal(t, "Abdul Karim", queries[1].Text)
	assert.Equal(t, core.StrategyCombined, queries[2].Strategy)
	assert.Equal(t, "Abdul Karim teacher instructor staff Civil department", queries[2].Text)
}

func TestExpand_ContactIntentTemplatesWithName(t *testing.T) {
	e := NewExpander(4)
	cls := core.Classification{
		Intent:       core.IntentContactInfo,
		Entities:     core.EntitySet{PersonName: strptr("Fatema Begum")},
		NaturalQuery: "Fatema Begum phone number",
	}

	queries := e.Expand(cls)
	require.Len(t, queries, 4)
	assert.Equal(t, core.StrategyIntentTemplate, queries[3].Strategy)
	assert.Equal(t, "Fatema Begum contact phone email address", queries[3].Text)
}

func TestExpand_DepartmentOnly(t *testing.T) {
	e := NewExpander(4)
	cls := core.Classification{
		Intent:       core.IntentDepartmentInfo,
		Entities:     core.EntitySet{Department: strptr("Electrical")},
		NaturalQuery: "Electrical department teachers",
	}

	queries := e.Expand(cls)
	require.Len(t, queries, 3)
	assert.Equal(t, core.StrategyCombined, queries[1].Strategy)
	assert.Equal(t, "Electrical department teachers instructors", queries[1].Text)
	assert.Equal(t, core.StrategyIntentTemplate, queries[2].Strategy)
}

func TestExpand_CapRespected(t *testing.T) {
	e := NewExpander(2)
	cls := core.Classification{
		Intent:       core.IntentContactInfo,
		Entities:     core.EntitySet{PersonName: strptr("Abdul Karim")},
		NaturalQuery: "Abdul Karim contact",
	}

	queries := e.Expand(cls)
	require.Len(t, queries, 2)
	assert.Equal(t, core.StrategyLiteral, queries[0].Strategy)
	assert.Equal(t, core.StrategyEntity, queries[1].Strategy)
}

func TestExpand_TemplateSkippedWhenEqualToLiteral(t *testing.T) {
	e := NewExpander(4)
	cls := core.Classification{
		Intent:       core.IntentGeneralInfo,
		NaturalQuery: "Khulna Polytechnic Institute information",
	}

	queries := e.Expand(cls)
	require.Len(t, queries, 1)
	assert.Equal(t, core.StrategyLiteral, queries[0].Strategy)
}
