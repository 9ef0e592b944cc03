package convctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/kpigpt/internal/core"
)

func TestResolve_PronounWithFocus(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{SessionID: "s1", Focus: "Md. Rafiqul Islam"}

	tests := []struct {
		name      string
		utterance string
		want      string
	}{
		{"object pronoun", "What is the contact number of him?", "What is the contact number of Md. Rafiqul Islam?"},
		{"subject pronoun", "Which department does he teach in?", "Which department does Md. Rafiqul Islam teach in?"},
		{"demonstrative", "Tell me about this person", "Tell me about Md. Rafiqul Islam"},
		{"that teacher", "What does that teacher do?", "What does Md. Rafiqul Islam do?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Resolve(tt.utterance, state)
			assert.Equal(t, tt.want, got.Text)
			assert.True(t, got.PronounDetected)
			assert.True(t, got.FocusApplied)
			assert.Equal(t, tt.utterance, got.Original)
		})
	}
}

func TestResolve_PronounWithoutFocus(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{SessionID: "s1"}

	got := svc.Resolve("What is his phone number? Tell me about him", state)
	assert.Equal(t, "What is his phone number? Tell me about him", got.Text)
	assert.True(t, got.PronounDetected)
	assert.False(t, got.FocusApplied)
}

func TestResolve_VagueFollowupUsesFocus(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{SessionID: "s1", Focus: "Electrical Technology"}

	got := svc.Resolve("Tell me more", state)
	assert.Equal(t, "Tell me more Electrical Technology", got.Text)
	assert.True(t, got.FocusApplied)
	assert.False(t, got.PronounDetected)
}

func TestResolve_NoPronounPassesThrough(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{SessionID: "s1", Focus: "Md. Rafiqul Islam"}

	got := svc.Resolve("List the departments of KPI", state)
	assert.Equal(t, "List the departments of KPI", got.Text)
	assert.False(t, got.FocusApplied)
}

func TestUpdate_ExplicitEntityWinsFocus(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{SessionID: "s1", Focus: "Old Person"}

	name := "Fatema Begum"
	turn := core.Turn{
		ID:       "t1",
		Intent:   core.IntentPersonInfo,
		Entities: core.EntitySet{PersonName: &name},
		Answer:   "Someone Else appears in this answer with Another Name.",
	}

	state = svc.Update(state, turn)
	assert.Equal(t, "Fatema Begum", state.Focus)
	require.Len(t, state.History, 1)
}

func TestUpdate_SingleNameInAnswerAdopted(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{SessionID: "s1"}

	turn := core.Turn{
		ID:     "t1",
		Intent: core.IntentGeneralInfo,
		Answer: "The head of the department is Kamal Hossain, reachable by phone.",
	}

	state = svc.Update(state, turn)
	assert.Equal(t, "Kamal Hossain", state.Focus)
}

func TestUpdate_MultipleNamesLeaveFocusAlone(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{SessionID: "s1", Focus: "Kamal Hossain"}

	turn := core.Turn{
		ID:     "t2",
		Intent: core.IntentGeneralInfo,
		Answer: "Both Rahim Uddin and Karim Sheikh teach in that department.",
	}

	state = svc.Update(state, turn)
	assert.Equal(t, "Kamal Hossain", state.Focus)
}

func TestUpdate_EvictsBeyondWindow(t *testing.T) {
	svc := NewService(3)
	state := core.ConversationState{SessionID: "s1"}

	for i := 0; i < 5; i++ {
		state = svc.Update(state, core.Turn{ID: string(rune('a' + i))})
	}

	require.Len(t, state.History, 3)
	assert.Equal(t, "c", state.History[0].ID)
	assert.Equal(t, "e", state.History[2].ID)
}

func TestClear_KeepsSessionID(t *testing.T) {
	svc := NewService(10)
	state := core.ConversationState{
		SessionID: "s1",
		Focus:     "Kamal Hossain",
		History:   []core.Turn{{ID: "t1"}},
	}

	state = svc.Clear(state)
	assert.Equal(t, "s1", state.SessionID)
	assert.Empty(t, state.Focus)
	assert.Empty(t, state.History)
}

func TestExtractPersonNames(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain name", "Abdul Karim teaches electronics.", []string{"Abdul Karim"}},
		{"honorific", "Contact Md. Rafiqul Islam for details.", []string{"Md. Rafiqul Islam"}},
		{"initials", "S.M. Kamruzzaman is the chief instructor.", []string{"S.M. Kamruzzaman"}},
		{"false positive filtered", "Khulna Polytechnic has many departments.", nil},
		{"dedupe", "Abdul Karim met Abdul Karim.", []string{"Abdul Karim"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPersonNames(tt.text))
		})
	}
}
