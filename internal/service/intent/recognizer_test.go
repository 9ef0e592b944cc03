package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/kpigpt/internal/core"
)

// fakeGenerator returns a canned completion or error.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeGenerator) CompleteStream(ctx context.Context, prompt string, temperature float64, maxTokens int) (<-chan core.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func TestClassify_WellFormedResponse(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"intent": "PERSON_INFO",
		"entities": {"person_name": "Md. Rafiqul Islam", "department": null, "info_type": "contact"},
		"confidence": 0.92,
		"natural_query": "Md. Rafiqul Islam contact information"
	}`}
	r := NewRecognizer(gen)

	cls, err := r.Classify(context.Background(), "What is the phone number of Md. Rafiqul Islam?", "")
	require.NoError(t, err)
	assert.Equal(t, core.IntentPersonInfo, cls.Intent)
	require.NotNil(t, cls.Entities.PersonName)
	assert.Equal(t, "Md. Rafiqul Islam", *cls.Entities.PersonName)
	assert.Nil(t, cls.Entities.Department)
	assert.Equal(t, 0.92, cls.Confidence)
	assert.Equal(t, "Md. Rafiqul Islam contact information", cls.NaturalQuery)
}

func TestClassify_SalvagesJSONFromProse(t *testing.T) {
	gen := &fakeGenerator{response: `Sure! Here is the classification:
{"intent": "GREETING", "entities": {}, "confidence": 0.99, "natural_query": "hello"}
Let me know if you need anything else.`}
	r := NewRecognizer(gen)

	cls, err := r.Classify(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, core.IntentGreeting, cls.Intent)
}

func TestClassify_RejectsUnknownIntent(t *testing.T) {
	gen := &fakeGenerator{response: `{"intent": "BANANA", "entities": {}, "confidence": 0.9}`}
	r := NewRecognizer(gen)

	_, err := r.Classify(context.Background(), "hello", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrClassification)
}

func TestClassify_NormalizesSlots(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"intent": "DEPARTMENT_INFO",
		"entities": {"person_name": "null", "department": "  Civil  ", "info_type": ""},
		"confidence": 1.7,
		"natural_query": ""
	}`}
	r := NewRecognizer(gen)

	cls, err := r.Classify(context.Background(), "civil department?", "")
	require.NoError(t, err)
	assert.Nil(t, cls.Entities.PersonName)
	require.NotNil(t, cls.Entities.Department)
	assert.Equal(t, "Civil", *cls.Entities.Department)
	assert.Nil(t, cls.Entities.InfoType)
	assert.Equal(t, 1.0, cls.Confidence)
	assert.Equal(t, "civil department?", cls.NaturalQuery)
}

func TestRecognize_FallsBackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	r := NewRecognizer(gen)

	cls := r.Recognize(context.Background(), "hello there", "")
	assert.Equal(t, core.IntentGreeting, cls.Intent)
	assert.Equal(t, 0.7, cls.Confidence)
}

func TestRecognize_FallsBackOnGarbage(t *testing.T) {
	gen := &fakeGenerator{response: "I am not JSON at all"}
	r := NewRecognizer(gen)

	cls := r.Recognize(context.Background(), "thanks a lot", "")
	assert.Equal(t, core.IntentThanks, cls.Intent)
}

func TestClassificationPrompt_CarriesContext(t *testing.T) {
	gen := &fakeGenerator{response: `{"intent": "UNKNOWN", "entities": {}, "confidence": 0.5}`}
	r := NewRecognizer(gen)

	_, err := r.Classify(context.Background(), "what about him?", "Currently discussing: Abdul Karim")
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "what about him?")
	assert.Contains(t, gen.prompts[0], "Currently discussing: Abdul Karim")
}

func TestHeuristicClassify(t *testing.T) {
	tests := []struct {
		name       string
		utterance  string
		wantIntent core.Intent
		wantConf   float64
	}{
		{"greeting", "Hello, how are you?", core.IntentGreeting, 0.7},
		{"bengali greeting", "Assalamu alaikum", core.IntentGreeting, 0.7},
		{"thanks", "ok thanks for the info", core.IntentThanks, 0.7},
		{"person name", "Who is Abdul Karim?", core.IntentPersonInfo, 0.6},
		{"general", "list of departments", core.IntentGeneralInfo, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := HeuristicClassify(tt.utterance)
			assert.Equal(t, tt.wantIntent, cls.Intent)
			assert.Equal(t, tt.wantConf, cls.Confidence)
		})
	}
}

func TestHeuristicClassify_NameExtraction(t *testing.T) {
	cls := HeuristicClassify("Tell me about Fatema Begum please")
	require.Equal(t, core.IntentPersonInfo, cls.Intent)
	require.NotNil(t, cls.Entities.PersonName)
	assert.Equal(t, "Fatema Begum", *cls.Entities.PersonName)
	assert.Equal(t, "Fatema Begum teacher instructor information", cls.NaturalQuery)
}

func TestHeuristicClassify_QuestionOpenersAreNotNames(t *testing.T) {
	cls := HeuristicClassify("What is KPI?")
	assert.Equal(t, core.IntentGeneralInfo, cls.Intent)
}
