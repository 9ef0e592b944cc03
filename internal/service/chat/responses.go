package chat

import (
	"hash/fnv"

	"github.com/sandevgo/kpigpt/internal/core"
)

var greetingResponses = []string{
	"Hello! I'm KPI GPT, your AI assistant for Khulna Polytechnic Institute. How can I help you today?",
	"Hi there! I'm here to help you with any questions about KPI. What would you like to know?",
	"Hey! I'm KPI GPT. Ask me about teachers, departments, or anything else at Khulna Polytechnic Institute.",
}

var thanksResponses = []string{
	"You're welcome! Feel free to ask me anything else about KPI.",
	"Happy to help! Is there anything else you'd like to know?",
	"Glad I could help! Any other questions about teachers, departments, or KPI?",
}

const degradedAnswer = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// pickResponse keeps canned replies stable for a given utterance.
func pickResponse(pool []string, utterance string) string {
	h := fnv.New32a()
	h.Write([]byte(utterance))
	return pool[h.Sum32()%uint32(len(pool))]
}

func noInfoAnswer(cls core.Classification) string {
	switch cls.Intent {
	case core.IntentPersonInfo:
		if cls.Entities.PersonName != nil {
			return "Sorry, I don't have any information about '" + *cls.Entities.PersonName +
				"'. Try the name of another teacher or official."
		}
	case core.IntentDepartmentInfo:
		return "I couldn't find information about that department. Try a department name like Civil, Electrical, or Mechanical."
	}
	return "Sorry, I couldn't find an answer to your question. Try asking in a different way."
}
