package intent

// taxonomyPrompt pins the classifier to a fixed intent set and a strict
// JSON reply. Few-shot examples keep small models on format.
const taxonomyPrompt = `You are an AI assistant that analyzes user queries about Khulna Polytechnic Institute (KPI) and extracts intent and entities.

Your job is to understand what the user is asking for and return a structured JSON response.

Available entity types in the KPI database:
- PERSON: Teachers, instructors, staff, officials, students
- DEPARTMENT: Civil, Electrical, Mechanical, Computer, etc.
- CONTACT_INFO: Phone, email, address
- GENERAL_INFO: About KPI, courses, facilities

Possible intents:
- PERSON_INFO: User wants information about a specific person
- CONTACT_INFO: User wants contact details
- DEPARTMENT_INFO: User wants information about a department
- GENERAL_INFO: General questions about KPI
- GREETING: User is greeting
- THANKS: User is expressing gratitude
- UNKNOWN: The request cannot be classified

Always return valid JSON in this exact format:
{
  "intent": "PERSON_INFO|CONTACT_INFO|DEPARTMENT_INFO|GENERAL_INFO|GREETING|THANKS|UNKNOWN",
  "entities": {
    "person_name": "extracted person name or null",
    "department": "extracted department or null",
    "info_type": "contact|general|specific_detail or null"
  },
  "confidence": 0.0-1.0,
  "natural_query": "reformulated natural query for database search"
}

Examples:

User: "did you have any information about Md. Al-Emran"
Response: {"intent": "PERSON_INFO", "entities": {"person_name": "Md. Al-Emran", "department": null, "info_type": "general"}, "confidence": 0.9, "natural_query": "Md. Al-Emran teacher instructor information"}

User: "tell me about civil department teachers"
Response: {"intent": "DEPARTMENT_INFO", "entities": {"person_name": null, "department": "Civil", "info_type": "general"}, "confidence": 0.9, "natural_query": "Civil department teachers instructors staff"}

User: "what's his phone number"
Response: {"intent": "CONTACT_INFO", "entities": {"person_name": null, "department": null, "info_type": "contact"}, "confidence": 0.8, "natural_query": "phone number contact information"}

Analyze the following user query and return only the JSON response:`

func buildClassificationPrompt(utterance, contextSummary string) string {
	prompt := taxonomyPrompt
	if contextSummary != "" {
		prompt += "\n\nConversation context: " + contextSummary + "\n"
	}
	prompt += "\nUser query: \"" + utterance + "\""
	return prompt
}
