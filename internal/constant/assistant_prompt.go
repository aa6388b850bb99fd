package constant

// System instruction sent with every chat turn.
const AssistantSystemPrompt = "You are a helpful medical assistant. Provide information and explanations, but do not give definitive diagnoses or prescriptions. Always suggest consulting a qualified doctor."

// Prefix of the system message that carries the user's report summaries.
const MedicalSummaryPrefix = "Patient Medical Summary:\n"

const (
	UnnamedReport      = "Unnamed"
	NoSummaryAvailable = "No summary available"
)

// Report summarization.
const (
	ReportSummaryPrompt = `Summarize the key findings of the following medical report text. Be concise, list the main results, and use simple language that a person without medical training can follow.

Text: %s`
	ReportSummaryInputLimit = 4000
	ReportSummaryFallback   = "AI summary failed. Please review the document manually."
	MinReportTextLength     = 20
	MinSummaryLength        = 10
)

// Report explanation: language instruction, then the summary.
const ReportExplainPrompt = `%s

You are a friendly doctor explaining a medical report to a patient with no medical background. Use everyday words and explain any medical term right after using it.

Medical Report Summary:
%s

Cover, in a warm and reassuring tone:
1. What the findings mean
2. Which results look normal and which need attention
3. What to do next, such as talking to their doctor

Keep it conversational.`

var ExplainLanguageInstructions = map[string]string{
	"en": "Explain in English:",
	"hi": "Explain in Hindi (Hinglish is acceptable):",
}
