package ollama

import (
	"fmt"
	"strings"

	"github.com/raglab/docchat/internal/core/domain"
)

// buildAnswerPrompt is the single-turn template. Sources in the
// context block are tagged [docN].
func buildAnswerPrompt(question, contextBlock string) string {
	return fmt.Sprintf(`You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, just say that you don't know. Keep the answer concise, truthful, and informative. If you decide to use a source, you must mention in which document you found specific information. Sources are indicated in the context by [doc<doc_number>].
Question: %s
Context: %s
Answer:`, question, contextBlock)
}

// buildChatPrompt is the conversational template. Sources are tagged
// [sourceN] and the numbering restarts from [source1] every question;
// the model is told not to continue numbering from earlier turns.
func buildChatPrompt(question, contextBlock string, history []domain.ConversationTurn) string {
	return fmt.Sprintf(`You are an assistant for technical troubleshooting and product support.
Use ONLY the provided context retrieved from documents relevant to the user's specific question.
- Always tell the truth.
- If you don't know the answer, say so clearly.
- ALWAYS cite sources using the format [sourceX], where X is the number assigned to the source in this specific context. Do NOT continue numbering from previous questions - always restart from [source1] for each new user question.
- If the question is unclear or lacks detail, ask a follow-up question to improve your understanding.

Chat History:
%s
Question:
%s

Context:
%s

Answer:`, renderTranscript(history), question, contextBlock)
}

// renderTranscript formats prior turns as a plain chat transcript.
func renderTranscript(history []domain.ConversationTurn) string {
	if len(history) == 0 {
		return ""
	}
	var b strings.Builder
	for _, turn := range history {
		b.WriteString("User: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
	return b.String()
}
