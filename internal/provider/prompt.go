package provider

import "fmt"

const careerSystemPrompt = "You are a professional career advisor specializing in technology and software development. " +
	"Provide detailed, practical, and actionable career guidance."

// careerPrompt wraps the question for plain text-generation models that take no system turn.
func careerPrompt(question string) string {
	return fmt.Sprintf(`You are a professional career advisor specializing in technology and software development.

The user asks: "%s"

Please provide a detailed, practical, and actionable response that includes:
1. Specific steps or recommendations
2. Relevant technologies, tools, or skills to learn
3. Realistic timelines or milestones
4. Resources for learning (courses, books, platforms)
5. Industry insights and current trends

Focus on being specific and helpful rather than generic advice.

Response:`, question)
}
