package llm

import (
	"strings"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

// PromptTemplate is a system message plus a user message with placeholders.
// Recognised placeholders: {{source}}, {{title}}, {{body}}, {{feedback}}.
type PromptTemplate struct {
	SystemMessage       string
	UserMessageTemplate string
}

// jsonContract is appended to every system message so the answer parses
const jsonContract = `

Respond with a single JSON object and nothing else. Always include these keys:
"mainPoints" (array of strings), "technicalAreas" (array of strings),
"severity" ("high", "medium" or "low"), "actionItems" (array of strings) and
"confidence" (number between 0 and 1). You may add further keys.`

var generalPrompt = PromptTemplate{
	SystemMessage: `You are an advanced feedback analysis system for Microsoft Teams development.
Your task is to analyze developer feedback and extract detailed insights using the following framework:

1. PROBLEM IDENTIFICATION
- Identify core issues/requests
- Categorize feedback type
- Assess severity and impact

2. TECHNICAL ANALYSIS
- Identify affected components
- Analyze technical dependencies
- Evaluate implementation complexity

3. USER IMPACT
- Assess user experience impact
- Identify affected user segments

4. ACTIONABLE INSIGHTS
- Provide specific recommendations
- Identify potential risks` + jsonContract,
	UserMessageTemplate: `Analyze the following feedback with high attention to detail:

FEEDBACK SOURCE: {{source}}
TITLE: {{title}}
DESCRIPTION: {{body}}

Provide a comprehensive analysis including:
1. Main problem/request identification
2. Technical impact assessment
3. User experience implications
4. Actionable recommendations
5. Priority and severity assessment`,
}

var bugPrompt = PromptTemplate{
	SystemMessage: `You are a technical bug analyzer for Microsoft Teams development. Your role is to analyze bug reports and identify key technical details.
Focus on:
1. Root cause analysis
2. Affected components
3. Reproduction steps
4. Impact and scope
5. Potential fixes` + jsonContract,
	UserMessageTemplate: `Analyze the following bug report from {{source}}:

{{feedback}}

Extract and structure the following information:
- Bug description
- Affected components
- Steps to reproduce
- Impact level
- Suggested fixes`,
}

var featurePrompt = PromptTemplate{
	SystemMessage: `You are a product analyst for Microsoft Teams development. Your task is to analyze feature requests and provide structured insights.
Focus on:
1. Core user need
2. Use case scenarios
3. Technical feasibility
4. Priority assessment
5. Implementation suggestions` + jsonContract,
	UserMessageTemplate: `Analyze the following feature request from {{source}}:

{{feedback}}

Extract and structure the following information:
- Core requirement
- Use cases
- Technical implications
- Priority level
- Implementation recommendations`,
}

var sentimentPrompt = PromptTemplate{
	SystemMessage: `You are a sentiment analysis expert for developer feedback. Your task is to analyze the emotional tone and satisfaction level in developer feedback.
Focus on:
1. Overall sentiment
2. Specific pain points
3. Satisfaction indicators
4. Urgency signals
5. Developer experience impact` + jsonContract,
	UserMessageTemplate: `Analyze the sentiment in the following feedback from {{source}}:

{{feedback}}

Provide a detailed sentiment analysis including:
- Overall sentiment (positive/negative/neutral)
- Emotional indicators
- Satisfaction level
- Urgency level
- Key phrases indicating sentiment`,
}

// PromptRegistry maps each analysis type to its template. It is built once
// and never mutated.
type PromptRegistry struct {
	templates map[types.AnalysisType]PromptTemplate
}

// NewPromptRegistry returns the fixed four-entry registry
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{
		templates: map[types.AnalysisType]PromptTemplate{
			types.AnalysisGeneral:   generalPrompt,
			types.AnalysisBug:       bugPrompt,
			types.AnalysisFeature:   featurePrompt,
			types.AnalysisSentiment: sentimentPrompt,
		},
	}
}

// Get returns the template for t; unknown types get the general template
func (r *PromptRegistry) Get(t types.AnalysisType) PromptTemplate {
	if tpl, ok := r.templates[types.ParseAnalysisType(string(t))]; ok {
		return tpl
	}
	return r.templates[types.AnalysisGeneral]
}

// Render fills the template for t with the item's fields
func (r *PromptRegistry) Render(t types.AnalysisType, item types.FeedbackItem) Prompt {
	tpl := r.Get(t)
	replacer := strings.NewReplacer(
		"{{source}}", string(item.Source),
		"{{title}}", item.Title,
		"{{body}}", item.Body,
		"{{feedback}}", PrepareFeedbackText(item),
	)
	return Prompt{
		System: tpl.SystemMessage,
		User:   replacer.Replace(tpl.UserMessageTemplate),
	}
}

// PrepareFeedbackText builds the single-field rendering of an item
func PrepareFeedbackText(item types.FeedbackItem) string {
	if item.Has(types.FieldRawText) {
		return item.Body
	}
	title := item.Title
	if title == "" {
		title = "No Title Provided"
	}
	body := strings.TrimSpace(item.Body)
	if body == "" {
		body = "No Body Content Provided"
	}
	return "Title: " + title + "\n\nDescription: " + body
}
