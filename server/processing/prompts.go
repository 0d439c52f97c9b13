package processing

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// Prompt names. Each one matches a key accepted under processing.templates.
const (
	PromptActs        = "acts"
	PromptSimplify    = "simplify"
	PromptExplain     = "explain"
	PromptPredict     = "predict"
	PromptDictionary  = "dictionary"
	PromptTimeline    = "timeline"
	PromptChat        = "chat"
	PromptGeneralChat = "general_chat"
)

// Template data, one type per prompt.
type (
	ActsData struct {
		Query string
	}
	SimplifyData struct {
		Document string
	}
	ExplainData struct {
		Concept  string
		Language string
	}
	PredictData struct {
		Text string
	}
	DictionaryData struct {
		Term     string
		Language string
	}
	TimelineData struct {
		Concept string
	}
	ChatData struct {
		Context  string
		Question string
	}
	GeneralChatData struct {
		Question string
	}
)

var defaultTemplates = map[string]string{
	PromptActs: `You are an expert on statutes and legal codes. The user wants to know about "{{.Query}}".
Name the act, rule or section that applies and the jurisdiction it belongs to (country, state or region).
Explain what the provision says, what it means in everyday language, and why it matters.
Start the answer with a heading naming the act or section.
When the query is ambiguous, such as a bare section number, pick the best known interpretation.`,

	PromptSimplify: `Read the legal document below and explain it as plainly as you would to a ten year old.
Reply with one JSON object and nothing else. It must have exactly two keys, "summary" and "definitions".
"summary" is a string written with short sentences, common words and analogies.
"definitions" is an object mapping each difficult word in the document to a simple explanation.
Document text: --- {{.Document}} ---`,

	PromptExplain: `Explain the legal concept "{{.Concept}}" to someone with no legal training.
Write the explanation in {{.Language}}.
Include an everyday example or analogy.`,

	PromptPredict: `You are a legal analyst reviewing the text below.
Reply with one JSON object and nothing else, with the keys "risks" and "prediction".
"risks" is an array of objects, each with "risk", "clause" and "severity", where severity is one of High, Medium or Low. Use an empty array when you find no risks.
"prediction" is an object with "outcome", a short verdict such as "Likely to Win", "Likely to Lose" or "Uncertain", and "reasoning", a brief plain explanation grounded in the text.
Text: --- {{.Text}} ---`,

	PromptDictionary: `You are a legal dictionary. Define the term "{{.Term}}" in a single simple sentence.
Reply with the definition only, written in {{.Language}}.`,

	PromptTimeline: `Produce a historical timeline of the legal concept "{{.Concept}}".
Reply with a JSON array and nothing else. Every element is an object with two string keys, "year" and "content".`,

	PromptChat: `Answer the user's question using only the document text below.
If the document does not contain the answer, reply "That information is not found in this document."
Document context: --- {{.Context}} ---
User question: "{{.Question}}"`,

	PromptGeneralChat: `You are LegalEase AI, a friendly assistant whose main job is explaining legal topics in plain language.
You may also answer general questions and make conversation.
Never give legal advice.
User question: "{{.Question}}"`,
}

// Prompts renders the prompt for each capability.
type Prompts struct {
	templates map[string]*template.Template
}

// NewPrompts parses the built-in templates, replacing any named in
// overrides. Unknown names and unparsable bodies are errors.
func NewPrompts(overrides map[string]string) (*Prompts, error) {
	sources := make(map[string]string, len(defaultTemplates))
	for name, body := range defaultTemplates {
		sources[name] = body
	}
	for name, body := range overrides {
		if _, ok := defaultTemplates[name]; !ok {
			return nil, fmt.Errorf("unknown prompt template %q (known: %s)", name, strings.Join(Names(), ", "))
		}
		sources[name] = body
	}

	p := &Prompts{templates: make(map[string]*template.Template, len(sources))}
	for name, body := range sources {
		t, err := template.New(name).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.templates[name] = t
	}
	return p, nil
}

// Names lists the prompt names in sorted order.
func Names() []string {
	names := make([]string, 0, len(defaultTemplates))
	for name := range defaultTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template with data.
func (p *Prompts) Render(name string, data interface{}) (string, error) {
	t, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("no template named %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Truncate returns the first n characters of s, counted in runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
